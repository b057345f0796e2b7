package reminders

import (
	"fmt"

	"github.com/wolfman30/clinicdesk/internal/apperr"
)

var (
	// ErrReminderNotFound is returned when a reminder id does not exist.
	ErrReminderNotFound = fmt.Errorf("reminder %w", apperr.ErrNotFound)

	// ErrNotAllowed is returned when the actor is neither creator nor target.
	ErrNotAllowed = fmt.Errorf("reminder can only be changed by its creator or target: %w", apperr.ErrForbidden)
)
