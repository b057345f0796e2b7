package waitlist

import (
	"fmt"

	"github.com/wolfman30/clinicdesk/internal/apperr"
)

var (
	// ErrEntryNotFound is returned when a waiting list entry does not exist.
	ErrEntryNotFound = fmt.Errorf("waiting list entry %w", apperr.ErrNotFound)

	// ErrPatientNotFound is returned when the referenced patient does not exist.
	ErrPatientNotFound = fmt.Errorf("patient %w", apperr.ErrNotFound)
)
