package patients

import (
	"fmt"

	"github.com/wolfman30/clinicdesk/internal/apperr"
)

var (
	// ErrPatientNotFound is returned when a patient id does not exist.
	ErrPatientNotFound = fmt.Errorf("patient %w", apperr.ErrNotFound)

	// ErrInvalidPatientID is returned for ids that are not UUIDs.
	ErrInvalidPatientID = apperr.Invalid("patient id must be a UUID")
)
