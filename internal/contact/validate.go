package contact

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

const (
	MsgNameRequired     = "name is required"
	MsgInvalidEmail     = "invalid email address"
	MsgInvalidPhone     = "invalid phone number"
	MsgInvalidBirthDate = "birth date must be a valid date in YYYY-MM-DD format"
	MsgFutureBirthDate  = "birth date cannot be in the future"
)

// PatientInput is the set of patient fields a form may submit. A nil field was
// not submitted and is not checked.
type PatientInput struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
}

// Validate checks every submitted field and returns one message per problem.
// An empty result means the input is valid. now decides which birth dates are
// in the future.
func (in PatientInput) Validate(now time.Time) []string {
	var errs []string
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, MsgNameRequired)
	}
	errs = append(errs, ValidateContact(in.Email, in.Phone)...)
	if in.BirthDate != nil && strings.TrimSpace(*in.BirthDate) != "" {
		if _, msg := ParseBirthDate(*in.BirthDate, now); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// ValidateContact checks an optional email and phone. Blank values count as
// not submitted.
func ValidateContact(email, phone *string) []string {
	var errs []string
	if email != nil && strings.TrimSpace(*email) != "" && !IsValidEmail(*email) {
		errs = append(errs, MsgInvalidEmail)
	}
	if phone != nil && strings.TrimSpace(*phone) != "" && !IsValidPhone(*phone) {
		errs = append(errs, MsgInvalidPhone)
	}
	return errs
}

// ParseBirthDate parses a YYYY-MM-DD birth date and rejects dates after the
// calendar day of now. On failure the returned message explains why.
func ParseBirthDate(value string, now time.Time) (time.Time, string) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, MsgInvalidBirthDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return time.Time{}, MsgFutureBirthDate
	}
	return d, ""
}
