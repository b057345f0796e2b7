package patients

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/contact"
)

// Patient is a clinic patient record.
type Patient struct {
	ID        uuid.UUID
	FullName  string
	BirthDate *time.Time
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type patientJSON struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	BirthDate string    `json:"birth_date,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON renders the birth date as YYYY-MM-DD.
func (p Patient) MarshalJSON() ([]byte, error) {
	out := patientJSON{
		ID:        p.ID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.BirthDate != nil {
		out.BirthDate = p.BirthDate.Format(contact.DateLayout)
	}
	return json.Marshal(out)
}

// CreatePatientRequest is the body of POST /patients.
type CreatePatientRequest struct {
	FullName  string `json:"full_name"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// UpdatePatientRequest is the body of PUT /patients/{id}. Nil fields are left
// unchanged; an empty string clears an optional field.
type UpdatePatientRequest struct {
	FullName  *string `json:"full_name"`
	BirthDate *string `json:"birth_date"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// Build validates the request and returns the patient to insert.
func (r CreatePatientRequest) Build(now time.Time) (*Patient, error) {
	in := contact.PatientInput{
		Name:      &r.FullName,
		Email:     &r.Email,
		Phone:     &r.Phone,
		BirthDate: &r.BirthDate,
	}
	if problems := in.Validate(now); len(problems) > 0 {
		return nil, apperr.Invalid("%s", strings.Join(problems, "; "))
	}
	p := &Patient{
		FullName: strings.TrimSpace(r.FullName),
		Email:    strings.TrimSpace(r.Email),
		Phone:    normalizeOptionalPhone(r.Phone),
	}
	p.BirthDate = parseOptionalDate(r.BirthDate, now)
	return p, nil
}

// Validate checks the submitted fields without touching storage.
func (r UpdatePatientRequest) Validate(now time.Time) error {
	in := contact.PatientInput{
		Name:      r.FullName,
		Email:     r.Email,
		Phone:     r.Phone,
		BirthDate: r.BirthDate,
	}
	if problems := in.Validate(now); len(problems) > 0 {
		return apperr.Invalid("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Apply validates the request and copies the submitted fields onto p.
func (r UpdatePatientRequest) Apply(p *Patient, now time.Time) error {
	if err := r.Validate(now); err != nil {
		return err
	}
	if r.FullName != nil {
		p.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.Email != nil {
		p.Email = strings.TrimSpace(*r.Email)
	}
	if r.Phone != nil {
		p.Phone = normalizeOptionalPhone(*r.Phone)
	}
	if r.BirthDate != nil {
		p.BirthDate = parseOptionalDate(*r.BirthDate, now)
	}
	return nil
}

func normalizeOptionalPhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	return contact.NormalizePhone(phone)
}

func parseOptionalDate(value string, now time.Time) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	d, msg := contact.ParseBirthDate(value, now)
	if msg != "" {
		return nil
	}
	return &d
}

// ListFilter narrows List results.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}
