package waitlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/clinicdesk/internal/apperr"
)

// Priority orders waiting list entries. Higher values are served first.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityNormal: "normal",
	PriorityHigh:   "high",
	PriorityUrgent: "urgent",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Valid reports whether p is one of the defined levels.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// ParsePriority accepts the lowercase level names.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return 0, apperr.Invalid("unknown priority %q", s)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("waitlist: invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Entry is a pending request for an appointment that has not been scheduled.
type Entry struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	PatientName     string     `json:"patient_name"`
	PreferredStart  *time.Time `json:"preferred_start,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	AppointmentType string     `json:"appointment_type,omitempty"`
	Priority        Priority   `json:"priority"`
	PreferredDays   []string   `json:"preferred_days"`
	CreatedBy       string     `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateEntryRequest is the body of POST /waitlist.
type CreateEntryRequest struct {
	PatientID       string     `json:"patient_id"`
	PreferredStart  *time.Time `json:"preferred_start"`
	Notes           string     `json:"notes"`
	AppointmentType string     `json:"appointment_type"`
	Priority        *Priority  `json:"priority"`
	PreferredDays   []string   `json:"preferred_days"`
}

const maxNotesLength = 2000

// Build validates the request and returns the entry to store. Priority
// defaults to normal.
func (r CreateEntryRequest) Build(createdBy string) (*Entry, error) {
	patientID, err := uuid.Parse(strings.TrimSpace(r.PatientID))
	if err != nil {
		return nil, apperr.Invalid("patient_id must be a UUID")
	}
	priority := PriorityNormal
	if r.Priority != nil {
		if !r.Priority.Valid() {
			return nil, apperr.Invalid("invalid priority")
		}
		priority = *r.Priority
	}
	if len(r.Notes) > maxNotesLength {
		return nil, apperr.Invalid("notes must be at most %d characters", maxNotesLength)
	}
	days := make([]string, 0, len(r.PreferredDays))
	seen := map[string]bool{}
	for _, d := range r.PreferredDays {
		d = strings.ToLower(strings.TrimSpace(d))
		if !weekdays[d] {
			return nil, apperr.Invalid("unknown weekday %q", d)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	var start *time.Time
	if r.PreferredStart != nil {
		s := r.PreferredStart.UTC()
		start = &s
	}
	return &Entry{
		PatientID:       patientID,
		PreferredStart:  start,
		Notes:           strings.TrimSpace(r.Notes),
		AppointmentType: strings.TrimSpace(r.AppointmentType),
		Priority:        priority,
		PreferredDays:   days,
		CreatedBy:       createdBy,
	}, nil
}
