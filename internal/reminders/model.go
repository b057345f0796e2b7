package reminders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Channel specifies how the reminder is surfaced.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelInApp || c == ChannelEmail
}

// Reminder is a scheduled notification for a staff member.
type Reminder struct {
	ID          uuid.UUID
	Title       string
	Description string
	DueAt       time.Time
	Channel     Channel
	// LeadTime is how long before DueAt the reminder is surfaced.
	LeadTime   time.Duration
	CreatedBy  string
	TargetUser string
	// Sent only ever goes from false to true.
	Sent            bool
	SentAt          *time.Time
	WaitlistEntryID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SurfaceAt is when the reminder should be shown to its target.
func (r *Reminder) SurfaceAt() time.Time {
	return r.DueAt.Add(-r.LeadTime)
}

// IsDue reports whether an unsent reminder should be surfaced at now.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.Sent && !r.SurfaceAt().After(now)
}

type reminderJSON struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DueAt           time.Time  `json:"due_at"`
	SurfaceAt       time.Time  `json:"surface_at"`
	Channel         Channel    `json:"channel"`
	LeadTimeMinutes int64      `json:"lead_time_minutes"`
	CreatedBy       string     `json:"created_by"`
	TargetUser      string     `json:"target_user"`
	Sent            bool       `json:"sent"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
	WaitlistEntryID *uuid.UUID `json:"waitlist_entry_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MarshalJSON reports the lead time in minutes.
func (r Reminder) MarshalJSON() ([]byte, error) {
	return json.Marshal(reminderJSON{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		DueAt:           r.DueAt,
		SurfaceAt:       r.SurfaceAt(),
		Channel:         r.Channel,
		LeadTimeMinutes: int64(r.LeadTime / time.Minute),
		CreatedBy:       r.CreatedBy,
		TargetUser:      r.TargetUser,
		Sent:            r.Sent,
		SentAt:          r.SentAt,
		WaitlistEntryID: r.WaitlistEntryID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	})
}
