package reminders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/clinicdesk/internal/waitlist"
)

var testNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func TestFromWaitingListEntryUsesPreferredStart(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	entry := waitlist.Entry{
		ID:             uuid.New(),
		PatientName:    "Ana Costa",
		PreferredStart: &start,
		Notes:          "Prefers mornings",
		Priority:       waitlist.PriorityHigh,
	}

	r := FromWaitingListEntry(entry, "staff-1", testNow)

	assert.Equal(t, "Waiting List – Ana Costa", r.Title)
	assert.Equal(t, "Prefers mornings", r.Description)
	assert.True(t, r.DueAt.Equal(start))
	assert.Equal(t, ChannelInApp, r.Channel)
	assert.Zero(t, r.LeadTime)
	assert.Equal(t, "staff-1", r.CreatedBy)
	assert.Equal(t, "staff-1", r.TargetUser)
	assert.False(t, r.Sent)
	require.NotNil(t, r.WaitlistEntryID)
	assert.Equal(t, entry.ID, *r.WaitlistEntryID)
}

func TestFromWaitingListEntryDefaults(t *testing.T) {
	tests := []struct {
		name        string
		entry       waitlist.Entry
		description string
	}{
		{
			name:        "type and priority",
			entry:       waitlist.Entry{PatientName: "Rui", AppointmentType: "Consultation", Priority: waitlist.PriorityUrgent},
			description: "Consultation; priority urgent",
		},
		{
			name:        "no type",
			entry:       waitlist.Entry{PatientName: "Rui", Priority: waitlist.PriorityNormal},
			description: "Unspecified; priority normal",
		},
		{
			name:        "blank notes",
			entry:       waitlist.Entry{PatientName: "Rui", Notes: "   ", AppointmentType: "Follow-up", Priority: waitlist.PriorityLow},
			description: "Follow-up; priority low",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromWaitingListEntry(tt.entry, "staff-2", testNow)
			assert.Equal(t, tt.description, r.Description)
			assert.True(t, r.DueAt.Equal(testNow.Add(DefaultGraceWindow)))
		})
	}
}

func TestReminderSurfaceAndDue(t *testing.T) {
	r := Reminder{DueAt: testNow.Add(time.Hour), LeadTime: 30 * time.Minute}
	assert.True(t, r.SurfaceAt().Equal(testNow.Add(30*time.Minute)))
	assert.False(t, r.IsDue(testNow))
	assert.True(t, r.IsDue(testNow.Add(30*time.Minute)))

	r.Sent = true
	assert.False(t, r.IsDue(testNow.Add(2*time.Hour)))
}
