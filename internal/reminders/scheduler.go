package reminders

import (
	"strings"
	"time"

	"github.com/wolfman30/clinicdesk/internal/waitlist"
)

// DefaultGraceWindow is the due date offset used when a waiting list entry has
// no preferred start.
const DefaultGraceWindow = 7 * 24 * time.Hour

const unspecifiedType = "Unspecified"

// FromWaitingListEntry builds the self-reminder a staff member gets when they
// ask to be notified about a waiting list entry. The result is not persisted.
func FromWaitingListEntry(entry waitlist.Entry, actor string, now time.Time) Reminder {
	due := now.Add(DefaultGraceWindow)
	if entry.PreferredStart != nil {
		due = *entry.PreferredStart
	}

	description := strings.TrimSpace(entry.Notes)
	if description == "" {
		apptType := strings.TrimSpace(entry.AppointmentType)
		if apptType == "" {
			apptType = unspecifiedType
		}
		description = apptType + "; priority " + entry.Priority.String()
	}

	entryID := entry.ID
	return Reminder{
		Title:           "Waiting List – " + entry.PatientName,
		Description:     description,
		DueAt:           due,
		Channel:         ChannelInApp,
		LeadTime:        0,
		CreatedBy:       actor,
		TargetUser:      actor,
		Sent:            false,
		WaitlistEntryID: &entryID,
	}
}
