package notify

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// ReminderNotice is the content of a reminder delivered by email.
type ReminderNotice struct {
	Title       string
	Description string
	DueAt       time.Time
}

// ReminderEmail renders a reminder for its recipient.
func ReminderEmail(to, toName string, n ReminderNotice, loc *time.Location) EmailMessage {
	if loc == nil {
		loc = time.UTC
	}
	due := n.DueAt.In(loc).Format("Monday, 2 January 2006 at 15:04")
	greeting := "Hello"
	if toName != "" {
		greeting = "Hello " + toName
	}

	body := fmt.Sprintf("%s,\n\nReminder: %s\nDue: %s\n", greeting, n.Title, due)
	if n.Description != "" {
		body += "\n" + n.Description + "\n"
	}

	htmlBody := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<p>%s,</p>
<h2>%s</h2>
<p><strong>Due:</strong> %s</p>
%s
</div>`, html.EscapeString(greeting), html.EscapeString(n.Title), html.EscapeString(due), optionalParagraph(n.Description))

	return EmailMessage{
		To:      to,
		ToName:  toName,
		Subject: "Reminder: " + n.Title,
		Body:    body,
		HTML:    htmlBody,
	}
}

// BirthdayLine is one patient in the daily birthday digest.
type BirthdayLine struct {
	Name  string
	Age   int
	Phone string
}

// BirthdayDigestEmail renders the list of patients celebrating on day.
// Recipients are filled in by the caller.
func BirthdayDigestEmail(day time.Time, lines []BirthdayLine) EmailMessage {
	date := day.Format("2 January 2006")

	var text, rows strings.Builder
	fmt.Fprintf(&text, "Birthdays today (%s):\n\n", date)
	for _, l := range lines {
		phone := l.Phone
		if phone == "" {
			phone = "no phone on file"
		}
		fmt.Fprintf(&text, "- %s turns %d (%s)\n", l.Name, l.Age, phone)
		fmt.Fprintf(&rows, `<tr><td style="padding: 6px;">%s</td><td style="padding: 6px;">%d</td><td style="padding: 6px;">%s</td></tr>`+"\n",
			html.EscapeString(l.Name), l.Age, html.EscapeString(l.Phone))
	}

	htmlBody := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2>Birthdays today (%s)</h2>
<table style="border-collapse: collapse;">
<tr><th align="left">Patient</th><th align="left">Age</th><th align="left">Phone</th></tr>
%s</table>
</div>`, html.EscapeString(date), rows.String())

	return EmailMessage{
		Subject: fmt.Sprintf("%d patient birthday(s) today", len(lines)),
		Body:    text.String(),
		HTML:    htmlBody,
	}
}

func optionalParagraph(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return "<p>" + html.EscapeString(s) + "</p>"
}
