package birthdays

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/clinicdesk/internal/notify"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Digest emails the day's birthday list to the front desk.
type Digest struct {
	service    *Service
	sender     notify.EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewDigest creates a birthday digest mailer.
func NewDigest(service *Service, sender notify.EmailSender, recipients []string, logger *logging.Logger) *Digest {
	if logger == nil {
		logger = logging.Default()
	}
	return &Digest{service: service, sender: sender, recipients: recipients, logger: logger}
}

// Send emails today's birthdays and returns how many patients were listed.
// Nothing is sent when there are no birthdays or no recipients.
func (d *Digest) Send(ctx context.Context, today time.Time) (int, error) {
	if len(d.recipients) == 0 {
		return 0, nil
	}
	list, err := d.service.ListToday(ctx, today)
	if err != nil {
		return 0, err
	}
	if len(list) == 0 {
		d.logger.Debug("birthdays: no birthdays today", "date", today.Format(time.DateOnly))
		return 0, nil
	}

	lines := make([]notify.BirthdayLine, 0, len(list))
	for _, b := range list {
		lines = append(lines, notify.BirthdayLine{Name: b.Name, Age: b.Age, Phone: b.Phone})
	}
	if err := notify.SendToAll(ctx, d.sender, d.recipients, notify.BirthdayDigestEmail(today, lines)); err != nil {
		return len(list), fmt.Errorf("birthdays: send digest: %w", err)
	}
	d.logger.Info("birthdays: digest sent", "count", len(list), "recipients", len(d.recipients))
	return len(list), nil
}

// Run sends the digest once a day at hour o'clock in loc until ctx is
// cancelled.
func (d *Digest) Run(ctx context.Context, loc *time.Location, hour int) {
	if loc == nil {
		loc = time.UTC
	}
	for {
		next := NextDigestAt(time.Now(), loc, hour)
		d.logger.Info("birthdays: next digest scheduled", "at", next.Format(time.RFC3339))
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if _, err := d.Send(ctx, next.In(loc)); err != nil {
			d.logger.Error("birthdays: digest failed", "error", err)
		}
	}
}

// NextDigestAt returns the first hour:00 in loc strictly after now.
func NextDigestAt(now time.Time, loc *time.Location, hour int) time.Time {
	if hour < 0 || hour > 23 {
		hour = 8
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}
