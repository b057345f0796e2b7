package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/clinicdesk/internal/notify"
	"github.com/wolfman30/clinicdesk/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Worker delivers due email reminders.
type Worker struct {
	store      Store
	sender     notify.EmailSender
	recipients RecipientLookup
	metrics    *metrics.ClinicMetrics
	loc        *time.Location
	interval   time.Duration
	logger     *logging.Logger
}

// NewWorker creates a reminder delivery worker. loc is used to format due
// times in the email body.
func NewWorker(store Store, sender notify.EmailSender, recipients RecipientLookup, m *metrics.ClinicMetrics, loc *time.Location, interval time.Duration, logger *logging.Logger) *Worker {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Worker{
		store:      store,
		sender:     sender,
		recipients: recipients,
		metrics:    m,
		loc:        loc,
		interval:   interval,
		logger:     logger,
	}
}

// Run processes due reminders every interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker: stopping")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	start := time.Now()
	if _, err := w.ProcessDue(ctx, start.UTC()); err != nil {
		w.logger.Error("reminder worker: batch failed", "error", err)
	}
	w.metrics.ObserveWorkerBatch(time.Since(start).Seconds())
}

// ProcessDue emails every unsent email reminder whose surface time is at or
// before now and marks it sent. In-app reminders are left for their target.
// Returns the number of reminders delivered.
func (w *Worker) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := w.store.ListDue(ctx, ChannelEmail, now)
	if err != nil {
		return 0, fmt.Errorf("reminder worker: list due: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	w.logger.Info("reminder worker: processing due reminders", "count", len(due))

	processed := 0
	for i := range due {
		r := &due[i]
		if err := w.processOne(ctx, r, now); err != nil {
			w.metrics.ObserveDeliveryFailure()
			w.logger.Error("reminder worker: failed to deliver reminder",
				"id", r.ID, "target_user", r.TargetUser, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

func (w *Worker) processOne(ctx context.Context, r *Reminder, now time.Time) error {
	to, err := w.recipients.Recipient(ctx, r.TargetUser)
	if err != nil {
		return fmt.Errorf("lookup recipient: %w", err)
	}
	if to.Email == "" {
		return fmt.Errorf("recipient %s has no email address", r.TargetUser)
	}

	msg := notify.ReminderEmail(to.Email, to.Name, notify.ReminderNotice{
		Title:       r.Title,
		Description: r.Description,
		DueAt:       r.DueAt,
	}, w.loc)
	if err := w.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if _, err := w.store.MarkSent(ctx, r.ID, now); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}

	w.metrics.ObserveReminderSent(string(ChannelEmail), "worker")
	w.logger.Info("reminder worker: reminder sent", "id", r.ID, "target_user", r.TargetUser)
	return nil
}
