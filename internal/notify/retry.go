package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/clinicdesk/pkg/logging"
)

const maxRetryDelay = time.Minute

// RetrySender retries a failed send with exponential backoff until max
// attempts are used up or the context ends.
type RetrySender struct {
	next        EmailSender
	logger      *logging.Logger
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewRetrySender wraps next with three attempts and a one second base delay.
func NewRetrySender(next EmailSender, logger *logging.Logger) *RetrySender {
	if logger == nil {
		logger = logging.Default()
	}
	return &RetrySender{
		next:        next,
		logger:      logger,
		maxAttempts: 3,
		baseDelay:   time.Second,
		sleep:       sleepContext,
	}
}

func (r *RetrySender) WithMaxAttempts(n int) *RetrySender {
	if n > 0 {
		r.maxAttempts = n
	}
	return r
}

func (r *RetrySender) WithBaseDelay(d time.Duration) *RetrySender {
	if d > 0 {
		r.baseDelay = d
	}
	return r
}

// Send implements EmailSender.
func (r *RetrySender) Send(ctx context.Context, msg EmailMessage) error {
	var err error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := r.nextDelay(attempt - 1)
			r.logger.Warn("email send failed, retrying", "to", msg.To, "attempt", attempt, "delay", delay.String(), "error", err)
			if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
				return fmt.Errorf("email to %s: %w", msg.To, sleepErr)
			}
		}
		if err = r.next.Send(ctx, msg); err == nil {
			return nil
		}
	}
	return fmt.Errorf("email to %s failed after %d attempts: %w", msg.To, r.maxAttempts, err)
}

func (r *RetrySender) nextDelay(attempts int) time.Duration {
	delay := r.baseDelay * time.Duration(1<<attempts)
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
