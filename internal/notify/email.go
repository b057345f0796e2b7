package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/clinicdesk/pkg/logging"
)

const defaultFromName = "Clinic Desk"

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (SendGrid, SES, stub) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // Plain text body
	HTML    string // Optional HTML body
}

// SendToAll sends msg to every recipient and joins the failures.
func SendToAll(ctx context.Context, sender EmailSender, recipients []string, msg EmailMessage) error {
	if sender == nil {
		return errors.New("notify: email sender not configured")
	}
	var errs []error
	for _, to := range recipients {
		m := msg
		m.To = to
		if err := sender.Send(ctx, m); err != nil {
			errs = append(errs, fmt.Errorf("notify: send to %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

// StubEmailSender logs instead of sending. Used in development and when no
// provider is configured.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}

var _ EmailSender = (*StubEmailSender)(nil)
