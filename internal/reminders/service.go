package reminders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk/internal/waitlist"
	"github.com/wolfman30/clinicdesk/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var reminderTracer = otel.Tracer("clinicdesk.internal.reminders")

const maxTitleLength = 200

// EntryFinder fetches waiting list entries.
type EntryFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error)
}

// Recipient is the contact details of a staff member.
type Recipient struct {
	UserID string
	Name   string
	Email  string
}

// RecipientLookup resolves user ids to staff members.
type RecipientLookup interface {
	Recipient(ctx context.Context, userID string) (*Recipient, error)
}

// CreateInput is the payload for a direct reminder.
type CreateInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DueAt           *time.Time `json:"due_at"`
	Channel         Channel    `json:"channel"`
	LeadTimeMinutes int        `json:"lead_time_minutes"`
	TargetUser      string     `json:"target_user"`
}

// Service coordinates reminder scheduling, access checks and storage.
type Service struct {
	store      Store
	entries    EntryFinder
	recipients RecipientLookup
	metrics    *metrics.ClinicMetrics
	logger     *logging.Logger
	now        func() time.Time
}

// NewService wires the reminder service. recipients may be nil, in which case
// target users are not checked on create.
func NewService(store Store, entries EntryFinder, recipients RecipientLookup, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:      store,
		entries:    entries,
		recipients: recipients,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateFromWaitingListEntry schedules a self-reminder for actor about the
// given entry. Calling it twice creates two reminders.
func (s *Service) CreateFromWaitingListEntry(ctx context.Context, entryID uuid.UUID, actor string) (*Reminder, error) {
	ctx, span := reminderTracer.Start(ctx, "reminders.create_from_waitlist",
		trace.WithAttributes(attribute.String("waitlist.entry_id", entryID.String())))
	defer span.End()

	if actor == "" {
		return nil, apperr.ErrUnauthenticated
	}

	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			err = apperr.Upstream("reminders: lookup entry", err)
			recordSpanError(span, err)
		}
		return nil, err
	}

	r := FromWaitingListEntry(*entry, actor, s.now())
	if err := s.store.Create(ctx, &r); err != nil {
		err = apperr.Upstream("reminders: create", err)
		recordSpanError(span, err)
		s.logger.Error("reminders: persist waitlist reminder failed", "error", err, "entry_id", entryID)
		return nil, err
	}

	span.SetAttributes(attribute.String("reminder.id", r.ID.String()))
	s.metrics.ObserveReminderCreated("waitlist")
	s.logger.Info("reminders: created from waitlist entry", "reminder_id", r.ID, "entry_id", entryID, "user_id", actor)
	return &r, nil
}

// Create stores a reminder built from direct user input.
func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (*Reminder, error) {
	ctx, span := reminderTracer.Start(ctx, "reminders.create")
	defer span.End()

	if actor == "" {
		return nil, apperr.ErrUnauthenticated
	}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return nil, apperr.Invalid("title is required")
	case len([]rune(title)) > maxTitleLength:
		return nil, apperr.Invalid("title must be at most %d characters", maxTitleLength)
	case in.DueAt == nil || in.DueAt.IsZero():
		return nil, apperr.Invalid("due_at is required")
	case in.LeadTimeMinutes < 0:
		return nil, apperr.Invalid("lead_time_minutes must not be negative")
	}

	channel := in.Channel
	if channel == "" {
		channel = ChannelInApp
	}
	if !channel.Valid() {
		return nil, apperr.Invalid("channel must be in_app or email")
	}

	target := strings.TrimSpace(in.TargetUser)
	if target == "" {
		target = actor
	}
	if target != actor && s.recipients != nil {
		if _, err := s.recipients.Recipient(ctx, target); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.Invalid("target_user does not exist")
			}
			err = apperr.Upstream("reminders: lookup target", err)
			recordSpanError(span, err)
			return nil, err
		}
	}

	r := Reminder{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		DueAt:       in.DueAt.UTC(),
		Channel:     channel,
		LeadTime:    time.Duration(in.LeadTimeMinutes) * time.Minute,
		CreatedBy:   actor,
		TargetUser:  target,
	}
	if err := s.store.Create(ctx, &r); err != nil {
		err = apperr.Upstream("reminders: create", err)
		recordSpanError(span, err)
		s.logger.Error("reminders: persist reminder failed", "error", err, "user_id", actor)
		return nil, err
	}

	span.SetAttributes(attribute.String("reminder.id", r.ID.String()), attribute.String("reminder.channel", string(channel)))
	s.metrics.ObserveReminderCreated("direct")
	s.logger.Info("reminders: created", "reminder_id", r.ID, "user_id", actor, "target_user", target, "channel", channel)
	return &r, nil
}

// ListForUser returns reminders actor created or is the target of. With
// dueOnly set, only unsent reminders whose surface time has passed are kept.
func (s *Service) ListForUser(ctx context.Context, actor string, dueOnly bool) ([]Reminder, error) {
	ctx, span := reminderTracer.Start(ctx, "reminders.list")
	defer span.End()

	if actor == "" {
		return nil, apperr.ErrUnauthenticated
	}
	list, err := s.store.ListForUser(ctx, actor)
	if err != nil {
		err = apperr.Upstream("reminders: list", err)
		recordSpanError(span, err)
		return nil, err
	}
	if !dueOnly {
		return list, nil
	}

	now := s.now()
	due := make([]Reminder, 0, len(list))
	for i := range list {
		if list[i].IsDue(now) {
			due = append(due, list[i])
		}
	}
	return due, nil
}

// MarkSent marks a reminder as sent on behalf of actor. A reminder that is
// already sent is returned as is.
func (s *Service) MarkSent(ctx context.Context, id uuid.UUID, actor string) (*Reminder, error) {
	ctx, span := reminderTracer.Start(ctx, "reminders.mark_sent",
		trace.WithAttributes(attribute.String("reminder.id", id.String())))
	defer span.End()

	r, err := s.authorize(ctx, span, id, actor, "mark_sent")
	if err != nil {
		return nil, err
	}
	if r.Sent {
		return r, nil
	}

	updated, err := s.store.MarkSent(ctx, id, s.now())
	if err != nil {
		err = apperr.Upstream("reminders: mark sent", err)
		recordSpanError(span, err)
		return nil, err
	}
	s.metrics.ObserveReminderSent(string(updated.Channel), "user")
	s.logger.Info("reminders: marked sent", "reminder_id", id, "user_id", actor)
	return updated, nil
}

// Delete removes a reminder on behalf of actor.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	ctx, span := reminderTracer.Start(ctx, "reminders.delete",
		trace.WithAttributes(attribute.String("reminder.id", id.String())))
	defer span.End()

	if _, err := s.authorize(ctx, span, id, actor, "delete"); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		err = apperr.Upstream("reminders: delete", err)
		recordSpanError(span, err)
		return err
	}
	s.logger.Info("reminders: deleted", "reminder_id", id, "user_id", actor)
	return nil
}

// authorize loads the reminder and applies CanMutate. A missing reminder is
// reported before a permission failure.
func (s *Service) authorize(ctx context.Context, span trace.Span, id uuid.UUID, actor, op string) (*Reminder, error) {
	if actor == "" {
		return nil, apperr.ErrUnauthenticated
	}
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		err = apperr.Upstream("reminders: get", err)
		if !errors.Is(err, apperr.ErrNotFound) {
			recordSpanError(span, err)
		}
		return nil, err
	}
	if !CanMutate(r, actor) {
		s.metrics.ObserveAccessDenied(op)
		s.logger.Warn("reminders: access denied", "reminder_id", id, "user_id", actor, "operation", op)
		return nil, ErrNotAllowed
	}
	return r, nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
