package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wolfman30/clinicdesk/internal/apperr"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const reminderColumns = `id, title, description, due_at, channel, lead_time_seconds, created_by, target_user, sent, sent_at, waitlist_entry_id, created_at, updated_at`

// PostgresStore provides CRUD operations for the reminders table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a reminders store.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a new reminder.
func (s *PostgresStore) Create(ctx context.Context, r *Reminder) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Channel == "" {
		r.Channel = ChannelInApp
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO reminders (id, title, description, due_at, channel, lead_time_seconds, created_by, target_user, sent, sent_at, waitlist_entry_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.ID, r.Title, r.Description, r.DueAt, string(r.Channel), int64(r.LeadTime/time.Second),
		r.CreatedBy, r.TargetUser, r.Sent, r.SentAt, r.WaitlistEntryID, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return apperr.Upstream("reminders: create", err)
	}
	return nil
}

// GetByID fetches one reminder.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	r, err := scanReminder(s.db.QueryRow(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReminderNotFound
	}
	if err != nil {
		return nil, apperr.Upstream("reminders: get", err)
	}
	return r, nil
}

// ListForUser returns reminders created by or targeted at userID.
func (s *PostgresStore) ListForUser(ctx context.Context, userID string) ([]Reminder, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE created_by = $1 OR target_user = $1
		ORDER BY due_at ASC, created_at ASC`, userID)
	if err != nil {
		return nil, apperr.Upstream("reminders: list for user", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// ListDue returns unsent reminders on channel whose surface time has passed.
func (s *PostgresStore) ListDue(ctx context.Context, channel Channel, asOf time.Time) ([]Reminder, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE sent = false AND channel = $1
		  AND due_at - make_interval(secs => lead_time_seconds) <= $2
		ORDER BY due_at ASC`, string(channel), asOf)
	if err != nil {
		return nil, apperr.Upstream("reminders: list due", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// MarkSent flips the sent flag. sent_at is only set the first time.
func (s *PostgresStore) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (*Reminder, error) {
	r, err := scanReminder(s.db.QueryRow(ctx, `
		UPDATE reminders
		SET sent = true, sent_at = COALESCE(sent_at, $1), updated_at = $1
		WHERE id = $2
		RETURNING `+reminderColumns, at.UTC(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReminderNotFound
	}
	if err != nil {
		return nil, apperr.Upstream("reminders: mark sent", err)
	}
	return r, nil
}

// Delete removes a reminder.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return apperr.Upstream("reminders: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func scanReminder(row pgx.Row) (*Reminder, error) {
	var (
		r        Reminder
		channel  string
		leadSecs int64
	)
	err := row.Scan(
		&r.ID, &r.Title, &r.Description, &r.DueAt, &channel, &leadSecs,
		&r.CreatedBy, &r.TargetUser, &r.Sent, &r.SentAt, &r.WaitlistEntryID,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Channel = Channel(channel)
	r.LeadTime = time.Duration(leadSecs) * time.Second
	return &r, nil
}

func scanReminders(rows pgx.Rows) ([]Reminder, error) {
	result := []Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, apperr.Upstream("reminders: scan", err)
		}
		result = append(result, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Upstream("reminders: rows", err)
	}
	return result, nil
}
