package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/wolfman30/clinicdesk/internal/apperr"
)

// foreign_key_violation
const pqForeignKeyViolation = "23503"

// PostgresRepository stores entries in waiting_list_entries.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository wraps an open database handle.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectEntries = `
	SELECT w.id, w.patient_id, p.full_name, w.preferred_start, w.notes, w.appointment_type,
	       w.priority, w.preferred_days, w.created_by, w.created_at
	FROM waiting_list_entries w
	JOIN patients p ON p.id = w.patient_id`

func (r *PostgresRepository) Create(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO waiting_list_entries (id, patient_id, preferred_start, notes, appointment_type,
		    priority, preferred_days, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.PatientID, e.PreferredStart, e.Notes, e.AppointmentType,
		int(e.Priority), pq.Array(e.PreferredDays), e.CreatedBy, e.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return ErrPatientNotFound
		}
		return apperr.Upstream("waitlist: insert", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, selectEntries+` WHERE w.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, apperr.Upstream("waitlist: select", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, selectEntries+` ORDER BY w.priority DESC, w.created_at ASC`)
	if err != nil {
		return nil, apperr.Upstream("waitlist: list", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperr.Upstream("waitlist: scan", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Upstream("waitlist: rows", err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM waiting_list_entries WHERE id = $1`, id)
	if err != nil {
		return apperr.Upstream("waitlist: delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Upstream("waitlist: delete", err)
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		e        Entry
		start    sql.NullTime
		priority int
	)
	if err := row.Scan(&e.ID, &e.PatientID, &e.PatientName, &start, &e.Notes, &e.AppointmentType,
		&priority, pq.Array(&e.PreferredDays), &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	if start.Valid {
		t := start.Time
		e.PreferredStart = &t
	}
	e.Priority = Priority(priority)
	if e.PreferredDays == nil {
		e.PreferredDays = []string{}
	}
	return &e, nil
}
