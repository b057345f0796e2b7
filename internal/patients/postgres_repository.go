package patients

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

const patientColumns = `id, full_name, birth_date, phone, email, created_at, updated_at`

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by a pgx pool or connection.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("patients: pgx db required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO patients (id, full_name, birth_date, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.FullName, p.BirthDate, p.Phone, p.Email, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperr.Upstream("patients: insert", err)
	}
	return nil
}

// GetByID fetches a single patient.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	var p Patient
	if err := row.Scan(&p.ID, &p.FullName, &p.BirthDate, &p.Phone, &p.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, apperr.Upstream("patients: select", err)
	}
	return &p, nil
}

// List returns patients ordered by name, optionally filtered by a name fragment.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Patient, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE $1 = '' OR full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name ASC, id ASC
		LIMIT $2 OFFSET $3`, filter.Search, limit, filter.Offset)
	if err != nil {
		return nil, apperr.Upstream("patients: list", err)
	}
	defer rows.Close()
	return scanPatients(rows)
}

// Update overwrites the mutable columns.
func (r *PostgresRepository) Update(ctx context.Context, p *Patient) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE patients SET full_name = $1, birth_date = $2, phone = $3, email = $4, updated_at = $5
		WHERE id = $6`,
		p.FullName, p.BirthDate, p.Phone, p.Email, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return apperr.Upstream("patients: update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// Delete removes a patient. Waiting list entries cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return apperr.Upstream("patients: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// FindWithBirthDate returns patients with a birth date on file.
func (r *PostgresRepository) FindWithBirthDate(ctx context.Context) ([]Patient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE birth_date IS NOT NULL
		ORDER BY full_name ASC`)
	if err != nil {
		return nil, apperr.Upstream("patients: find with birth date", err)
	}
	defer rows.Close()
	return scanPatients(rows)
}

func scanPatients(rows pgx.Rows) ([]Patient, error) {
	result := []Patient{}
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.FullName, &p.BirthDate, &p.Phone, &p.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Upstream("patients: scan", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Upstream("patients: rows", err)
	}
	return result, nil
}
