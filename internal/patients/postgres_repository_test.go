package patients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/clinicdesk/internal/apperr"
)

var patientRowColumns = []string{"id", "full_name", "birth_date", "phone", "email", "created_at", "updated_at"}

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	p := &Patient{FullName: "Ana Costa", Phone: "+351 912 345 678"}

	mock.ExpectExec("INSERT INTO patients").
		WithArgs(pgxmock.AnyArg(), "Ana Costa", (*time.Time)(nil), "+351 912 345 678", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	id := uuid.New()
	now := time.Now().UTC()
	birth := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM patients WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(patientRowColumns).AddRow(id, "Ana", &birth, "", "", now, now))

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.FullName)
	require.NotNil(t, p.BirthDate)
	assert.True(t, p.BirthDate.Equal(birth))

	mock.ExpectQuery("SELECT (.+) FROM patients WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrPatientNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryUpstreamFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("FROM patients").
		WillReturnError(errors.New("connection refused"))

	_, err = repo.FindWithBirthDate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryFindWithBirthDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()
	birth := time.Date(1985, 7, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WHERE birth_date IS NOT NULL").
		WillReturnRows(pgxmock.NewRows(patientRowColumns).
			AddRow(uuid.New(), "Bruno", &birth, "+351 912 000 111", "", now, now))

	list, err := repo.FindWithBirthDate(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bruno", list[0].FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryUpdateAndDeleteMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE patients").
		WithArgs("Ana", (*time.Time)(nil), "", "", pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.Update(context.Background(), &Patient{ID: id, FullName: "Ana"}), ErrPatientNotFound)

	mock.ExpectExec("DELETE FROM patients").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	assert.NoError(t, repo.Delete(context.Background(), id))

	require.NoError(t, mock.ExpectationsWereMet())
}
