package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/clinicdesk/internal/apperr"
)

var entryColumns = []string{"id", "patient_id", "full_name", "preferred_start", "notes", "appointment_type",
	"priority", "preferred_days", "created_by", "created_at"}

func TestPostgresRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	entry := &Entry{PatientID: uuid.New(), Priority: PriorityHigh, PreferredDays: []string{"monday"}, CreatedBy: "u1"}

	mock.ExpectExec("INSERT INTO waiting_list_entries").
		WithArgs(sqlmock.AnyArg(), entry.PatientID, nil, "", "", int64(PriorityHigh), "{\"monday\"}", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreateMissingPatient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO waiting_list_entries").
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	err = NewPostgresRepository(db).Create(context.Background(), &Entry{PatientID: uuid.New(), Priority: PriorityLow})
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPostgresRepositoryGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	id := uuid.New()
	patientID := uuid.New()
	start := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	created := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM waiting_list_entries").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(id.String(), patientID.String(), "Ana Costa", start, "", "Consult", 3, "{monday,friday}", "u1", created))

	e, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Costa", e.PatientName)
	assert.Equal(t, patientID, e.PatientID)
	assert.Equal(t, PriorityHigh, e.Priority)
	assert.Equal(t, []string{"monday", "friday"}, e.PreferredDays)
	require.NotNil(t, e.PreferredStart)
	assert.True(t, e.PreferredStart.Equal(start))

	mock.ExpectQuery("FROM waiting_list_entries").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("ORDER BY w.priority DESC, w.created_at ASC").
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(uuid.NewString(), uuid.NewString(), "Urgent", nil, "call asap", "", 4, "{}", "u1", created).
			AddRow(uuid.NewString(), uuid.NewString(), "Low", nil, "", "", 1, nil, "u2", created))

	list, err := NewPostgresRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, PriorityUrgent, list[0].Priority)
	assert.Nil(t, list[0].PreferredStart)
	assert.Equal(t, []string{}, list[1].PreferredDays)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM waiting_list_entries").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrEntryNotFound)

	mock.ExpectExec("DELETE FROM waiting_list_entries").WithArgs(id).WillReturnError(errors.New("conn reset"))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), apperr.ErrUpstream)

	require.NoError(t, mock.ExpectationsWereMet())
}
