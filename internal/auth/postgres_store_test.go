package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserStoreCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresUserStore(mock)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "ana@clinic.pt", "Ana", "hash", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	u := &User{Email: "ana@clinic.pt", Name: "Ana", PasswordHash: "hash"}
	require.NoError(t, store.Create(context.Background(), u))
	assert.NotEmpty(t, u.ID)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "ana@clinic.pt", "Ana", "hash", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err = store.Create(context.Background(), &User{Email: "ana@clinic.pt", Name: "Ana", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresUserStore(mock)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("ana@clinic.pt").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at"}).
			AddRow("u-1", "ana@clinic.pt", "Ana", "hash", created))
	u, err := store.GetByEmail(context.Background(), "ana@clinic.pt")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
