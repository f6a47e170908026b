package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhost-storefront/internal/domain"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "phone", "two_factor_enabled", "created_at", "updated_at"}

func TestCreate_LowercasesEmailAndDefaultsRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ann", "ann@example.com", "hash", "customer", "").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-1", "Ann", "ann@example.com", "hash", "customer", "", false, now, now))

	repo := NewPostgres(mock, nil)
	u, err := repo.Create(context.Background(), domain.User{Name: "Ann", Email: "Ann@Example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ann", "ann@example.com", "hash", "customer", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewPostgres(mock, nil)
	_, err = repo.Create(context.Background(), domain.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash"})
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists), "got %v", err)
}

func TestGetByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows(userCols))

	repo := NewPostgres(mock, nil)
	_, err = repo.GetByEmail(context.Background(), " nobody@example.com ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetPasswordHash_MissingUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("u-404", "hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgres(mock, nil)
	assert.ErrorIs(t, repo.SetPasswordHash(context.Background(), "u-404", "hash"), domain.ErrNotFound)
}
