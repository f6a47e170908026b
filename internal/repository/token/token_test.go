package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"webhost-storefront/internal/domain"
)

func TestReplace_Upserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	exp := time.Now().Add(15 * time.Minute)
	mock.ExpectExec("INSERT INTO user_tokens").
		WithArgs("hash", "user-1", KindPasswordReset, exp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgres(mock)
	if err := repo.Replace(context.Background(), Token{Hash: "hash", UserID: "user-1", Kind: KindPasswordReset, ExpiresAt: exp}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetForUser_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("FROM user_tokens").
		WithArgs("user-1", KindPasswordReset).
		WillReturnRows(pgxmock.NewRows([]string{"token_hash", "user_id", "kind", "expires_at", "created_at"}))

	repo := NewPostgres(mock)
	_, err = repo.GetForUser(context.Background(), "user-1", KindPasswordReset)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteForUser_MissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("DELETE FROM user_tokens").
		WithArgs("user-1", KindPasswordReset).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgres(mock)
	if err := repo.DeleteForUser(context.Background(), "user-1", KindPasswordReset); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
