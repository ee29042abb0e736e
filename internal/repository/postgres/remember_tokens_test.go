package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

func TestRememberTokenRepository_CreateAndGetByHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRememberTokenRepository(mock)

	createdAt := time.Now().UTC()
	token := domain.RememberToken{
		ID:        "token-1",
		UserID:    "user-1",
		TokenHash: "deadbeef",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(30 * 24 * time.Hour),
	}

	mock.ExpectExec(`INSERT INTO remember_tokens`).
		WithArgs(token.ID, token.UserID, token.TokenHash, token.CreatedAt, token.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	rows := pgxmock.NewRows([]string{"id", "user_id", "token_hash", "created_at", "expires_at"}).
		AddRow(token.ID, token.UserID, token.TokenHash, token.CreatedAt, token.ExpiresAt)

	mock.ExpectQuery(`SELECT .*FROM remember_tokens`).
		WithArgs(token.TokenHash).
		WillReturnRows(rows)

	got, err := repo.GetByHash(context.Background(), token.TokenHash)
	if err != nil {
		t.Fatalf("GetByHash returned error: %v", err)
	}
	if got.UserID != token.UserID || got.ExpiresAt != token.ExpiresAt {
		t.Fatalf("unexpected token %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRememberTokenRepository_GetByHashNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRememberTokenRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM remember_tokens`).
		WithArgs("unknown").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "token_hash", "created_at", "expires_at"}))

	_, err = repo.GetByHash(context.Background(), "unknown")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRememberTokenRepository_DeleteByHashIsSilentOnMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRememberTokenRepository(mock)

	mock.ExpectExec(`DELETE FROM remember_tokens`).
		WithArgs("unknown").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteByHash(context.Background(), "unknown"); err != nil {
		t.Fatalf("DeleteByHash returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRememberTokenRepository_DeleteExpiredReportsCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRememberTokenRepository(mock)

	reference := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM remember_tokens`).
		WithArgs(reference).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	removed, err := repo.DeleteExpired(context.Background(), reference)
	if err != nil {
		t.Fatalf("DeleteExpired returned error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
