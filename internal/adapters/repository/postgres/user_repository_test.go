package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/identity"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var userRowColumns = []string{
	"id", "company_id", "full_name", "email", "password_hash", "role", "created_at", "updated_at",
}

func TestTranslateUserPgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translateUserPgError(uniqueErr), identity.ErrEmailAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrEmailAlreadyExists")
	}

	if !errors.Is(translateUserPgError(pgx.ErrNoRows), identity.ErrUserNotFound) {
		t.Fatalf("expected no rows to map to ErrUserNotFound")
	}

	other := errors.New("other")
	if translateUserPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("admin@example.com").
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("user-1", "company-1", "Test Admin", "admin@example.com", "hash", "admin", now, now))

	found, err := repo.FindByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}

	if found.ID != "user-1" {
		t.Fatalf("unexpected id: %s", found.ID)
	}
	if found.CompanyID == nil || *found.CompanyID != "company-1" {
		t.Fatalf("expected company reference, got %+v", found.CompanyID)
	}
	if found.Role != identity.RoleAdmin {
		t.Fatalf("unexpected role: %s", found.Role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(anyArgs(7)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	now := time.Now().UTC()
	companyID := "company-1"
	_, err = repo.Create(context.Background(), &identity.User{
		CompanyID:    &companyID,
		FullName:     "Test Admin",
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Role:         identity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, identity.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
