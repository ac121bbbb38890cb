package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/identity"
	pgdb "github.com/ogurasousui/manpower-clean-arch/internal/platform/db/postgres"
)

// UserRepository は PostgreSQL を利用したユーザー永続化の実装です。
type UserRepository struct {
	pool pgdb.Queryer
}

// NewUserRepository は UserRepository を生成します。
func NewUserRepository(pool pgdb.Queryer) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create はユーザーを新規作成します。メールアドレスの重複は一意制約で検査されます。
func (r *UserRepository) Create(ctx context.Context, u *identity.User) (*identity.User, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO users (company_id, full_name, email, password_hash, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, company_id, full_name, email, password_hash, role, created_at, updated_at
    `,
		nullableText(u.CompanyID),
		u.FullName,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.CreatedAt,
		u.UpdatedAt,
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return created, nil
}

// FindByID は ID でユーザーを取得します。
func (r *UserRepository) FindByID(ctx context.Context, id string) (*identity.User, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, company_id, full_name, email, password_hash, role, created_at, updated_at
          FROM users
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, company_id, full_name, email, password_hash, role, created_at, updated_at
          FROM users
         WHERE email = $1
         LIMIT 1
    `, email)

	found, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return found, nil
}

func scanUser(row pgx.Row) (*identity.User, error) {
	var (
		id           string
		companyID    sql.NullString
		fullName     string
		email        string
		passwordHash string
		role         string
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(&id, &companyID, &fullName, &email, &passwordHash, &role, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}

	return &identity.User{
		ID:           id,
		CompanyID:    nullStringToPtr(companyID),
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         identity.Role(role),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func translateUserPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return identity.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return identity.ErrEmailAlreadyExists
	}

	return err
}
