package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/company"
	pgdb "github.com/ogurasousui/manpower-clean-arch/internal/platform/db/postgres"
)

// CompanyRepository は PostgreSQL を利用した会社永続化の実装です。
type CompanyRepository struct {
	pool pgdb.Queryer
}

// NewCompanyRepository は CompanyRepository を生成します。
func NewCompanyRepository(pool pgdb.Queryer) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Create は会社を新規作成します。会社名の重複は一意制約で検査されます。
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO companies (name, created_at, updated_at)
        VALUES ($1, $2, $3)
        RETURNING id, name, admin_id, created_at, updated_at
    `, c.Name, c.CreatedAt, c.UpdatedAt)

	created, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return created, nil
}

// FindByID は ID で会社を取得します。
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, admin_id, created_at, updated_at
          FROM companies
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// FindByName は会社名で会社を取得します。
func (r *CompanyRepository) FindByName(ctx context.Context, name string) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, admin_id, created_at, updated_at
          FROM companies
         WHERE name = $1
         LIMIT 1
    `, name)

	found, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// SetAdmin は会社の代表管理者を設定します。
func (r *CompanyRepository) SetAdmin(ctx context.Context, id, adminID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE companies SET admin_id = $1, updated_at = now() WHERE id = $2
    `, adminID, id)
	if err != nil {
		return translateCompanyPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var (
		id        string
		name      string
		adminID   sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &adminID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}

	return &company.Company{
		ID:        id,
		Name:      name,
		AdminID:   nullStringToPtr(adminID),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func translateCompanyPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return company.ErrCompanyNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return company.ErrNameAlreadyExists
	}

	return err
}
