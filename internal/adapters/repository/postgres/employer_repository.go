package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/employer"
	pgdb "github.com/ogurasousui/manpower-clean-arch/internal/platform/db/postgres"
)

// EmployerRepository は PostgreSQL を利用した雇用主永続化の実装です。
type EmployerRepository struct {
	pool pgdb.Queryer
}

// NewEmployerRepository は EmployerRepository を生成します。
func NewEmployerRepository(pool pgdb.Queryer) *EmployerRepository {
	return &EmployerRepository{pool: pool}
}

// Create は雇用主を新規作成します。
func (r *EmployerRepository) Create(ctx context.Context, e *employer.Employer) (*employer.Employer, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employers (company_id, employer_name, country, contact, address, notes, status, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, company_id, employer_name, country, contact, address, notes, status, created_by, created_at, updated_at
    `,
		e.CompanyID,
		e.EmployerName,
		e.Country,
		e.Contact,
		e.Address,
		nullableText(e.Notes),
		string(e.Status),
		e.CreatedBy,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployer(row)
	if err != nil {
		return nil, translateEmployerPgError(err)
	}
	return created, nil
}

// FindByID はテナント内で雇用主を 1 件取得します。
func (r *EmployerRepository) FindByID(ctx context.Context, companyID, id string) (*employer.Employer, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, company_id, employer_name, country, contact, address, notes, status, created_by, created_at, updated_at
          FROM employers
         WHERE company_id = $1 AND id = $2
         LIMIT 1
    `, companyID, id)

	found, err := scanEmployer(row)
	if err != nil {
		return nil, translateEmployerPgError(err)
	}
	return found, nil
}

// List はテナント内の雇用主一覧を登録の新しい順で返します。
func (r *EmployerRepository) List(ctx context.Context, companyID string) ([]*employer.Employer, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, company_id, employer_name, country, contact, address, notes, status, created_by, created_at, updated_at
          FROM employers
         WHERE company_id = $1
         ORDER BY created_at DESC, id DESC
    `, companyID)
	if err != nil {
		return nil, translateEmployerPgError(err)
	}
	defer rows.Close()

	employers := make([]*employer.Employer, 0)
	for rows.Next() {
		e, err := scanEmployer(rows)
		if err != nil {
			return nil, translateEmployerPgError(err)
		}
		employers = append(employers, e)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployerPgError(err)
	}

	return employers, nil
}

// Update は雇用主情報を更新します。
func (r *EmployerRepository) Update(ctx context.Context, companyID string, e *employer.Employer) (*employer.Employer, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employers
           SET employer_name = $1,
               country = $2,
               contact = $3,
               address = $4,
               notes = $5,
               status = $6,
               updated_at = $7
         WHERE id = $8 AND company_id = $9
        RETURNING id, company_id, employer_name, country, contact, address, notes, status, created_by, created_at, updated_at
    `,
		e.EmployerName,
		e.Country,
		e.Contact,
		e.Address,
		nullableText(e.Notes),
		string(e.Status),
		e.UpdatedAt,
		e.ID,
		companyID,
	)

	updated, err := scanEmployer(row)
	if err != nil {
		return nil, translateEmployerPgError(err)
	}
	return updated, nil
}

// Delete はテナント内の雇用主を削除します。
func (r *EmployerRepository) Delete(ctx context.Context, companyID, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employers WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return translateEmployerPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employer.ErrEmployerNotFound
	}
	return nil
}

func scanEmployer(row pgx.Row) (*employer.Employer, error) {
	var (
		id           string
		companyID    string
		employerName string
		country      string
		contact      string
		address      string
		notes        sql.NullString
		status       string
		createdBy    string
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(&id, &companyID, &employerName, &country, &contact, &address, &notes, &status, &createdBy, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employer.ErrEmployerNotFound
		}
		return nil, err
	}

	return &employer.Employer{
		ID:           id,
		CompanyID:    companyID,
		EmployerName: employerName,
		Country:      country,
		Contact:      contact,
		Address:      address,
		Notes:        nullStringToPtr(notes),
		Status:       employer.Status(status),
		CreatedBy:    createdBy,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func translateEmployerPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employer.ErrEmployerNotFound
	}
	return err
}
