package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/jobdemand"
	pgdb "github.com/ogurasousui/manpower-clean-arch/internal/platform/db/postgres"
)

// JobDemandRepository は PostgreSQL を利用した求人案件永続化の実装です。
type JobDemandRepository struct {
	pool pgdb.Queryer
}

// NewJobDemandRepository は JobDemandRepository を生成します。
func NewJobDemandRepository(pool pgdb.Queryer) *JobDemandRepository {
	return &JobDemandRepository{pool: pool}
}

// Create は求人案件を新規作成します。
func (r *JobDemandRepository) Create(ctx context.Context, d *jobdemand.JobDemand) (*jobdemand.JobDemand, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO job_demands (company_id, title, country, employer_id, quantity, status, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, company_id, title, country, employer_id, quantity, status, created_by, created_at, updated_at
    `,
		d.CompanyID,
		d.Title,
		d.Country,
		nullableText(d.EmployerID),
		d.Quantity,
		string(d.Status),
		d.CreatedBy,
		d.CreatedAt,
		d.UpdatedAt,
	)

	created, err := scanJobDemand(row)
	if err != nil {
		return nil, translateJobDemandPgError(err)
	}
	return created, nil
}

// List はテナント内の求人案件一覧を登録の新しい順で返します。
func (r *JobDemandRepository) List(ctx context.Context, companyID string) ([]*jobdemand.JobDemand, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, company_id, title, country, employer_id, quantity, status, created_by, created_at, updated_at
          FROM job_demands
         WHERE company_id = $1
         ORDER BY created_at DESC, id DESC
    `, companyID)
	if err != nil {
		return nil, translateJobDemandPgError(err)
	}
	defer rows.Close()

	demands := make([]*jobdemand.JobDemand, 0)
	for rows.Next() {
		d, err := scanJobDemand(rows)
		if err != nil {
			return nil, translateJobDemandPgError(err)
		}
		demands = append(demands, d)
	}

	if err := rows.Err(); err != nil {
		return nil, translateJobDemandPgError(err)
	}

	return demands, nil
}

func scanJobDemand(row pgx.Row) (*jobdemand.JobDemand, error) {
	var (
		id         string
		companyID  string
		title      string
		country    string
		employerID sql.NullString
		quantity   int
		status     string
		createdBy  string
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&id, &companyID, &title, &country, &employerID, &quantity, &status, &createdBy, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobdemand.ErrJobDemandNotFound
		}
		return nil, err
	}

	return &jobdemand.JobDemand{
		ID:         id,
		CompanyID:  companyID,
		Title:      title,
		Country:    country,
		EmployerID: nullStringToPtr(employerID),
		Quantity:   quantity,
		Status:     jobdemand.Status(status),
		CreatedBy:  createdBy,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

func translateJobDemandPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return jobdemand.ErrJobDemandNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return jobdemand.ErrInvalidReference
	}

	return err
}
