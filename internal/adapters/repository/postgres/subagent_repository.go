package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/subagent"
	pgdb "github.com/ogurasousui/manpower-clean-arch/internal/platform/db/postgres"
)

// SubAgentRepository は PostgreSQL を利用したサブエージェント永続化の実装です。
type SubAgentRepository struct {
	pool pgdb.Queryer
}

// NewSubAgentRepository は SubAgentRepository を生成します。
func NewSubAgentRepository(pool pgdb.Queryer) *SubAgentRepository {
	return &SubAgentRepository{pool: pool}
}

// Create はサブエージェントを新規作成します。
func (r *SubAgentRepository) Create(ctx context.Context, a *subagent.SubAgent) (*subagent.SubAgent, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO sub_agents (company_id, name, country, contact, status, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, company_id, name, country, contact, status, total_workers_brought, created_by, created_at, updated_at
    `,
		a.CompanyID,
		a.Name,
		a.Country,
		a.Contact,
		string(a.Status),
		a.CreatedBy,
		a.CreatedAt,
		a.UpdatedAt,
	)

	created, err := scanSubAgent(row)
	if err != nil {
		return nil, translateSubAgentPgError(err)
	}
	return created, nil
}

// List はテナント内のサブエージェント一覧を登録の新しい順で返します。
// total_workers_brought は担当ワーカー数から集計されます。
func (r *SubAgentRepository) List(ctx context.Context, companyID string) ([]*subagent.SubAgent, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT a.id,
               a.company_id,
               a.name,
               a.country,
               a.contact,
               a.status,
               (SELECT count(*) FROM workers w WHERE w.sub_agent_id = a.id AND w.company_id = a.company_id),
               a.created_by,
               a.created_at,
               a.updated_at
          FROM sub_agents a
         WHERE a.company_id = $1
         ORDER BY a.created_at DESC, a.id DESC
    `, companyID)
	if err != nil {
		return nil, translateSubAgentPgError(err)
	}
	defer rows.Close()

	agents := make([]*subagent.SubAgent, 0)
	for rows.Next() {
		a, err := scanSubAgent(rows)
		if err != nil {
			return nil, translateSubAgentPgError(err)
		}
		agents = append(agents, a)
	}

	if err := rows.Err(); err != nil {
		return nil, translateSubAgentPgError(err)
	}

	return agents, nil
}

func scanSubAgent(row pgx.Row) (*subagent.SubAgent, error) {
	var (
		id        string
		companyID string
		name      string
		country   string
		contact   string
		status    string
		total     int
		createdBy string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &companyID, &name, &country, &contact, &status, &total, &createdBy, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subagent.ErrSubAgentNotFound
		}
		return nil, err
	}

	return &subagent.SubAgent{
		ID:                  id,
		CompanyID:           companyID,
		Name:                name,
		Country:             country,
		Contact:             contact,
		Status:              subagent.Status(status),
		TotalWorkersBrought: total,
		CreatedBy:           createdBy,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}, nil
}

func translateSubAgentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return subagent.ErrSubAgentNotFound
	}
	return err
}
