package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/worker"
	pgdb "github.com/ogurasousui/manpower-clean-arch/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// workerColumns は workers テーブルと参照先要約の取得列です。
// 各参照は同一テナント内でのみ解決されます。
const workerColumns = `
               w.id,
               w.company_id,
               w.passport_number,
               w.name,
               w.dob,
               w.contact,
               w.address,
               w.country,
               w.status,
               w.current_stage,
               w.stage_timeline,
               w.documents,
               w.employer_id,
               w.job_demand_id,
               w.sub_agent_id,
               w.notes,
               w.created_by,
               w.assigned_to,
               w.created_at,
               w.updated_at,
               e.id,
               e.employer_name,
               e.country,
               a.id,
               a.name,
               d.id,
               d.title`

const workerJoins = `
          LEFT JOIN employers e ON e.id = w.employer_id AND e.company_id = w.company_id
          LEFT JOIN sub_agents a ON a.id = w.sub_agent_id AND a.company_id = w.company_id
          LEFT JOIN job_demands d ON d.id = w.job_demand_id AND d.company_id = w.company_id`

// WorkerRepository は PostgreSQL を利用したワーカー永続化の実装です。
type WorkerRepository struct {
	pool pgdb.Queryer
}

// NewWorkerRepository は WorkerRepository を生成します。
func NewWorkerRepository(pool pgdb.Queryer) *WorkerRepository {
	return &WorkerRepository{pool: pool}
}

// Create はワーカーを新規登録します。
// パスポート番号の重複検査は一意制約により挿入と不可分に行われます。
// タイムラインと書類も同一の挿入で永続化されるため、部分的な記録は残りません。
func (r *WorkerRepository) Create(ctx context.Context, w *worker.Worker) (*worker.Worker, error) {
	timeline, err := json.Marshal(w.StageTimeline)
	if err != nil {
		return nil, fmt.Errorf("postgres: marshal stage timeline: %w", err)
	}
	documents, err := json.Marshal(documentsOrEmpty(w.Documents))
	if err != nil {
		return nil, fmt.Errorf("postgres: marshal documents: %w", err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO workers (company_id, passport_number, name, dob, contact, address, country,
                                 status, current_stage, stage_timeline, documents,
                                 employer_id, job_demand_id, sub_agent_id, notes,
                                 created_by, assigned_to, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
            RETURNING *
        )
        SELECT `+workerColumns+`
          FROM inserted w`+workerJoins+`
    `,
		w.CompanyID,
		w.PassportNumber,
		w.Name,
		nullableDate(w.DOB),
		w.Contact,
		w.Address,
		w.Country,
		string(w.Status),
		string(w.CurrentStage),
		timeline,
		documents,
		nullableText(w.EmployerID),
		nullableText(w.JobDemandID),
		nullableText(w.SubAgentID),
		nullableText(w.Notes),
		w.CreatedBy,
		w.AssignedTo,
		w.CreatedAt,
		w.UpdatedAt,
	)

	created, err := scanWorker(row)
	if err != nil {
		return nil, translateWorkerPgError(err)
	}
	return created, nil
}

// FindByID はテナント内でワーカーを 1 件取得します。
// 他テナントの ID は存在しない場合と同じく ErrWorkerNotFound になります。
func (r *WorkerRepository) FindByID(ctx context.Context, companyID, id string) (*worker.Worker, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+workerColumns+`
          FROM workers w`+workerJoins+`
         WHERE w.company_id = $1 AND w.id = $2
         LIMIT 1
    `, companyID, id)

	found, err := scanWorker(row)
	if err != nil {
		return nil, translateWorkerPgError(err)
	}
	return found, nil
}

// List はテナント内のワーカー一覧を登録の新しい順で返します。
func (r *WorkerRepository) List(ctx context.Context, filter worker.ListWorkersFilter) ([]*worker.Worker, error) {
	if strings.TrimSpace(filter.CompanyID) == "" {
		return nil, worker.ErrInvalidActor
	}

	args := make([]any, 0, 3)
	conditions := make([]string, 0, 3)

	args = append(args, filter.CompanyID)
	conditions = append(conditions, "w.company_id = $"+strconv.Itoa(len(args)))

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, "w.status = $"+strconv.Itoa(len(args)))
	}
	if filter.Stage != nil {
		args = append(args, string(*filter.Stage))
		conditions = append(conditions, "w.current_stage = $"+strconv.Itoa(len(args)))
	}

	query := `
        SELECT ` + workerColumns + `
          FROM workers w` + workerJoins + `
         WHERE ` + strings.Join(conditions, " AND ") + `
         ORDER BY w.created_at DESC, w.id DESC
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateWorkerPgError(err)
	}
	defer rows.Close()

	workers := make([]*worker.Worker, 0)
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, translateWorkerPgError(err)
		}
		workers = append(workers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, translateWorkerPgError(err)
	}

	return workers, nil
}

// Update は段階以外の属性を更新します。
func (r *WorkerRepository) Update(ctx context.Context, companyID string, w *worker.Worker) (*worker.Worker, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH updated AS (
            UPDATE workers
               SET name = $1,
                   dob = $2,
                   contact = $3,
                   address = $4,
                   country = $5,
                   status = $6,
                   employer_id = $7,
                   job_demand_id = $8,
                   sub_agent_id = $9,
                   notes = $10,
                   assigned_to = $11,
                   updated_at = $12
             WHERE id = $13 AND company_id = $14
            RETURNING *
        )
        SELECT `+workerColumns+`
          FROM updated w`+workerJoins+`
    `,
		w.Name,
		nullableDate(w.DOB),
		w.Contact,
		w.Address,
		w.Country,
		string(w.Status),
		nullableText(w.EmployerID),
		nullableText(w.JobDemandID),
		nullableText(w.SubAgentID),
		nullableText(w.Notes),
		w.AssignedTo,
		w.UpdatedAt,
		w.ID,
		companyID,
	)

	updated, err := scanWorker(row)
	if err != nil {
		return nil, translateWorkerPgError(err)
	}
	return updated, nil
}

// AdvanceStage は current_stage が from のままである場合のみタイムラインを差し替えます。
// 同時更新で負けた書き込みは上書きせず ErrStageConflict になります。
func (r *WorkerRepository) AdvanceStage(ctx context.Context, companyID, id string, from, to worker.Stage, timeline worker.Timeline, updatedAt time.Time) (*worker.Worker, error) {
	encoded, err := json.Marshal(timeline)
	if err != nil {
		return nil, fmt.Errorf("postgres: marshal stage timeline: %w", err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE workers
           SET current_stage = $1,
               stage_timeline = $2,
               updated_at = $3
         WHERE id = $4 AND company_id = $5 AND current_stage = $6
    `, string(to), encoded, updatedAt, id, companyID, string(from))
	if err != nil {
		return nil, translateWorkerPgError(err)
	}

	if tag.RowsAffected() == 0 {
		// 行が無いのか、先行する遷移に負けたのかを区別します。
		if _, err := r.FindByID(ctx, companyID, id); err != nil {
			return nil, err
		}
		return nil, worker.ErrStageConflict
	}

	return r.FindByID(ctx, companyID, id)
}

func scanWorker(row pgx.Row) (*worker.Worker, error) {
	var (
		id             string
		companyID      string
		passportNumber string
		name           string
		dob            sql.NullTime
		contact        string
		address        string
		country        string
		status         string
		currentStage   string
		timelineRaw    []byte
		documentsRaw   []byte
		employerID     sql.NullString
		jobDemandID    sql.NullString
		subAgentID     sql.NullString
		notes          sql.NullString
		createdBy      string
		assignedTo     string
		createdAt      time.Time
		updatedAt      time.Time
		employerRefID  sql.NullString
		employerName   sql.NullString
		employerCtry   sql.NullString
		subAgentRefID  sql.NullString
		subAgentName   sql.NullString
		jobDemandRefID sql.NullString
		jobDemandTitle sql.NullString
	)

	if err := row.Scan(
		&id,
		&companyID,
		&passportNumber,
		&name,
		&dob,
		&contact,
		&address,
		&country,
		&status,
		&currentStage,
		&timelineRaw,
		&documentsRaw,
		&employerID,
		&jobDemandID,
		&subAgentID,
		&notes,
		&createdBy,
		&assignedTo,
		&createdAt,
		&updatedAt,
		&employerRefID,
		&employerName,
		&employerCtry,
		&subAgentRefID,
		&subAgentName,
		&jobDemandRefID,
		&jobDemandTitle,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, worker.ErrWorkerNotFound
		}
		return nil, err
	}

	var timeline worker.Timeline
	if err := json.Unmarshal(timelineRaw, &timeline); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal stage timeline: %w", err)
	}

	var documents []worker.Document
	if len(documentsRaw) > 0 {
		if err := json.Unmarshal(documentsRaw, &documents); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal documents: %w", err)
		}
	}

	w := &worker.Worker{
		ID:             id,
		CompanyID:      companyID,
		PassportNumber: passportNumber,
		Name:           name,
		DOB:            nullTimeToDate(dob),
		Contact:        contact,
		Address:        address,
		Country:        country,
		Status:         worker.Status(status),
		CurrentStage:   worker.Stage(currentStage),
		StageTimeline:  timeline,
		Documents:      documents,
		EmployerID:     nullStringToPtr(employerID),
		JobDemandID:    nullStringToPtr(jobDemandID),
		SubAgentID:     nullStringToPtr(subAgentID),
		Notes:          nullStringToPtr(notes),
		CreatedBy:      createdBy,
		AssignedTo:     assignedTo,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}

	if employerRefID.Valid {
		w.Employer = &worker.EmployerSummary{
			ID:      employerRefID.String,
			Name:    employerName.String,
			Country: employerCtry.String,
		}
	}
	if subAgentRefID.Valid {
		w.SubAgent = &worker.SubAgentSummary{
			ID:   subAgentRefID.String,
			Name: subAgentName.String,
		}
	}
	if jobDemandRefID.Valid {
		w.JobDemand = &worker.JobDemandSummary{
			ID:    jobDemandRefID.String,
			Title: jobDemandTitle.String,
		}
	}

	return w, nil
}

func translateWorkerPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return worker.ErrWorkerNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return worker.ErrPassportAlreadyRegistered
		case foreignKeyViolationCode:
			return worker.ErrInvalidReference
		}
	}

	return err
}

func documentsOrEmpty(documents []worker.Document) []worker.Document {
	if documents == nil {
		return []worker.Document{}
	}
	return documents
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableText(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullTimeToDate(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}

func nullStringToPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
