package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const defaultCountry = "Nepal"

// Service はワーカーのライフサイクルに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase はワーカーユースケースの公開インターフェースです。
type UseCase interface {
	CreateWorker(ctx context.Context, in CreateWorkerInput) (*Worker, error)
	GetWorker(ctx context.Context, in GetWorkerInput) (*Worker, error)
	ListWorkers(ctx context.Context, in ListWorkersInput) ([]*Worker, error)
	UpdateWorker(ctx context.Context, in UpdateWorkerInput) (*Worker, error)
	AdvanceStage(ctx context.Context, in AdvanceStageInput) (*Worker, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateWorkerInput はワーカー登録時の入力です。
type CreateWorkerInput struct {
	Actor          Actor
	PassportNumber string
	Name           string
	DOB            *time.Time
	Contact        string
	Address        string
	Country        string
	Status         *Status
	EmployerID     *string
	JobDemandID    *string
	SubAgentID     *string
	Notes          *string
	Attachments    []Attachment
}

// GetWorkerInput はワーカー取得時の入力です。
type GetWorkerInput struct {
	Actor Actor
	ID    string
}

// ListWorkersInput は一覧取得時の入力です。
type ListWorkersInput struct {
	Actor  Actor
	Status *Status
	Stage  *string
}

// UpdateWorkerInput はワーカー更新時の入力です。
// 段階に関わるフィールドは含まれません。段階遷移は AdvanceStage のみが行います。
type UpdateWorkerInput struct {
	Actor          Actor
	ID             string
	Name           *string
	DOB            *time.Time
	DOBSet         bool
	Contact        *string
	Address        *string
	Country        *string
	Status         *Status
	EmployerID     *string
	EmployerIDSet  bool
	JobDemandID    *string
	JobDemandIDSet bool
	SubAgentID     *string
	SubAgentIDSet  bool
	Notes          *string
	NotesSet       bool
	AssignedTo     *string
}

// AdvanceStageInput は段階遷移時の入力です。
type AdvanceStageInput struct {
	Actor       Actor
	ID          string
	TargetStage string
}

// CreateWorker は新しいワーカーを登録します。
// パスポート番号の一意性はストレージの一意制約で挿入と同時に検査されます。
// タイムラインと書類は 1 回の挿入で永続化され、途中失敗時に部分的な記録は残りません。
func (s *Service) CreateWorker(ctx context.Context, in CreateWorkerInput) (*Worker, error) {
	actor, err := normalizeActor(in.Actor)
	if err != nil {
		return nil, err
	}

	passport, err := normalizePassportNumber(in.PassportNumber)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	status := StatusPending
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = defaultCountry
	}

	employerID, err := normalizeReference(in.EmployerID)
	if err != nil {
		return nil, fmt.Errorf("employer_id: %w", err)
	}
	jobDemandID, err := normalizeReference(in.JobDemandID)
	if err != nil {
		return nil, fmt.Errorf("job_demand_id: %w", err)
	}
	subAgentID, err := normalizeReference(in.SubAgentID)
	if err != nil {
		return nil, fmt.Errorf("sub_agent_id: %w", err)
	}

	now := s.clock.Now()
	timeline := NewTimeline()

	w := &Worker{
		CompanyID:      actor.CompanyID,
		PassportNumber: passport,
		Name:           name,
		DOB:            normalizeDate(in.DOB),
		Contact:        strings.TrimSpace(in.Contact),
		Address:        strings.TrimSpace(in.Address),
		Country:        country,
		Status:         status,
		CurrentStage:   timeline.Current(),
		StageTimeline:  timeline,
		Documents:      ClassifyAttachments(in.Attachments, now),
		EmployerID:     employerID,
		JobDemandID:    jobDemandID,
		SubAgentID:     subAgentID,
		Notes:          normalizeOptionalText(in.Notes),
		CreatedBy:      actor.ID,
		AssignedTo:     actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var created *Worker
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, w)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetWorker はテナント内のワーカーを 1 件取得します。
// 他テナントの ID は存在しない場合と区別せず ErrWorkerNotFound になります。
func (s *Service) GetWorker(ctx context.Context, in GetWorkerInput) (*Worker, error) {
	actor, err := normalizeActor(in.Actor)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.repo.FindByID(ctx, actor.CompanyID, in.ID)
}

// ListWorkers は呼び出し元テナントのワーカー一覧を返します。
func (s *Service) ListWorkers(ctx context.Context, in ListWorkersInput) ([]*Worker, error) {
	actor, err := normalizeActor(in.Actor)
	if err != nil {
		return nil, err
	}

	filter := ListWorkersFilter{CompanyID: actor.CompanyID}

	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		filter.Status = &status
	}

	if in.Stage != nil {
		stage, err := ParseStage(*in.Stage)
		if err != nil {
			return nil, err
		}
		filter.Stage = &stage
	}

	var workers []*Worker
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		workers = result
		return nil
	}); err != nil {
		return nil, err
	}

	return workers, nil
}

// UpdateWorker は段階以外の属性を部分更新します。
func (s *Service) UpdateWorker(ctx context.Context, in UpdateWorkerInput) (*Worker, error) {
	actor, err := normalizeActor(in.Actor)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Worker
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, actor.CompanyID, in.ID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return ErrInvalidName
			}
			existing.Name = name
		}

		if in.DOBSet {
			existing.DOB = normalizeDate(in.DOB)
		}

		if in.Contact != nil {
			existing.Contact = strings.TrimSpace(*in.Contact)
		}

		if in.Address != nil {
			existing.Address = strings.TrimSpace(*in.Address)
		}

		if in.Country != nil {
			country := strings.TrimSpace(*in.Country)
			if country == "" {
				return ErrInvalidCountry
			}
			existing.Country = country
		}

		if in.Status != nil {
			if !isValidStatus(*in.Status) {
				return ErrInvalidStatus
			}
			existing.Status = *in.Status
		}

		if in.EmployerIDSet {
			ref, err := normalizeReference(in.EmployerID)
			if err != nil {
				return fmt.Errorf("employer_id: %w", err)
			}
			existing.EmployerID = ref
		}

		if in.JobDemandIDSet {
			ref, err := normalizeReference(in.JobDemandID)
			if err != nil {
				return fmt.Errorf("job_demand_id: %w", err)
			}
			existing.JobDemandID = ref
		}

		if in.SubAgentIDSet {
			ref, err := normalizeReference(in.SubAgentID)
			if err != nil {
				return fmt.Errorf("sub_agent_id: %w", err)
			}
			existing.SubAgentID = ref
		}

		if in.NotesSet {
			existing.Notes = normalizeOptionalText(in.Notes)
		}

		if in.AssignedTo != nil {
			assignee, err := normalizeReference(in.AssignedTo)
			if err != nil || assignee == nil {
				return fmt.Errorf("assigned_to: %w", ErrInvalidReference)
			}
			existing.AssignedTo = *assignee
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, actor.CompanyID, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// AdvanceStage は現在段階の直後の段階へのみ遷移させます。
// ストレージ側の条件付き更新により、同一ワーカーへの同時遷移は片方のみ成功します。
func (s *Service) AdvanceStage(ctx context.Context, in AdvanceStageInput) (*Worker, error) {
	actor, err := normalizeActor(in.Actor)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	target, err := ParseStage(strings.TrimSpace(in.TargetStage))
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, actor.CompanyID, in.ID)
	if err != nil {
		return nil, err
	}

	from := existing.StageTimeline.Current()
	advanced, err := existing.StageTimeline.Advance(target)
	if err != nil {
		return nil, err
	}

	return s.repo.AdvanceStage(ctx, actor.CompanyID, in.ID, from, target, advanced, s.clock.Now())
}

func normalizeActor(actor Actor) (Actor, error) {
	id := strings.TrimSpace(actor.ID)
	companyID := strings.TrimSpace(actor.CompanyID)
	if id == "" || companyID == "" {
		return Actor{}, ErrInvalidActor
	}
	return Actor{ID: id, CompanyID: companyID}, nil
}

func normalizePassportNumber(raw string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", ErrInvalidPassportNumber
	}
	return trimmed, nil
}

// normalizeReference は参照 ID を検証します。空値は未設定として nil になります。
func normalizeReference(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(trimmed); err != nil {
		return nil, ErrInvalidReference
	}
	return &trimmed, nil
}

func normalizeOptionalText(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusActive, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}
