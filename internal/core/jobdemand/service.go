package jobdemand

import (
	"context"
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

// Service は求人案件に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase は求人案件ユースケースの公開インターフェースです。
type UseCase interface {
	CreateJobDemand(ctx context.Context, in CreateJobDemandInput) (*JobDemand, error)
	ListJobDemands(ctx context.Context, in ListJobDemandsInput) ([]*JobDemand, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// CreateJobDemandInput は求人案件作成時の入力です。
type CreateJobDemandInput struct {
	CompanyID  string
	ActorID    string
	Title      string
	Country    string
	EmployerID *string
	Quantity   int
}

// ListJobDemandsInput は一覧取得時の入力です。
type ListJobDemandsInput struct {
	CompanyID string
}

// CreateJobDemand は新しい求人案件を作成します。
func (s *Service) CreateJobDemand(ctx context.Context, in CreateJobDemandInput) (*JobDemand, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}
	actorID := strings.TrimSpace(in.ActorID)
	if actorID == "" {
		return nil, ErrInvalidActorID
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	country := strings.TrimSpace(in.Country)
	if country == "" {
		return nil, ErrInvalidCountry
	}
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var employerID *string
	if in.EmployerID != nil {
		trimmed := strings.TrimSpace(*in.EmployerID)
		if trimmed != "" {
			if _, err := uuid.Parse(trimmed); err != nil {
				return nil, ErrInvalidReference
			}
			employerID = &trimmed
		}
	}

	now := s.clock.Now()
	return s.repo.Create(ctx, &JobDemand{
		CompanyID:  companyID,
		Title:      title,
		Country:    country,
		EmployerID: employerID,
		Quantity:   in.Quantity,
		Status:     StatusOpen,
		CreatedBy:  actorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// ListJobDemands は呼び出し元テナントの求人案件一覧を返します。
func (s *Service) ListJobDemands(ctx context.Context, in ListJobDemandsInput) ([]*JobDemand, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}
	return s.repo.List(ctx, companyID)
}
