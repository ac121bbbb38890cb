package subagent

import (
	"context"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service はサブエージェントに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase はサブエージェントユースケースの公開インターフェースです。
type UseCase interface {
	CreateSubAgent(ctx context.Context, in CreateSubAgentInput) (*SubAgent, error)
	ListSubAgents(ctx context.Context, in ListSubAgentsInput) ([]*SubAgent, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// CreateSubAgentInput はサブエージェント作成時の入力です。
type CreateSubAgentInput struct {
	CompanyID string
	ActorID   string
	Name      string
	Country   string
	Contact   string
	Status    *Status
}

// ListSubAgentsInput は一覧取得時の入力です。
type ListSubAgentsInput struct {
	CompanyID string
}

// CreateSubAgent は新しいサブエージェントを作成します。
func (s *Service) CreateSubAgent(ctx context.Context, in CreateSubAgentInput) (*SubAgent, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}
	actorID := strings.TrimSpace(in.ActorID)
	if actorID == "" {
		return nil, ErrInvalidActorID
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	country := strings.TrimSpace(in.Country)
	if country == "" {
		return nil, ErrInvalidCountry
	}
	contact := strings.TrimSpace(in.Contact)
	if contact == "" {
		return nil, ErrInvalidContact
	}

	status := StatusActive
	if in.Status != nil {
		normalized := Status(strings.ToLower(string(*in.Status)))
		switch normalized {
		case StatusActive, StatusInactive, StatusPending:
			status = normalized
		default:
			return nil, ErrInvalidStatus
		}
	}

	now := s.clock.Now()
	return s.repo.Create(ctx, &SubAgent{
		CompanyID: companyID,
		Name:      name,
		Country:   country,
		Contact:   contact,
		Status:    status,
		CreatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// ListSubAgents は呼び出し元テナントのサブエージェント一覧を返します。
func (s *Service) ListSubAgents(ctx context.Context, in ListSubAgentsInput) ([]*SubAgent, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}
	return s.repo.List(ctx, companyID)
}
