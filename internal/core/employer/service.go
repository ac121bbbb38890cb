package employer

import (
	"context"
	"fmt"
	"regexp"
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

// 先頭の + と数字・空白・ハイフン・括弧のみを許容します。
var contactPattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s./0-9]*$`)

// Service は雇用主に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase は雇用主ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployer(ctx context.Context, in CreateEmployerInput) (*Employer, error)
	ListEmployers(ctx context.Context, in ListEmployersInput) ([]*Employer, error)
	UpdateEmployer(ctx context.Context, in UpdateEmployerInput) (*Employer, error)
	DeleteEmployer(ctx context.Context, in DeleteEmployerInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// CreateEmployerInput は雇用主作成時の入力です。
type CreateEmployerInput struct {
	CompanyID    string
	ActorID      string
	EmployerName string
	Country      string
	Contact      string
	Address      string
	Notes        *string
}

// ListEmployersInput は一覧取得時の入力です。
type ListEmployersInput struct {
	CompanyID string
}

// UpdateEmployerInput は雇用主更新時の入力です。
type UpdateEmployerInput struct {
	CompanyID    string
	ID           string
	EmployerName *string
	Country      *string
	Contact      *string
	Address      *string
	Notes        *string
	NotesSet     bool
	Status       *Status
}

// DeleteEmployerInput は雇用主削除時の入力です。
type DeleteEmployerInput struct {
	CompanyID string
	ID        string
}

// CreateEmployer は新しい雇用主を作成します。
func (s *Service) CreateEmployer(ctx context.Context, in CreateEmployerInput) (*Employer, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}
	actorID := strings.TrimSpace(in.ActorID)
	if actorID == "" {
		return nil, ErrInvalidActorID
	}

	name := strings.TrimSpace(in.EmployerName)
	if name == "" {
		return nil, ErrInvalidName
	}
	country := strings.TrimSpace(in.Country)
	if country == "" {
		return nil, ErrInvalidCountry
	}
	contact, err := normalizeContact(in.Contact)
	if err != nil {
		return nil, err
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, ErrInvalidAddress
	}

	now := s.clock.Now()
	return s.repo.Create(ctx, &Employer{
		CompanyID:    companyID,
		EmployerName: name,
		Country:      country,
		Contact:      contact,
		Address:      address,
		Notes:        normalizeNotes(in.Notes),
		Status:       StatusActive,
		CreatedBy:    actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// ListEmployers は呼び出し元テナントの雇用主一覧を返します。
func (s *Service) ListEmployers(ctx context.Context, in ListEmployersInput) ([]*Employer, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}
	return s.repo.List(ctx, companyID)
}

// UpdateEmployer は雇用主情報を部分更新します。
func (s *Service) UpdateEmployer(ctx context.Context, in UpdateEmployerInput) (*Employer, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	existing, err := s.repo.FindByID(ctx, companyID, in.ID)
	if err != nil {
		return nil, err
	}

	if in.EmployerName != nil {
		name := strings.TrimSpace(*in.EmployerName)
		if name == "" {
			return nil, ErrInvalidName
		}
		existing.EmployerName = name
	}

	if in.Country != nil {
		country := strings.TrimSpace(*in.Country)
		if country == "" {
			return nil, ErrInvalidCountry
		}
		existing.Country = country
	}

	if in.Contact != nil {
		contact, err := normalizeContact(*in.Contact)
		if err != nil {
			return nil, err
		}
		existing.Contact = contact
	}

	if in.Address != nil {
		address := strings.TrimSpace(*in.Address)
		if address == "" {
			return nil, ErrInvalidAddress
		}
		existing.Address = address
	}

	if in.NotesSet {
		existing.Notes = normalizeNotes(in.Notes)
	}

	if in.Status != nil {
		switch *in.Status {
		case StatusActive, StatusInactive:
			existing.Status = *in.Status
		default:
			return nil, ErrInvalidStatus
		}
	}

	existing.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, companyID, existing)
}

// DeleteEmployer は雇用主を削除します。
func (s *Service) DeleteEmployer(ctx context.Context, in DeleteEmployerInput) error {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return ErrInvalidCompanyID
	}
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.Delete(ctx, companyID, in.ID)
}

func normalizeContact(raw string) (string, error) {
	contact := strings.TrimSpace(raw)
	if contact == "" || !contactPattern.MatchString(contact) {
		return "", ErrInvalidContact
	}
	return contact, nil
}

func normalizeNotes(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
