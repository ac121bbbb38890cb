package employer

import "context"

// Repository は雇用主永続化の抽象です。すべての読み書きはテナント ID を必須とします。
type Repository interface {
	Create(ctx context.Context, e *Employer) (*Employer, error)
	FindByID(ctx context.Context, companyID, id string) (*Employer, error)
	List(ctx context.Context, companyID string) ([]*Employer, error)
	Update(ctx context.Context, companyID string, e *Employer) (*Employer, error)
	Delete(ctx context.Context, companyID, id string) error
}
