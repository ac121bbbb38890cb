package jobdemand

import "context"

// Repository は求人案件永続化の抽象です。すべての読み書きはテナント ID を必須とします。
type Repository interface {
	Create(ctx context.Context, d *JobDemand) (*JobDemand, error)
	List(ctx context.Context, companyID string) ([]*JobDemand, error)
}
