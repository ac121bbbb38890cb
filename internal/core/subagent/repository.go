package subagent

import "context"

// Repository はサブエージェント永続化の抽象です。すべての読み書きはテナント ID を必須とします。
type Repository interface {
	Create(ctx context.Context, a *SubAgent) (*SubAgent, error)
	List(ctx context.Context, companyID string) ([]*SubAgent, error)
}
