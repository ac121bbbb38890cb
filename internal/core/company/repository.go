package company

import "context"

// Repository は会社エンティティの永続化を行うインターフェースです。
// 会社名の一意性はストレージの一意制約で挿入と同時に検査されます。
type Repository interface {
	Create(ctx context.Context, c *Company) (*Company, error)
	FindByID(ctx context.Context, id string) (*Company, error)
	FindByName(ctx context.Context, name string) (*Company, error)
	// SetAdmin は会社の代表管理者を設定します。登録トランザクション内でのみ呼び出されます。
	SetAdmin(ctx context.Context, id, adminID string) error
}
