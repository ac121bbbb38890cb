package identity

import "context"

// Repository はユーザーエンティティの永続化を行うインターフェースです。
// メールアドレスの一意性はストレージの一意制約で挿入と同時に検査されます。
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
