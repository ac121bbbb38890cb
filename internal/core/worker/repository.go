package worker

import (
	"context"
	"time"
)

// Repository はワーカー永続化の抽象です。
// テナント分離を強制するため、すべての読み書きはテナント ID を必須とします。
type Repository interface {
	// Create は一意制約によるパスポート番号の重複検査と挿入を不可分に行います。
	Create(ctx context.Context, w *Worker) (*Worker, error)
	FindByID(ctx context.Context, companyID, id string) (*Worker, error)
	List(ctx context.Context, filter ListWorkersFilter) ([]*Worker, error)
	Update(ctx context.Context, companyID string, w *Worker) (*Worker, error)
	// AdvanceStage は current_stage が from のままである場合のみタイムラインを更新します。
	// 競合した場合は ErrStageConflict を返します。
	AdvanceStage(ctx context.Context, companyID, id string, from, to Stage, timeline Timeline, updatedAt time.Time) (*Worker, error)
}

// ListWorkersFilter は一覧取得用フィルタです。CompanyID は必須です。
type ListWorkersFilter struct {
	CompanyID string
	Status    *Status
	Stage     *Stage
}
