package subagent

import "time"

// Status はサブエージェントの状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// SubAgent は現地でワーカーを集めるサブエージェントのエンティティです。
// TotalWorkersBrought は手入力ではなく、担当ワーカー数から後で集計されます。
type SubAgent struct {
	ID                  string
	CompanyID           string
	Name                string
	Country             string
	Contact             string
	Status              Status
	TotalWorkersBrought int
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
