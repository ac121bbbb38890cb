package jobdemand

import "time"

// Status は求人案件の状態を表します。
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// JobDemand は雇用主からの求人案件エンティティです。ワーカーから弱参照されます。
type JobDemand struct {
	ID         string
	CompanyID  string
	Title      string
	Country    string
	EmployerID *string
	Quantity   int
	Status     Status
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
