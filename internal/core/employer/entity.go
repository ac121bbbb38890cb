package employer

import "time"

// Status は雇用主の状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Employer は海外の雇用主エンティティです。ワーカーから弱参照されます。
type Employer struct {
	ID           string
	CompanyID    string
	EmployerName string
	Country      string
	Contact      string
	Address      string
	Notes        *string
	Status       Status
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
