package worker

import "time"

// Status はワーカーの募集全体の状態を表します。
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// Worker は出稼ぎ労働者エンティティです。CompanyID は作成時に確定し、以後変更されません。
type Worker struct {
	ID             string
	CompanyID      string
	PassportNumber string
	Name           string
	DOB            *time.Time
	Contact        string
	Address        string
	Country        string
	Status         Status
	CurrentStage   Stage
	StageTimeline  Timeline
	Documents      []Document
	EmployerID     *string
	JobDemandID    *string
	SubAgentID     *string
	Notes          *string
	CreatedBy      string
	AssignedTo     string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Employer  *EmployerSummary
	SubAgent  *SubAgentSummary
	JobDemand *JobDemandSummary
}

// EmployerSummary は表示用に解決された雇用主の要約です。
type EmployerSummary struct {
	ID      string
	Name    string
	Country string
}

// SubAgentSummary は表示用に解決されたサブエージェントの要約です。
type SubAgentSummary struct {
	ID   string
	Name string
}

// JobDemandSummary は表示用に解決された求人案件の要約です。
type JobDemandSummary struct {
	ID    string
	Title string
}

// Actor は認証済みの操作主体です。ワーカーに対するすべての操作で必須となります。
type Actor struct {
	ID        string
	CompanyID string
}
