package worker

// Stage は採用パイプラインの段階名を表します。
type Stage string

const (
	StageDocumentCollection      Stage = "document-collection"
	StageDocumentVerification    Stage = "document-verification"
	StageInterview               Stage = "interview"
	StageMedicalExamination      Stage = "medical-examination"
	StagePoliceClearance         Stage = "police-clearance"
	StageTraining                Stage = "training"
	StageVisaApplication         Stage = "visa-application"
	StageVisaApproval            Stage = "visa-approval"
	StageTicketBooking           Stage = "ticket-booking"
	StagePreDepartureOrientation Stage = "pre-departure-orientation"
	StageDeployed                Stage = "deployed"
)

// canonicalStages は固定順の 11 段階です。作成後に追加・削除・並び替えは行われません。
var canonicalStages = []Stage{
	StageDocumentCollection,
	StageDocumentVerification,
	StageInterview,
	StageMedicalExamination,
	StagePoliceClearance,
	StageTraining,
	StageVisaApplication,
	StageVisaApproval,
	StageTicketBooking,
	StagePreDepartureOrientation,
	StageDeployed,
}

// Stages は正準順の段階一覧のコピーを返します。
func Stages() []Stage {
	stages := make([]Stage, len(canonicalStages))
	copy(stages, canonicalStages)
	return stages
}

func stageIndex(s Stage) int {
	for i, stage := range canonicalStages {
		if stage == s {
			return i
		}
	}
	return -1
}

// ParseStage は文字列を Stage に変換します。未知の段階名は ErrInvalidStage を返します。
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if stageIndex(s) < 0 {
		return "", ErrInvalidStage
	}
	return s, nil
}

// StageStatus は各段階の進行状態を表します。
type StageStatus string

const (
	StageStatusPending    StageStatus = "pending"
	StageStatusInProgress StageStatus = "in-progress"
	StageStatusCompleted  StageStatus = "completed"
	StageStatusFailed     StageStatus = "failed"
)

// StageRecord は 1 段階分の進行記録です。
type StageRecord struct {
	Stage  Stage       `json:"stage"`
	Status StageStatus `json:"status"`
}

// Timeline は正準順に並んだ 11 段階の進行記録列です。
type Timeline []StageRecord

// NewTimeline は第 1 段階を in-progress、残りを pending とした正準タイムラインを返します。
func NewTimeline() Timeline {
	t := make(Timeline, len(canonicalStages))
	for i, stage := range canonicalStages {
		status := StageStatusPending
		if i == 0 {
			status = StageStatusInProgress
		}
		t[i] = StageRecord{Stage: stage, Status: status}
	}
	return t
}

// Validate は段階数・正準順・in-progress の単一性を検証します。
func (t Timeline) Validate() error {
	if len(t) != len(canonicalStages) {
		return ErrInvalidTimeline
	}
	inProgress := 0
	for i, record := range t {
		if record.Stage != canonicalStages[i] {
			return ErrInvalidTimeline
		}
		switch record.Status {
		case StageStatusPending, StageStatusCompleted, StageStatusFailed:
		case StageStatusInProgress:
			inProgress++
		default:
			return ErrInvalidTimeline
		}
	}
	if inProgress > 1 {
		return ErrInvalidTimeline
	}
	return nil
}

// Current は in-progress の段階を返します。未着手の場合は先頭の段階を返します。
func (t Timeline) Current() Stage {
	for _, record := range t {
		if record.Status == StageStatusInProgress {
			return record.Stage
		}
	}
	return canonicalStages[0]
}

// Advance は target が現在段階の直後である場合のみ、現在段階を completed、
// target を in-progress にした新しいタイムラインを返します。
// 飛び越しと後退は ErrInvalidTransition を返します。
func (t Timeline) Advance(target Stage) (Timeline, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	targetIdx := stageIndex(target)
	if targetIdx < 0 {
		return nil, ErrInvalidStage
	}

	currentIdx := stageIndex(t.Current())
	if targetIdx != currentIdx+1 {
		return nil, ErrInvalidTransition
	}

	next := make(Timeline, len(t))
	copy(next, t)
	next[currentIdx].Status = StageStatusCompleted
	next[targetIdx].Status = StageStatusInProgress
	return next, nil
}
