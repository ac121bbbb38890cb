package worker

import (
	"errors"
	"testing"
)

func TestNewTimeline_Canonical(t *testing.T) {
	t.Parallel()

	timeline := NewTimeline()

	if err := timeline.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(timeline) != 11 {
		t.Fatalf("expected 11 stages, got %d", len(timeline))
	}
	if timeline[0].Status != StageStatusInProgress {
		t.Fatalf("expected first stage in-progress, got %s", timeline[0].Status)
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].Status != StageStatusPending {
			t.Fatalf("expected stage %s pending, got %s", timeline[i].Stage, timeline[i].Status)
		}
	}
	if timeline.Current() != StageDocumentCollection {
		t.Fatalf("expected current stage document-collection, got %s", timeline.Current())
	}
}

func TestTimeline_Advance_Success(t *testing.T) {
	t.Parallel()

	timeline := NewTimeline()

	advanced, err := timeline.Advance(StageDocumentVerification)
	if err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}

	if advanced[0].Status != StageStatusCompleted {
		t.Fatalf("expected previous stage completed, got %s", advanced[0].Status)
	}
	if advanced[1].Status != StageStatusInProgress {
		t.Fatalf("expected target stage in-progress, got %s", advanced[1].Status)
	}
	if advanced.Current() != StageDocumentVerification {
		t.Fatalf("expected current stage document-verification, got %s", advanced.Current())
	}

	// 元のタイムラインは変更されません。
	if timeline[0].Status != StageStatusInProgress {
		t.Fatalf("expected source timeline untouched, got %s", timeline[0].Status)
	}
}

func TestTimeline_Advance_FullPipeline(t *testing.T) {
	t.Parallel()

	timeline := NewTimeline()
	stages := Stages()

	for _, target := range stages[1:] {
		next, err := timeline.Advance(target)
		if err != nil {
			t.Fatalf("Advance to %s returned error: %v", target, err)
		}
		timeline = next
	}

	if timeline.Current() != StageDeployed {
		t.Fatalf("expected deployed, got %s", timeline.Current())
	}
	for i := 0; i < len(timeline)-1; i++ {
		if timeline[i].Status != StageStatusCompleted {
			t.Fatalf("expected stage %s completed, got %s", timeline[i].Stage, timeline[i].Status)
		}
	}

	// 最終段階からはどこへも遷移できません。
	if _, err := timeline.Advance(StageDeployed); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTimeline_Advance_SkipRejected(t *testing.T) {
	t.Parallel()

	timeline := NewTimeline()

	if _, err := timeline.Advance(StageInterview); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for skip, got %v", err)
	}
}

func TestTimeline_Advance_BackwardRejected(t *testing.T) {
	t.Parallel()

	timeline := NewTimeline()
	advanced, err := timeline.Advance(StageDocumentVerification)
	if err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}

	if _, err := advanced.Advance(StageDocumentCollection); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for backward move, got %v", err)
	}
}

func TestTimeline_Advance_UnknownStage(t *testing.T) {
	t.Parallel()

	timeline := NewTimeline()

	if _, err := timeline.Advance(Stage("unknown")); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}

func TestTimeline_Validate(t *testing.T) {
	t.Parallel()

	short := NewTimeline()[:10]
	if err := short.Validate(); !errors.Is(err, ErrInvalidTimeline) {
		t.Fatalf("expected ErrInvalidTimeline for missing stage, got %v", err)
	}

	reordered := NewTimeline()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	if err := reordered.Validate(); !errors.Is(err, ErrInvalidTimeline) {
		t.Fatalf("expected ErrInvalidTimeline for reordered stages, got %v", err)
	}

	double := NewTimeline()
	double[1].Status = StageStatusInProgress
	if err := double.Validate(); !errors.Is(err, ErrInvalidTimeline) {
		t.Fatalf("expected ErrInvalidTimeline for two in-progress stages, got %v", err)
	}

	unknown := NewTimeline()
	unknown[2].Status = StageStatus("done")
	if err := unknown.Validate(); !errors.Is(err, ErrInvalidTimeline) {
		t.Fatalf("expected ErrInvalidTimeline for unknown status, got %v", err)
	}
}

func TestParseStage(t *testing.T) {
	t.Parallel()

	stage, err := ParseStage("medical-examination")
	if err != nil {
		t.Fatalf("ParseStage returned error: %v", err)
	}
	if stage != StageMedicalExamination {
		t.Fatalf("unexpected stage: %s", stage)
	}

	if _, err := ParseStage("onboarding"); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}
