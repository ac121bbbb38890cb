package subagent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeSubAgentRepo struct {
	agents   map[string]*SubAgent
	sequence int
	order    []string
}

func newFakeSubAgentRepo() *fakeSubAgentRepo {
	return &fakeSubAgentRepo{agents: make(map[string]*SubAgent)}
}

func (r *fakeSubAgentRepo) Create(_ context.Context, a *SubAgent) (*SubAgent, error) {
	clone := *a
	r.sequence++
	clone.ID = fmt.Sprintf("agent-%d", r.sequence)
	r.agents[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	copied := clone
	return &copied, nil
}

func (r *fakeSubAgentRepo) List(_ context.Context, companyID string) ([]*SubAgent, error) {
	var listed []*SubAgent
	for _, id := range r.order {
		if a := r.agents[id]; a.CompanyID == companyID {
			copied := *a
			listed = append(listed, &copied)
		}
	}
	return listed, nil
}

func TestService_CreateSubAgent(t *testing.T) {
	t.Parallel()

	repo := newFakeSubAgentRepo()
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(repo, &stubClock{now: now})

	created, err := svc.CreateSubAgent(context.Background(), CreateSubAgentInput{
		CompanyID: "company-1",
		ActorID:   "user-1",
		Name:      "  Pokhara Agency  ",
		Country:   "Nepal",
		Contact:   "+977-9800000000",
	})
	if err != nil {
		t.Fatalf("CreateSubAgent returned error: %v", err)
	}

	if created.Name != "Pokhara Agency" {
		t.Fatalf("expected trimmed name, got %s", created.Name)
	}
	if created.Status != StatusActive {
		t.Fatalf("expected default status active, got %s", created.Status)
	}
	if !created.CreatedAt.Equal(now) {
		t.Fatalf("expected timestamps to use clock now")
	}
}

func TestService_CreateSubAgent_StatusNormalization(t *testing.T) {
	t.Parallel()

	repo := newFakeSubAgentRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()})

	upper := Status("INACTIVE")
	created, err := svc.CreateSubAgent(context.Background(), CreateSubAgentInput{
		CompanyID: "company-1",
		ActorID:   "user-1",
		Name:      "Agency",
		Country:   "Nepal",
		Contact:   "+977-9800000000",
		Status:    &upper,
	})
	if err != nil {
		t.Fatalf("CreateSubAgent returned error: %v", err)
	}
	if created.Status != StatusInactive {
		t.Fatalf("expected lowercased status, got %s", created.Status)
	}

	bad := Status("dormant")
	if _, err := svc.CreateSubAgent(context.Background(), CreateSubAgentInput{
		CompanyID: "company-1",
		ActorID:   "user-1",
		Name:      "Agency Two",
		Country:   "Nepal",
		Contact:   "+977-9800000000",
		Status:    &bad,
	}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestService_ListSubAgents_TenantScoped(t *testing.T) {
	t.Parallel()

	repo := newFakeSubAgentRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()})

	for i, companyID := range []string{"company-1", "company-2", "company-1"} {
		if _, err := svc.CreateSubAgent(context.Background(), CreateSubAgentInput{
			CompanyID: companyID,
			ActorID:   "user-1",
			Name:      fmt.Sprintf("Agency %d", i),
			Country:   "Nepal",
			Contact:   "+977-9800000000",
		}); err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	listed, err := svc.ListSubAgents(context.Background(), ListSubAgentsInput{CompanyID: "company-1"})
	if err != nil {
		t.Fatalf("ListSubAgents returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 agents for company-1, got %d", len(listed))
	}

	if _, err := svc.ListSubAgents(context.Background(), ListSubAgentsInput{}); !errors.Is(err, ErrInvalidCompanyID) {
		t.Fatalf("expected ErrInvalidCompanyID, got %v", err)
	}
}
