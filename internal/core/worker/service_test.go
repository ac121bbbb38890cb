package worker

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

type fakeWorkerRepo struct {
	workers  map[string]*Worker
	sequence int
	order    []string
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{workers: make(map[string]*Worker)}
}

func (r *fakeWorkerRepo) Create(_ context.Context, w *Worker) (*Worker, error) {
	// パスポート番号の一意制約はテナントを跨いで効きます。
	for _, existing := range r.workers {
		if existing.PassportNumber == w.PassportNumber {
			return nil, ErrPassportAlreadyRegistered
		}
	}

	clone := cloneWorker(w)
	r.sequence++
	clone.ID = fmt.Sprintf("worker-%d", r.sequence)
	r.workers[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return cloneWorker(clone), nil
}

func (r *fakeWorkerRepo) FindByID(_ context.Context, companyID, id string) (*Worker, error) {
	w, ok := r.workers[id]
	if !ok || w.CompanyID != companyID {
		return nil, ErrWorkerNotFound
	}
	return cloneWorker(w), nil
}

func (r *fakeWorkerRepo) List(_ context.Context, filter ListWorkersFilter) ([]*Worker, error) {
	var filtered []*Worker
	for _, id := range r.order {
		w := r.workers[id]
		if w.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		if filter.Stage != nil && w.CurrentStage != *filter.Stage {
			continue
		}
		filtered = append(filtered, cloneWorker(w))
	}
	return filtered, nil
}

func (r *fakeWorkerRepo) Update(_ context.Context, companyID string, w *Worker) (*Worker, error) {
	existing, ok := r.workers[w.ID]
	if !ok || existing.CompanyID != companyID {
		return nil, ErrWorkerNotFound
	}
	clone := cloneWorker(w)
	clone.CurrentStage = existing.CurrentStage
	clone.StageTimeline = cloneTimeline(existing.StageTimeline)
	r.workers[w.ID] = clone
	return cloneWorker(clone), nil
}

func (r *fakeWorkerRepo) AdvanceStage(_ context.Context, companyID, id string, from, to Stage, timeline Timeline, updatedAt time.Time) (*Worker, error) {
	existing, ok := r.workers[id]
	if !ok || existing.CompanyID != companyID {
		return nil, ErrWorkerNotFound
	}
	if existing.CurrentStage != from {
		return nil, ErrStageConflict
	}
	existing.CurrentStage = to
	existing.StageTimeline = cloneTimeline(timeline)
	existing.UpdatedAt = updatedAt
	return cloneWorker(existing), nil
}

func cloneWorker(w *Worker) *Worker {
	if w == nil {
		return nil
	}
	copied := *w
	copied.StageTimeline = cloneTimeline(w.StageTimeline)
	if w.Documents != nil {
		copied.Documents = append([]Document(nil), w.Documents...)
	}
	copied.DOB = clonePtr(w.DOB)
	copied.EmployerID = clonePtr(w.EmployerID)
	copied.JobDemandID = clonePtr(w.JobDemandID)
	copied.SubAgentID = clonePtr(w.SubAgentID)
	copied.Notes = clonePtr(w.Notes)
	return &copied
}

func cloneTimeline(t Timeline) Timeline {
	if t == nil {
		return nil
	}
	return append(Timeline(nil), t...)
}

func clonePtr[T any](value *T) *T {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func testActor() Actor {
	return Actor{ID: "11111111-1111-1111-1111-111111111111", CompanyID: "22222222-2222-2222-2222-222222222222"}
}

func TestService_CreateWorker_Defaults(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(repo, &stubClock{now: now}, nil)

	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: " pa123456 ",
		Name:           "  Ram Bahadur  ",
		Attachments: []Attachment{
			{FileName: "passport.pdf", SizeBytes: 1024 * 1024, Category: "passport"},
		},
	})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}

	if created.PassportNumber != "PA123456" {
		t.Fatalf("expected normalized passport number, got %s", created.PassportNumber)
	}
	if created.Name != "Ram Bahadur" {
		t.Fatalf("expected trimmed name, got %s", created.Name)
	}
	if created.Country != "Nepal" {
		t.Fatalf("expected default country Nepal, got %s", created.Country)
	}
	if created.Status != StatusPending {
		t.Fatalf("expected default status pending, got %s", created.Status)
	}
	if created.CurrentStage != StageDocumentCollection {
		t.Fatalf("expected initial stage document-collection, got %s", created.CurrentStage)
	}
	if err := created.StageTimeline.Validate(); err != nil {
		t.Fatalf("invalid initial timeline: %v", err)
	}
	if created.CompanyID != testActor().CompanyID {
		t.Fatalf("expected worker bound to actor tenant, got %s", created.CompanyID)
	}
	if created.CreatedBy != testActor().ID || created.AssignedTo != testActor().ID {
		t.Fatalf("expected provenance from actor, got %s / %s", created.CreatedBy, created.AssignedTo)
	}
	if len(created.Documents) != 1 || created.Documents[0].Category != CategoryPassport {
		t.Fatalf("expected classified documents, got %+v", created.Documents)
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps to use clock now")
	}
}

func TestService_CreateWorker_DuplicatePassport(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()}, nil)

	if _, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA999",
		Name:           "First",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 別テナントからでもパスポート番号は衝突します。
	other := Actor{ID: "33333333-3333-3333-3333-333333333333", CompanyID: "44444444-4444-4444-4444-444444444444"}
	_, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          other,
		PassportNumber: " pa999 ",
		Name:           "Second",
	})
	if !errors.Is(err, ErrPassportAlreadyRegistered) {
		t.Fatalf("expected ErrPassportAlreadyRegistered, got %v", err)
	}
}

func TestService_CreateWorker_Validation(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()}, nil)

	if _, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor: Actor{},
		Name:  "No Actor",
	}); !errors.Is(err, ErrInvalidActor) {
		t.Fatalf("expected ErrInvalidActor, got %v", err)
	}

	if _, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor: testActor(),
		Name:  "No Passport",
	}); !errors.Is(err, ErrInvalidPassportNumber) {
		t.Fatalf("expected ErrInvalidPassportNumber, got %v", err)
	}

	if _, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA1",
		Name:           "   ",
	}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	badStatus := Status("archived")
	if _, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA2",
		Name:           "Valid",
		Status:         &badStatus,
	}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	badRef := "not-a-uuid"
	if _, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA3",
		Name:           "Valid",
		EmployerID:     &badRef,
	}); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestService_GetWorker_TenantIsolation(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()}, nil)

	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA100",
		Name:           "Tenant One",
	})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}

	other := Actor{ID: "33333333-3333-3333-3333-333333333333", CompanyID: "44444444-4444-4444-4444-444444444444"}
	if _, err := svc.GetWorker(context.Background(), GetWorkerInput{Actor: other, ID: created.ID}); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("expected ErrWorkerNotFound for cross-tenant read, got %v", err)
	}

	found, err := svc.GetWorker(context.Background(), GetWorkerInput{Actor: testActor(), ID: created.ID})
	if err != nil {
		t.Fatalf("GetWorker returned error: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("unexpected worker: %s", found.ID)
	}
}

func TestService_ListWorkers_Filters(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()}, nil)

	active := StatusActive
	seeds := []CreateWorkerInput{
		{Actor: testActor(), PassportNumber: "PA201", Name: "One"},
		{Actor: testActor(), PassportNumber: "PA202", Name: "Two", Status: &active},
	}
	for _, seed := range seeds {
		if _, err := svc.CreateWorker(context.Background(), seed); err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	listed, err := svc.ListWorkers(context.Background(), ListWorkersInput{Actor: testActor(), Status: &active})
	if err != nil {
		t.Fatalf("ListWorkers returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "Two" {
		t.Fatalf("expected only the active worker, got %+v", listed)
	}

	badStage := "onboarding"
	if _, err := svc.ListWorkers(context.Background(), ListWorkersInput{Actor: testActor(), Stage: &badStage}); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}

func TestService_UpdateWorker_PartialPatch(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	clk := &stubClock{now: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(repo, clk, nil)

	notes := "initial notes"
	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA300",
		Name:           "Before",
		Contact:        "+977-9800000000",
		Notes:          &notes,
	})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}

	clk.now = clk.now.Add(time.Hour)

	newName := "  After  "
	newCountry := "India"
	updated, err := svc.UpdateWorker(context.Background(), UpdateWorkerInput{
		Actor:    testActor(),
		ID:       created.ID,
		Name:     &newName,
		Country:  &newCountry,
		Notes:    nil,
		NotesSet: true,
	})
	if err != nil {
		t.Fatalf("UpdateWorker returned error: %v", err)
	}

	if updated.Name != "After" {
		t.Fatalf("expected trimmed updated name, got %s", updated.Name)
	}
	if updated.Country != "India" {
		t.Fatalf("expected updated country, got %s", updated.Country)
	}
	if updated.Notes != nil {
		t.Fatalf("expected notes cleared, got %v", *updated.Notes)
	}
	if updated.Contact != "+977-9800000000" {
		t.Fatalf("expected untouched contact, got %s", updated.Contact)
	}
	if updated.CurrentStage != created.CurrentStage {
		t.Fatalf("expected stage untouched by update, got %s", updated.CurrentStage)
	}
	if !updated.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected updated timestamp to use clock")
	}
}

func TestService_UpdateWorker_CrossTenant(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()}, nil)

	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA301",
		Name:           "Victim",
	})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}

	other := Actor{ID: "33333333-3333-3333-3333-333333333333", CompanyID: "44444444-4444-4444-4444-444444444444"}
	newName := "Hijacked"
	if _, err := svc.UpdateWorker(context.Background(), UpdateWorkerInput{
		Actor: other,
		ID:    created.ID,
		Name:  &newName,
	}); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("expected ErrWorkerNotFound for cross-tenant update, got %v", err)
	}
}

func TestService_AdvanceStage_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	clk := &stubClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(repo, clk, nil)

	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA400",
		Name:           "Mover",
	})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}

	advanced, err := svc.AdvanceStage(context.Background(), AdvanceStageInput{
		Actor:       testActor(),
		ID:          created.ID,
		TargetStage: "document-verification",
	})
	if err != nil {
		t.Fatalf("AdvanceStage returned error: %v", err)
	}

	if advanced.CurrentStage != StageDocumentVerification {
		t.Fatalf("expected stage document-verification, got %s", advanced.CurrentStage)
	}
	if advanced.StageTimeline[0].Status != StageStatusCompleted {
		t.Fatalf("expected first stage completed, got %s", advanced.StageTimeline[0].Status)
	}
}

func TestService_AdvanceStage_InvalidTransition(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()}, nil)

	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA401",
		Name:           "Skipper",
	})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}

	if _, err := svc.AdvanceStage(context.Background(), AdvanceStageInput{
		Actor:       testActor(),
		ID:          created.ID,
		TargetStage: "training",
	}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.AdvanceStage(context.Background(), AdvanceStageInput{
		Actor:       testActor(),
		ID:          created.ID,
		TargetStage: "graduation",
	}); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}

func TestService_AdvanceStage_Conflict(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()}, nil)

	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{
		Actor:          testActor(),
		PassportNumber: "PA402",
		Name:           "Racer",
	})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}

	// 読み取りの後に先行遷移が割り込んだ状況を作ります。
	stored := repo.workers[created.ID]
	advancedTimeline, err := stored.StageTimeline.Advance(StageDocumentVerification)
	if err != nil {
		t.Fatalf("setup advance failed: %v", err)
	}

	if _, err := svc.AdvanceStage(context.Background(), AdvanceStageInput{
		Actor:       testActor(),
		ID:          created.ID,
		TargetStage: "document-verification",
	}); err != nil {
		t.Fatalf("first advance failed: %v", err)
	}

	// 先に読んだ from で条件付き更新すると競合になります。
	if _, err := repo.AdvanceStage(context.Background(), testActor().CompanyID, created.ID,
		StageDocumentCollection, StageDocumentVerification, advancedTimeline, time.Now().UTC()); !errors.Is(err, ErrStageConflict) {
		t.Fatalf("expected ErrStageConflict, got %v", err)
	}
}
