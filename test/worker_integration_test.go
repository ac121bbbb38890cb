//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	repo "github.com/ogurasousui/manpower-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/identity"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/worker"
	"github.com/ogurasousui/manpower-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/manpower-clean-arch/internal/platform/db/postgres"
)

const migrationsDir = "assets/migrations"

func TestWorkerLifecycleIntegration(t *testing.T) {
	cfgPath := configPathFromEnv()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	txManager := pg.NewTransactionManager(pool)

	userRepo := repo.NewUserRepository(pool)
	companyRepo := repo.NewCompanyRepository(pool)
	workerRepo := repo.NewWorkerRepository(pool)

	tokens := identity.NewTokenManager("integration-secret", time.Hour, nil)
	authSvc := identity.NewService(userRepo, companyRepo, tokens, nil, nil, txManager)
	workerSvc := worker.NewService(workerRepo, nil, txManager)

	// テナントと管理者を用意します。
	registered, err := authSvc.Register(ctx, identity.RegisterInput{
		CompanyName: "Integration Manpower",
		FullName:    "Integration Admin",
		Email:       "integration-admin@example.com",
		Password:    "password123",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	actor := worker.Actor{ID: registered.User.ID, CompanyID: *registered.User.CompanyID}

	created, err := workerSvc.CreateWorker(ctx, worker.CreateWorkerInput{
		Actor:          actor,
		PassportNumber: "int-pa-001",
		Name:           "Integration Worker",
		Attachments: []worker.Attachment{
			{FileName: "passport.pdf", SizeBytes: 1024 * 1024, FileURL: "uploads/passport.pdf", Category: "passport"},
		},
	})
	if err != nil {
		t.Fatalf("CreateWorker error: %v", err)
	}

	if created.PassportNumber != "INT-PA-001" {
		t.Fatalf("expected normalized passport number, got %s", created.PassportNumber)
	}
	if created.CurrentStage != worker.StageDocumentCollection {
		t.Fatalf("expected initial stage, got %s", created.CurrentStage)
	}
	if len(created.Documents) != 1 || created.Documents[0].Category != worker.CategoryPassport {
		t.Fatalf("expected classified documents, got %+v", created.Documents)
	}

	// パスポート番号はテナントを跨いで一意です。
	other, err := authSvc.Register(ctx, identity.RegisterInput{
		CompanyName: "Rival Manpower",
		FullName:    "Rival Admin",
		Email:       "rival-admin@example.com",
		Password:    "password123",
	})
	if err != nil {
		t.Fatalf("Register rival error: %v", err)
	}
	rivalActor := worker.Actor{ID: other.User.ID, CompanyID: *other.User.CompanyID}

	if _, err := workerSvc.CreateWorker(ctx, worker.CreateWorkerInput{
		Actor:          rivalActor,
		PassportNumber: "INT-PA-001",
		Name:           "Duplicate Worker",
	}); !errors.Is(err, worker.ErrPassportAlreadyRegistered) {
		t.Fatalf("expected ErrPassportAlreadyRegistered, got %v", err)
	}

	// 他テナントからは見えません。
	if _, err := workerSvc.GetWorker(ctx, worker.GetWorkerInput{Actor: rivalActor, ID: created.ID}); !errors.Is(err, worker.ErrWorkerNotFound) {
		t.Fatalf("expected ErrWorkerNotFound for cross-tenant read, got %v", err)
	}

	advanced, err := workerSvc.AdvanceStage(ctx, worker.AdvanceStageInput{
		Actor:       actor,
		ID:          created.ID,
		TargetStage: string(worker.StageDocumentVerification),
	})
	if err != nil {
		t.Fatalf("AdvanceStage error: %v", err)
	}
	if advanced.CurrentStage != worker.StageDocumentVerification {
		t.Fatalf("expected stage document-verification, got %s", advanced.CurrentStage)
	}

	if _, err := workerSvc.AdvanceStage(ctx, worker.AdvanceStageInput{
		Actor:       actor,
		ID:          created.ID,
		TargetStage: string(worker.StageTraining),
	}); !errors.Is(err, worker.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for skip, got %v", err)
	}

	newName := "Renamed Worker"
	updated, err := workerSvc.UpdateWorker(ctx, worker.UpdateWorkerInput{
		Actor: actor,
		ID:    created.ID,
		Name:  &newName,
	})
	if err != nil {
		t.Fatalf("UpdateWorker error: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.CurrentStage != worker.StageDocumentVerification {
		t.Fatalf("expected stage untouched by update, got %s", updated.CurrentStage)
	}

	listed, err := workerSvc.ListWorkers(ctx, worker.ListWorkersInput{Actor: actor})
	if err != nil {
		t.Fatalf("ListWorkers error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 worker for tenant, got %d", len(listed))
	}
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "assets/local.yaml"
}
