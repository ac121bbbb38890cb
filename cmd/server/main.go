package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/manpower-clean-arch/internal/adapters/http/handler"
	"github.com/ogurasousui/manpower-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/employer"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/identity"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/jobdemand"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/subagent"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/worker"
	"github.com/ogurasousui/manpower-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/manpower-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/manpower-clean-arch/internal/platform/logger"
	"github.com/ogurasousui/manpower-clean-arch/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	workerRepo := postgres.NewWorkerRepository(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	employerRepo := postgres.NewEmployerRepository(dbPool)
	subAgentRepo := postgres.NewSubAgentRepository(dbPool)
	jobDemandRepo := postgres.NewJobDemandRepository(dbPool)

	tokenManager := identity.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTLifetime, nil)

	authSvc := identity.NewService(userRepo, companyRepo, tokenManager, nil, nil, txManager)
	workerSvc := worker.NewService(workerRepo, nil, txManager)
	employerSvc := employer.NewService(employerRepo, nil)
	subAgentSvc := subagent.NewService(subAgentRepo, nil)
	jobDemandSvc := jobdemand.NewService(jobDemandRepo, nil)

	router := handler.NewRouter(handler.RouterDeps{
		Logger:     zapLogger,
		Verifier:   tokenManager,
		Auth:       authSvc,
		Workers:    workerSvc,
		Employers:  employerSvc,
		SubAgents:  subAgentSvc,
		JobDemands: jobDemandSvc,
	})

	httpServer := server.New(cfg.Server.ListenAddr, router)

	zapLogger.Info("HTTP server listening", zap.String("address", cfg.Server.ListenAddr))

	if err := httpServer.Run(ctx); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}
