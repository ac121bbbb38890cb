package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/manpower-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/employer"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/identity"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/jobdemand"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/subagent"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/worker"
	"go.uber.org/zap"
)

// RouterDeps はルーター構築に必要な依存の束です。
type RouterDeps struct {
	Logger     *zap.Logger
	Verifier   identity.TokenVerifier
	Auth       identity.UseCase
	Workers    worker.UseCase
	Employers  employer.UseCase
	SubAgents  subagent.UseCase
	JobDemands jobdemand.UseCase
}

// NewRouter はすべてのエンドポイントを配線した gin.Engine を返します。
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.Recovery(deps.Logger))
	engine.Use(middleware.RequestLogger(deps.Logger))

	authMiddleware := middleware.NewAuthMiddleware(deps.Verifier)

	authHandler := NewAuthHandler(deps.Auth, deps.Logger)
	workerHandler := NewWorkerHandler(deps.Workers, deps.Logger)
	employerHandler := NewEmployerHandler(deps.Employers, deps.Logger)
	subAgentHandler := NewSubAgentHandler(deps.SubAgents, deps.Logger)
	jobDemandHandler := NewJobDemandHandler(deps.JobDemands, deps.Logger)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})

	api := engine.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authorized := api.Group("")
	authorized.Use(authMiddleware.Authenticate())
	{
		authorized.POST("/auth/register/employee",
			authMiddleware.RequireRoles(identity.RoleAdmin, identity.RoleSuperAdmin),
			authHandler.RegisterEmployee,
		)

		authorized.GET("/workers", workerHandler.List)
		authorized.POST("/workers", workerHandler.Create)
		authorized.GET("/workers/:id", workerHandler.Get)
		authorized.PUT("/workers/:id", workerHandler.Update)
		authorized.POST("/workers/:id/advance-stage", workerHandler.AdvanceStage)

		authorized.GET("/employers", employerHandler.List)
		authorized.POST("/employers", employerHandler.Create)
		authorized.PUT("/employers/:id", employerHandler.Update)
		authorized.DELETE("/employers/:id",
			authMiddleware.RequireRoles(identity.RoleAdmin, identity.RoleSuperAdmin),
			employerHandler.Delete,
		)

		authorized.GET("/sub-agents", subAgentHandler.List)
		authorized.POST("/sub-agents", subAgentHandler.Create)

		authorized.GET("/job-demands", jobDemandHandler.List)
		authorized.POST("/job-demands", jobDemandHandler.Create)
	}

	return engine
}
