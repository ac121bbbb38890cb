package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/manpower-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/company"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/employer"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/identity"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/jobdemand"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/subagent"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/worker"
	"go.uber.org/zap"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondDomainError はドメインエラーを HTTP ステータスへ写像します。
// 分類不能なエラーは詳細を伏せた 500 になります。
func respondDomainError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case isUnauthorized(err):
		respondError(c, http.StatusUnauthorized, err.Error())
	case isNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	case isConflict(err):
		respondError(c, http.StatusConflict, err.Error())
	case isValidation(err):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, identity.ErrInvalidToken) ||
		errors.Is(err, identity.ErrInvalidCredentials) ||
		errors.Is(err, worker.ErrInvalidActor)
}

func isNotFound(err error) bool {
	return errors.Is(err, worker.ErrWorkerNotFound) ||
		errors.Is(err, employer.ErrEmployerNotFound) ||
		errors.Is(err, subagent.ErrSubAgentNotFound) ||
		errors.Is(err, jobdemand.ErrJobDemandNotFound) ||
		errors.Is(err, company.ErrCompanyNotFound) ||
		errors.Is(err, identity.ErrUserNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, worker.ErrPassportAlreadyRegistered) ||
		errors.Is(err, worker.ErrInvalidTransition) ||
		errors.Is(err, worker.ErrStageConflict) ||
		errors.Is(err, identity.ErrEmailAlreadyExists) ||
		errors.Is(err, company.ErrNameAlreadyExists)
}

func isValidation(err error) bool {
	validation := []error{
		worker.ErrInvalidID,
		worker.ErrInvalidPassportNumber,
		worker.ErrInvalidName,
		worker.ErrInvalidCountry,
		worker.ErrInvalidStatus,
		worker.ErrInvalidStage,
		worker.ErrInvalidTimeline,
		worker.ErrInvalidReference,
		identity.ErrInvalidEmail,
		identity.ErrInvalidFullName,
		identity.ErrInvalidPassword,
		identity.ErrInvalidRole,
		identity.ErrInvalidCompanyName,
		identity.ErrCompanyRequired,
		company.ErrInvalidName,
		company.ErrInvalidID,
		employer.ErrInvalidID,
		employer.ErrInvalidCompanyID,
		employer.ErrInvalidActorID,
		employer.ErrInvalidName,
		employer.ErrInvalidCountry,
		employer.ErrInvalidContact,
		employer.ErrInvalidAddress,
		employer.ErrInvalidStatus,
		subagent.ErrInvalidCompanyID,
		subagent.ErrInvalidActorID,
		subagent.ErrInvalidName,
		subagent.ErrInvalidCountry,
		subagent.ErrInvalidContact,
		subagent.ErrInvalidStatus,
		jobdemand.ErrInvalidCompanyID,
		jobdemand.ErrInvalidActorID,
		jobdemand.ErrInvalidTitle,
		jobdemand.ErrInvalidCountry,
		jobdemand.ErrInvalidQuantity,
		jobdemand.ErrInvalidReference,
	}
	for _, target := range validation {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// tenantActor は認証済みの操作主体からテナント必須の Actor を取り出します。
// テナントを持たない操作主体 (super_admin) はテナント境界内の資源を扱えません。
func tenantActor(c *gin.Context) (worker.Actor, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return worker.Actor{}, false
	}
	if id.CompanyID == nil {
		respondError(c, http.StatusForbidden, "a tenant context is required for this operation")
		return worker.Actor{}, false
	}
	return worker.Actor{ID: id.ActorID, CompanyID: *id.CompanyID}, true
}
