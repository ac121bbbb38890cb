package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/jobdemand"
	"go.uber.org/zap"
)

// JobDemandHandler は求人案件のエンドポイントを提供します。
type JobDemandHandler struct {
	demands jobdemand.UseCase
	logger  *zap.Logger
}

// NewJobDemandHandler は JobDemandHandler を生成します。
func NewJobDemandHandler(demands jobdemand.UseCase, logger *zap.Logger) *JobDemandHandler {
	return &JobDemandHandler{demands: demands, logger: logger.With(zap.String("handler", "jobdemand"))}
}

type createJobDemandRequest struct {
	Title      string  `json:"title"`
	Country    string  `json:"country"`
	EmployerID *string `json:"employerId"`
	Quantity   int     `json:"quantity"`
}

type jobDemandResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Country    string    `json:"country"`
	EmployerID *string   `json:"employerId,omitempty"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toJobDemandResponse(d *jobdemand.JobDemand) jobDemandResponse {
	return jobDemandResponse{
		ID:         d.ID,
		Title:      d.Title,
		Country:    d.Country,
		EmployerID: d.EmployerID,
		Quantity:   d.Quantity,
		Status:     string(d.Status),
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// Create は求人案件を新規作成します。
func (h *JobDemandHandler) Create(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	var req createJobDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.demands.CreateJobDemand(c.Request.Context(), jobdemand.CreateJobDemandInput{
		CompanyID:  actor.CompanyID,
		ActorID:    actor.ID,
		Title:      req.Title,
		Country:    req.Country,
		EmployerID: req.EmployerID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, toJobDemandResponse(created))
}

// List はテナント内の求人案件一覧を返します。
func (h *JobDemandHandler) List(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	demands, err := h.demands.ListJobDemands(c.Request.Context(), jobdemand.ListJobDemandsInput{
		CompanyID: actor.CompanyID,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]jobDemandResponse, 0, len(demands))
	for _, d := range demands {
		responses = append(responses, toJobDemandResponse(d))
	}
	respondData(c, http.StatusOK, responses)
}
