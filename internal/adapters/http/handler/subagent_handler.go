package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/subagent"
	"go.uber.org/zap"
)

// SubAgentHandler はサブエージェントのエンドポイントを提供します。
type SubAgentHandler struct {
	subAgents subagent.UseCase
	logger    *zap.Logger
}

// NewSubAgentHandler は SubAgentHandler を生成します。
func NewSubAgentHandler(subAgents subagent.UseCase, logger *zap.Logger) *SubAgentHandler {
	return &SubAgentHandler{subAgents: subAgents, logger: logger.With(zap.String("handler", "subagent"))}
}

type createSubAgentRequest struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Contact string  `json:"contact"`
	Status  *string `json:"status"`
}

type subAgentResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Country             string    `json:"country"`
	Contact             string    `json:"contact"`
	Status              string    `json:"status"`
	TotalWorkersBrought int       `json:"totalWorkersBrought"`
	CreatedBy           string    `json:"createdBy"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func toSubAgentResponse(a *subagent.SubAgent) subAgentResponse {
	return subAgentResponse{
		ID:                  a.ID,
		Name:                a.Name,
		Country:             a.Country,
		Contact:             a.Contact,
		Status:              string(a.Status),
		TotalWorkersBrought: a.TotalWorkersBrought,
		CreatedBy:           a.CreatedBy,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// Create はサブエージェントを新規作成します。
func (h *SubAgentHandler) Create(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	var req createSubAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in := subagent.CreateSubAgentInput{
		CompanyID: actor.CompanyID,
		ActorID:   actor.ID,
		Name:      req.Name,
		Country:   req.Country,
		Contact:   req.Contact,
	}
	if req.Status != nil {
		status := subagent.Status(*req.Status)
		in.Status = &status
	}

	created, err := h.subAgents.CreateSubAgent(c.Request.Context(), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, toSubAgentResponse(created))
}

// List はテナント内のサブエージェント一覧を返します。
func (h *SubAgentHandler) List(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	agents, err := h.subAgents.ListSubAgents(c.Request.Context(), subagent.ListSubAgentsInput{
		CompanyID: actor.CompanyID,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]subAgentResponse, 0, len(agents))
	for _, a := range agents {
		responses = append(responses, toSubAgentResponse(a))
	}
	respondData(c, http.StatusOK, responses)
}
