package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/employer"
	"go.uber.org/zap"
)

// EmployerHandler は雇用主のエンドポイントを提供します。
type EmployerHandler struct {
	employers employer.UseCase
	logger    *zap.Logger
}

// NewEmployerHandler は EmployerHandler を生成します。
func NewEmployerHandler(employers employer.UseCase, logger *zap.Logger) *EmployerHandler {
	return &EmployerHandler{employers: employers, logger: logger.With(zap.String("handler", "employer"))}
}

type createEmployerRequest struct {
	EmployerName string  `json:"employerName"`
	Country      string  `json:"country"`
	Contact      string  `json:"contact"`
	Address      string  `json:"address"`
	Notes        *string `json:"notes"`
}

type employerResponse struct {
	ID           string    `json:"id"`
	EmployerName string    `json:"employerName"`
	Country      string    `json:"country"`
	Contact      string    `json:"contact"`
	Address      string    `json:"address"`
	Notes        *string   `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toEmployerResponse(e *employer.Employer) employerResponse {
	return employerResponse{
		ID:           e.ID,
		EmployerName: e.EmployerName,
		Country:      e.Country,
		Contact:      e.Contact,
		Address:      e.Address,
		Notes:        e.Notes,
		Status:       string(e.Status),
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// Create は雇用主を新規作成します。
func (h *EmployerHandler) Create(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	var req createEmployerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.employers.CreateEmployer(c.Request.Context(), employer.CreateEmployerInput{
		CompanyID:    actor.CompanyID,
		ActorID:      actor.ID,
		EmployerName: req.EmployerName,
		Country:      req.Country,
		Contact:      req.Contact,
		Address:      req.Address,
		Notes:        req.Notes,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, toEmployerResponse(created))
}

// List はテナント内の雇用主一覧を返します。
func (h *EmployerHandler) List(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	employers, err := h.employers.ListEmployers(c.Request.Context(), employer.ListEmployersInput{
		CompanyID: actor.CompanyID,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]employerResponse, 0, len(employers))
	for _, e := range employers {
		responses = append(responses, toEmployerResponse(e))
	}
	respondData(c, http.StatusOK, responses)
}

// Update は雇用主情報を部分更新します。リクエストボディに現れたキーのみを更新します。
func (h *EmployerHandler) Update(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in := employer.UpdateEmployerInput{CompanyID: actor.CompanyID, ID: c.Param("id")}

	if value, ok := raw["employerName"]; ok {
		if in.EmployerName, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "employerName must be a string")
			return
		}
	}
	if value, ok := raw["country"]; ok {
		if in.Country, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "country must be a string")
			return
		}
	}
	if value, ok := raw["contact"]; ok {
		if in.Contact, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "contact must be a string")
			return
		}
	}
	if value, ok := raw["address"]; ok {
		if in.Address, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "address must be a string")
			return
		}
	}
	if value, ok := raw["notes"]; ok {
		if in.Notes, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "notes must be a string")
			return
		}
		in.NotesSet = true
	}
	if value, ok := raw["status"]; ok {
		text, valid := decodeOptionalString(value)
		if !valid {
			respondError(c, http.StatusBadRequest, "status must be a string")
			return
		}
		if text != nil {
			status := employer.Status(*text)
			in.Status = &status
		}
	}

	updated, err := h.employers.UpdateEmployer(c.Request.Context(), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, toEmployerResponse(updated))
}

// Delete は雇用主を削除します。
func (h *EmployerHandler) Delete(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	if err := h.employers.DeleteEmployer(c.Request.Context(), employer.DeleteEmployerInput{
		CompanyID: actor.CompanyID,
		ID:        c.Param("id"),
	}); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusOK, "employer deleted")
}
