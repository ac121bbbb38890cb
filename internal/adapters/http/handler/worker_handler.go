package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/worker"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// WorkerHandler はワーカーライフサイクルのエンドポイントを提供します。
type WorkerHandler struct {
	workers worker.UseCase
	logger  *zap.Logger
}

// NewWorkerHandler は WorkerHandler を生成します。
func NewWorkerHandler(workers worker.UseCase, logger *zap.Logger) *WorkerHandler {
	return &WorkerHandler{workers: workers, logger: logger.With(zap.String("handler", "worker"))}
}

type attachmentRequest struct {
	FileName  string `json:"fileName"`
	SizeBytes int64  `json:"sizeBytes"`
	FileURL   string `json:"fileUrl"`
	Category  string `json:"category"`
	Label     string `json:"label"`
}

type createWorkerRequest struct {
	PassportNumber string              `json:"passportNumber"`
	Name           string              `json:"name"`
	DOB            *string             `json:"dob"`
	Contact        string              `json:"contact"`
	Address        string              `json:"address"`
	Country        string              `json:"country"`
	Status         *string             `json:"status"`
	EmployerID     *string             `json:"employerId"`
	JobDemandID    *string             `json:"jobDemandId"`
	SubAgentID     *string             `json:"subAgentId"`
	Notes          *string             `json:"notes"`
	Documents      []attachmentRequest `json:"documents"`
}

type advanceStageRequest struct {
	Stage string `json:"stage"`
}

type employerSummaryResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type subAgentSummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type jobDemandSummaryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type workerResponse struct {
	ID             string                    `json:"id"`
	PassportNumber string                    `json:"passportNumber"`
	Name           string                    `json:"name"`
	DOB            *string                   `json:"dob"`
	Contact        string                    `json:"contact"`
	Address        string                    `json:"address"`
	Country        string                    `json:"country"`
	Status         string                    `json:"status"`
	CurrentStage   string                    `json:"currentStage"`
	StageTimeline  worker.Timeline           `json:"stageTimeline"`
	Documents      []worker.Document         `json:"documents"`
	Employer       *employerSummaryResponse  `json:"employer,omitempty"`
	SubAgent       *subAgentSummaryResponse  `json:"subAgent,omitempty"`
	JobDemand      *jobDemandSummaryResponse `json:"jobDemand,omitempty"`
	Notes          *string                   `json:"notes,omitempty"`
	CreatedBy      string                    `json:"createdBy"`
	AssignedTo     string                    `json:"assignedTo"`
	CreatedAt      time.Time                 `json:"createdAt"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
}

func toWorkerResponse(w *worker.Worker) workerResponse {
	resp := workerResponse{
		ID:             w.ID,
		PassportNumber: w.PassportNumber,
		Name:           w.Name,
		Contact:        w.Contact,
		Address:        w.Address,
		Country:        w.Country,
		Status:         string(w.Status),
		CurrentStage:   string(w.CurrentStage),
		StageTimeline:  w.StageTimeline,
		Documents:      w.Documents,
		Notes:          w.Notes,
		CreatedBy:      w.CreatedBy,
		AssignedTo:     w.AssignedTo,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}

	if w.DOB != nil {
		dob := w.DOB.Format(dateLayout)
		resp.DOB = &dob
	}
	if resp.Documents == nil {
		resp.Documents = []worker.Document{}
	}
	if w.Employer != nil {
		resp.Employer = &employerSummaryResponse{ID: w.Employer.ID, Name: w.Employer.Name, Country: w.Employer.Country}
	}
	if w.SubAgent != nil {
		resp.SubAgent = &subAgentSummaryResponse{ID: w.SubAgent.ID, Name: w.SubAgent.Name}
	}
	if w.JobDemand != nil {
		resp.JobDemand = &jobDemandSummaryResponse{ID: w.JobDemand.ID, Title: w.JobDemand.Title}
	}

	return resp
}

func toWorkerListResponse(workers []*worker.Worker) []workerResponse {
	responses := make([]workerResponse, 0, len(workers))
	for _, w := range workers {
		responses = append(responses, toWorkerResponse(w))
	}
	return responses
}

// Create はワーカーを新規登録します。
func (h *WorkerHandler) Create(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	var req createWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	dob, err := parseOptionalDate(req.DOB)
	if err != nil {
		respondError(c, http.StatusBadRequest, "dob must be a date in YYYY-MM-DD format")
		return
	}

	in := worker.CreateWorkerInput{
		Actor:          actor,
		PassportNumber: req.PassportNumber,
		Name:           req.Name,
		DOB:            dob,
		Contact:        req.Contact,
		Address:        req.Address,
		Country:        req.Country,
		EmployerID:     req.EmployerID,
		JobDemandID:    req.JobDemandID,
		SubAgentID:     req.SubAgentID,
		Notes:          req.Notes,
	}
	if req.Status != nil {
		status := worker.Status(*req.Status)
		in.Status = &status
	}
	for _, a := range req.Documents {
		in.Attachments = append(in.Attachments, worker.Attachment{
			FileName:  a.FileName,
			SizeBytes: a.SizeBytes,
			FileURL:   a.FileURL,
			Category:  a.Category,
			Label:     a.Label,
		})
	}

	created, err := h.workers.CreateWorker(c.Request.Context(), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, toWorkerResponse(created))
}

// List はテナント内のワーカー一覧を返します。status / stage で絞り込めます。
func (h *WorkerHandler) List(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	in := worker.ListWorkersInput{Actor: actor}
	if raw := c.Query("status"); raw != "" {
		status := worker.Status(raw)
		in.Status = &status
	}
	if raw := c.Query("stage"); raw != "" {
		stage := raw
		in.Stage = &stage
	}

	workers, err := h.workers.ListWorkers(c.Request.Context(), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, toWorkerListResponse(workers))
}

// Get はテナント内のワーカーを 1 件返します。
func (h *WorkerHandler) Get(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	found, err := h.workers.GetWorker(c.Request.Context(), worker.GetWorkerInput{
		Actor: actor,
		ID:    c.Param("id"),
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, toWorkerResponse(found))
}

// Update は段階以外の属性を部分更新します。
// リクエストボディに現れたキーのみを更新対象とします。null は未設定化を意味します。
func (h *WorkerHandler) Update(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in := worker.UpdateWorkerInput{Actor: actor, ID: c.Param("id")}

	if value, ok := raw["name"]; ok {
		if in.Name, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "name must be a string")
			return
		}
	}
	if value, ok := raw["dob"]; ok {
		text, valid := decodeOptionalString(value)
		if !valid {
			respondError(c, http.StatusBadRequest, "dob must be a date in YYYY-MM-DD format")
			return
		}
		dob, err := parseOptionalDate(text)
		if err != nil {
			respondError(c, http.StatusBadRequest, "dob must be a date in YYYY-MM-DD format")
			return
		}
		in.DOB = dob
		in.DOBSet = true
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
	if value, ok := raw["country"]; ok {
		if in.Country, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "country must be a string")
			return
		}
	}
	if value, ok := raw["status"]; ok {
		text, valid := decodeOptionalString(value)
		if !valid {
			respondError(c, http.StatusBadRequest, "status must be a string")
			return
		}
		if text != nil {
			status := worker.Status(*text)
			in.Status = &status
		}
	}
	if value, ok := raw["employerId"]; ok {
		if in.EmployerID, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "employerId must be a string")
			return
		}
		in.EmployerIDSet = true
	}
	if value, ok := raw["jobDemandId"]; ok {
		if in.JobDemandID, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "jobDemandId must be a string")
			return
		}
		in.JobDemandIDSet = true
	}
	if value, ok := raw["subAgentId"]; ok {
		if in.SubAgentID, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "subAgentId must be a string")
			return
		}
		in.SubAgentIDSet = true
	}
	if value, ok := raw["notes"]; ok {
		if in.Notes, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "notes must be a string")
			return
		}
		in.NotesSet = true
	}
	if value, ok := raw["assignedTo"]; ok {
		if in.AssignedTo, ok = decodeOptionalString(value); !ok {
			respondError(c, http.StatusBadRequest, "assignedTo must be a string")
			return
		}
	}

	updated, err := h.workers.UpdateWorker(c.Request.Context(), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, toWorkerResponse(updated))
}

// AdvanceStage はワーカーを次の募集段階へ遷移させます。
func (h *WorkerHandler) AdvanceStage(c *gin.Context) {
	actor, ok := tenantActor(c)
	if !ok {
		return
	}

	var req advanceStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	advanced, err := h.workers.AdvanceStage(c.Request.Context(), worker.AdvanceStageInput{
		Actor:       actor,
		ID:          c.Param("id"),
		TargetStage: req.Stage,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, toWorkerResponse(advanced))
}

func decodeOptionalString(raw json.RawMessage) (*string, bool) {
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false
	}
	return value, true
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
