package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/mapper"
	"github.com/fixlane/marketplace-api/internal/service"
)

// JobLifecycleHandler serves the status transition endpoints. Every request
// body carries the caller's expected job version; a stale version gets a
// conflict response and changes nothing.
type JobLifecycleHandler struct {
	lifecycleService *service.JobLifecycleService
	logger           *zap.Logger
}

// NewJobLifecycleHandler creates a new JobLifecycleHandler
func NewJobLifecycleHandler(lifecycleService *service.JobLifecycleService, logger *zap.Logger) *JobLifecycleHandler {
	return &JobLifecycleHandler{lifecycleService: lifecycleService, logger: logger}
}

func (h *JobLifecycleHandler) jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return uuid.Nil, false
	}
	return id, true
}

// Assign godoc
// @Summary Assign a vendor
// @Description Moves a PENDING job to ASSIGNED and sets the vendor. Admin only.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.AssignVendorRequest true "Vendor and expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id}/assign [post]
func (h *JobLifecycleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req domain.AssignVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid vendor ID")
		return
	}

	job, err := h.lifecycleService.AssignVendor(r.Context(), id, vendorID, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("assign vendor failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// Unassign godoc
// @Summary Unassign the vendor
// @Description Returns an ASSIGNED job to PENDING and clears the vendor. Admin only.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.UnassignVendorRequest true "Reason and expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id}/unassign [post]
func (h *JobLifecycleHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req domain.UnassignVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.lifecycleService.UnassignVendor(r.Context(), id, req.Reason, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("unassign vendor failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// Respond godoc
// @Summary Respond to an assignment
// @Description Vendor accepts (to IN_DISCUSSION) or declines (to REJECTED) an assignment.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.RespondToAssignmentRequest true "Response and expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Security BearerAuth
// @Router /jobs/{id}/respond [post]
func (h *JobLifecycleHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req domain.RespondToAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.lifecycleService.RespondToAssignment(r.Context(), id, req.Accept, req.Reason, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("assignment response failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// AcceptQuote godoc
// @Summary Accept the active quote
// @Description Moves a QUOTE_SENT job to QUOTE_ACCEPTED. The quote must be the active one and within its validity window.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param quoteId path string true "Quote ID"
// @Param request body domain.QuoteDecisionRequest true "Expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Failure 410 {object} domain.APIError "Quote superseded or expired"
// @Security BearerAuth
// @Router /jobs/{id}/quotes/{quoteId}/accept [post]
func (h *JobLifecycleHandler) AcceptQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	quoteID, err := uuid.Parse(chi.URLParam(r, "quoteId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	var req domain.QuoteDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.lifecycleService.AcceptQuote(r.Context(), id, quoteID, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("quote accept failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// RejectQuote godoc
// @Summary Reject the active quote
// @Description Returns a QUOTE_SENT job to IN_DISCUSSION and records the rejection on the quote.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param quoteId path string true "Quote ID"
// @Param request body domain.QuoteDecisionRequest true "Reason and expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Failure 410 {object} domain.APIError "Quote superseded or expired"
// @Security BearerAuth
// @Router /jobs/{id}/quotes/{quoteId}/reject [post]
func (h *JobLifecycleHandler) RejectQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	quoteID, err := uuid.Parse(chi.URLParam(r, "quoteId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	var req domain.QuoteDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.lifecycleService.RejectQuote(r.Context(), id, quoteID, req.Reason, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("quote reject failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// ConfirmPayment godoc
// @Summary Confirm payment
// @Description Payment collaborator callback. Moves QUOTE_ACCEPTED to PAID when the amount matches the quote exactly.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.ConfirmPaymentRequest true "Payment details and expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Failure 422 {object} domain.APIError "Amount does not match the quote"
// @Security ApiKeyAuth
// @Router /jobs/{id}/payment/confirm [post]
func (h *JobLifecycleHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req domain.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}
	quoteID, err := uuid.Parse(req.QuoteID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	job, err := h.lifecycleService.ConfirmPayment(r.Context(), id, quoteID, req.Amount, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("payment confirmation failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// StartWork godoc
// @Summary Start work
// @Description Moves a PAID job to IN_PROGRESS. Assigned vendor only.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.StartWorkRequest true "Expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Security BearerAuth
// @Router /jobs/{id}/start [post]
func (h *JobLifecycleHandler) StartWork(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req domain.StartWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.lifecycleService.StartWork(r.Context(), id, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("start work failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// PostProgress godoc
// @Summary Post a progress update
// @Description Appends a work-log entry. Stages may not regress; WORK_COMPLETED completes the job.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.PostProgressRequest true "Stage, description and expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Failure 422 {object} domain.APIError "Stage ranks below the current stage"
// @Security BearerAuth
// @Router /jobs/{id}/progress [post]
func (h *JobLifecycleHandler) PostProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req domain.PostProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.lifecycleService.PostProgress(r.Context(), id, domain.ProgressStage(req.Stage), req.Description, req.Images, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("progress update failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// Cancel godoc
// @Summary Cancel a job
// @Description Cancels a job that has not progressed past ASSIGNED. Customer or admin.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.CancelJobRequest true "Reason and expected version"
// @Success 200 {object} domain.JobDTO "Updated job"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Security BearerAuth
// @Router /jobs/{id}/cancel [post]
func (h *JobLifecycleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req domain.CancelJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.lifecycleService.Cancel(r.Context(), id, req.Reason, req.ExpectedVersion)
	if err != nil {
		h.logger.Warn("cancel failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}
