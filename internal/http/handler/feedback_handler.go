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

// FeedbackHandler serves the job feedback endpoints
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	logger          *zap.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(feedbackService *service.FeedbackService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, logger: logger}
}

// Submit godoc
// @Summary Submit feedback
// @Description Records the customer's one-time rating of a completed job.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.SubmitFeedbackRequest true "Rating and comment"
// @Success 201 {object} domain.FeedbackDTO "Created feedback"
// @Failure 409 {object} domain.APIError "Job not completed or feedback already submitted"
// @Security BearerAuth
// @Router /jobs/{id}/feedback [post]
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req domain.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(r.Context(), id, &req)
	if err != nil {
		h.logger.Warn("submit feedback failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapper.ToFeedbackDTO(feedback))
}

// Get godoc
// @Summary Get feedback
// @Description Returns the feedback left on a job, if any.
// @Tags Feedback
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.FeedbackDTO "Feedback"
// @Failure 404 {object} domain.APIError "No feedback on this job"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id}/feedback [get]
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	feedback, err := h.feedbackService.GetFeedback(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToFeedbackDTO(feedback))
}
