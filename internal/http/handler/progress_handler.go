package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/mapper"
	"github.com/fixlane/marketplace-api/internal/service"
)

// ProgressHandler serves the work-log read endpoint. Writes go through the
// lifecycle handler.
type ProgressHandler struct {
	progressService *service.ProgressService
	logger          *zap.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progressService *service.ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, logger: logger}
}

// List godoc
// @Summary List progress updates
// @Description Returns a job's progress history in chronological order together with its current stage.
// @Tags Progress
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.ProgressListResponse "Progress history"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id}/progress [get]
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	updates, currentStage, err := h.progressService.ListProgress(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := domain.ProgressListResponse{
		Updates: mapper.ToProgressUpdateDTOs(updates),
	}
	if currentStage != nil {
		resp.CurrentStage = string(*currentStage)
	}
	respondJSON(w, http.StatusOK, resp)
}
