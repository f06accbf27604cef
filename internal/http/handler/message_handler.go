package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/mapper"
	"github.com/fixlane/marketplace-api/internal/service"
)

// MessageHandler serves the per-job chat endpoints
type MessageHandler struct {
	messageService *service.MessageService
	logger         *zap.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, logger: logger}
}

// Post godoc
// @Summary Post a message
// @Description Appends a chat message to the job. SYSTEM messages cannot be posted through this endpoint.
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.PostMessageRequest true "Message"
// @Success 201 {object} domain.MessageDTO "Created message"
// @Failure 400 {object} domain.APIError "Missing content or payload for the message type"
// @Security BearerAuth
// @Router /jobs/{id}/messages [post]
func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req domain.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	msg, err := h.messageService.PostMessage(r.Context(), id, &req)
	if err != nil {
		h.logger.Warn("post message failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapper.ToMessageDTO(msg))
}

// List godoc
// @Summary List messages
// @Description Returns messages after the since cursor in sequence order, with the job's latest sequence.
// @Tags Messages
// @Produce json
// @Param id path string true "Job ID"
// @Param since query int false "Return messages with seq greater than this (default 0)"
// @Param limit query int false "Maximum messages to return"
// @Success 200 {object} domain.MessageListResponse "Messages"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id}/messages [get]
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, latest, err := h.messageService.ListMessages(r.Context(), id, since, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.MessageListResponse{
		Messages:  mapper.ToMessageDTOs(messages),
		LatestSeq: latest,
	})
}
