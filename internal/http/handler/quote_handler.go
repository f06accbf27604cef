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

// QuoteHandler serves quote creation and history endpoints
type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService, logger: logger}
}

// Send godoc
// @Summary Send a quote
// @Description Sends a new quote on an IN_DISCUSSION job, or replaces the active quote on a QUOTE_SENT job.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.SendQuoteRequest true "Quote details and expected version"
// @Success 201 {object} domain.QuoteDTO "Created quote"
// @Failure 409 {object} domain.APIError "Invalid transition or version conflict"
// @Failure 422 {object} domain.APIError "Neither a breakdown nor a positive amount"
// @Security BearerAuth
// @Router /jobs/{id}/quotes [post]
func (h *QuoteHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req domain.SendQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.SendQuote(r.Context(), id, &req)
	if err != nil {
		h.logger.Warn("send quote failed", zap.Error(err), zap.String("job_id", id.String()))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapper.ToQuoteDTO(quote))
}

// List godoc
// @Summary List quotes
// @Description Returns a job's quote history, newest first, including superseded and rejected quotes.
// @Tags Quotes
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {array} domain.QuoteDTO "Quotes"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id}/quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	quotes, err := h.quoteService.ListQuotes(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToQuoteDTOs(quotes))
}
