package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixlane/marketplace-api/internal/mapper"
	"github.com/fixlane/marketplace-api/internal/service"
)

// NotificationHandler serves the caller's notification inbox
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, logger: logger}
}

// notificationListResponse wraps the inbox with its unread count
type notificationListResponse struct {
	Notifications interface{} `json:"notifications"`
	UnreadCount   int64       `json:"unreadCount"`
}

// List godoc
// @Summary List notifications
// @Description Returns the caller's notifications, newest first.
// @Tags Notifications
// @Produce json
// @Param unreadOnly query bool false "Return only unread notifications"
// @Param limit query int false "Maximum notifications to return"
// @Success 200 {object} notificationListResponse "Notifications"
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, unread, err := h.notificationService.ListNotifications(r.Context(), unreadOnly, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, notificationListResponse{
		Notifications: mapper.ToNotificationDTOs(notifications),
		UnreadCount:   unread,
	})
}

// MarkRead godoc
// @Summary Mark a notification read
// @Description Marks one of the caller's notifications as read.
// @Tags Notifications
// @Param id path string true "Notification ID"
// @Success 204 "Marked read"
// @Failure 404 {object} domain.APIError "Notification not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
