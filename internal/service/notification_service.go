package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
)

// NotificationService serves each user's notification inbox
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListNotifications returns the caller's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, int64, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, 0, ErrUnauthorized
	}

	notifications, err := s.notificationRepo.ListByUser(ctx, user.UserID, unreadOnly, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.notificationRepo.CountUnread(ctx, user.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return notifications, unread, nil
}

// MarkRead marks one of the caller's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	rows, err := s.notificationRepo.MarkRead(ctx, user.UserID, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
