package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
)

// MessageService handles the per-job chat log. Messages are append-only and
// remain writable on terminal jobs so post-completion conversation is kept
// in the audit trail.
type MessageService struct {
	jobRepo     *repository.JobRepository
	quoteRepo   *repository.QuoteRepository
	messageRepo *repository.MessageRepository
	logger      *zap.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	jobRepo *repository.JobRepository,
	quoteRepo *repository.QuoteRepository,
	messageRepo *repository.MessageRepository,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		jobRepo:     jobRepo,
		quoteRepo:   quoteRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// PostMessage appends a chat message to a job. SYSTEM messages cannot be
// posted here; they only come from lifecycle transitions.
func (s *MessageService) PostMessage(ctx context.Context, jobID uuid.UUID, req *domain.PostMessageRequest) (*domain.Message, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	if !s.isParticipant(user, job) {
		return nil, ErrPermissionDenied
	}

	msgType := domain.MessageType(req.Type)
	msg := &domain.Message{
		JobID:      job.ID,
		Type:       msgType,
		Priority:   domain.MessagePriorityNormal,
		SenderRole: s.senderRole(user),
	}
	senderID := user.UserID
	if senderID != uuid.Nil {
		msg.SenderID = &senderID
	}
	if req.Priority != "" {
		msg.Priority = domain.MessagePriority(req.Priority)
	}

	switch msgType {
	case domain.MessageTypeText:
		if strings.TrimSpace(req.Content) == "" {
			return nil, fmt.Errorf("%w: text messages require content", ErrInvalidInput)
		}
		msg.Content = req.Content
	case domain.MessageTypeQuote:
		if req.QuoteID == "" {
			return nil, fmt.Errorf("%w: quote messages require a quote reference", ErrInvalidInput)
		}
		quoteID, err := uuid.Parse(req.QuoteID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid quote reference", ErrInvalidInput)
		}
		quote, err := s.quoteRepo.GetByID(ctx, quoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: quote not found", ErrInvalidInput)
			}
			return nil, fmt.Errorf("failed to load quote: %w", err)
		}
		if quote.JobID != job.ID {
			return nil, fmt.Errorf("%w: quote belongs to a different job", ErrInvalidInput)
		}
		msg.QuoteID = &quote.ID
		msg.Content = req.Content
	case domain.MessageTypeContactInfo:
		if strings.TrimSpace(req.ContactPayload) == "" {
			return nil, fmt.Errorf("%w: contact messages require a payload", ErrInvalidInput)
		}
		msg.ContactPayload = req.ContactPayload
		msg.Content = req.Content
	default:
		return nil, fmt.Errorf("%w: unsupported message type %q", ErrInvalidInput, req.Type)
	}

	if err := s.messageRepo.CreateWithSeq(ctx, nil, msg); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: concurrent writers contended for the message sequence, retry", ErrVersionConflict)
		}
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.logger.Debug("message posted",
		zap.String("job_id", job.ID.String()),
		zap.Int64("seq", msg.Seq),
		zap.String("type", string(msg.Type)),
	)
	return msg, nil
}

// ListMessages returns messages after the since cursor in sequence order,
// together with the job's latest sequence for the next poll.
func (s *MessageService) ListMessages(ctx context.Context, jobID uuid.UUID, since int64, limit int) ([]domain.Message, int64, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, 0, ErrUnauthorized
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to load job: %w", err)
	}
	if !s.isParticipant(user, job) {
		return nil, 0, ErrPermissionDenied
	}
	if since < 0 {
		since = 0
	}

	messages, err := s.messageRepo.ListSince(ctx, jobID, since, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	latest, err := s.messageRepo.LatestSeq(ctx, jobID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read latest sequence: %w", err)
	}
	return messages, latest, nil
}

// isParticipant reports whether the caller may see or post on the job's chat
func (s *MessageService) isParticipant(user *auth.UserContext, job *domain.Job) bool {
	if user.IsAdmin() {
		return true
	}
	if user.HasRole(domain.RoleCustomer) && job.CustomerID == user.UserID {
		return true
	}
	if user.HasRole(domain.RoleVendor) && job.VendorID != nil && *job.VendorID == user.UserID {
		return true
	}
	return false
}

func (s *MessageService) senderRole(user *auth.UserContext) domain.UserRoleType {
	switch {
	case user.HasRole(domain.RoleCustomer):
		return domain.RoleCustomer
	case user.HasRole(domain.RoleVendor):
		return domain.RoleVendor
	case user.HasRole(domain.RoleAdmin):
		return domain.RoleAdmin
	default:
		return domain.RoleAPIService
	}
}
