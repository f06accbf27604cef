package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
)

// FeedbackService handles the customer's one-time rating of a finished job
type FeedbackService struct {
	jobRepo      *repository.JobRepository
	feedbackRepo *repository.FeedbackRepository
	logger       *zap.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(jobRepo *repository.JobRepository, feedbackRepo *repository.FeedbackRepository, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{jobRepo: jobRepo, feedbackRepo: feedbackRepo, logger: logger}
}

// SubmitFeedback records the customer's rating. Allowed once per job, by
// the job's customer, after the work is reported complete.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, jobID uuid.UUID, req *domain.SubmitFeedbackRequest) (*domain.Feedback, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleCustomer, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if user.HasRole(domain.RoleCustomer) && job.CustomerID != user.UserID {
		return nil, ErrPermissionDenied
	}

	workDone := job.Status == domain.JobStatusCompleted ||
		(job.CurrentStage != nil && job.CurrentStage.Rank() >= domain.StageWorkCompleted.Rank())
	if !workDone {
		return nil, fmt.Errorf("%w: job %s is not completed", ErrFeedbackNotAllowed, job.JobNumber)
	}

	exists, err := s.feedbackRepo.ExistsForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to check feedback: %w", err)
	}
	if exists {
		return nil, ErrFeedbackExists
	}

	feedback := &domain.Feedback{
		JobID:      job.ID,
		CustomerID: job.CustomerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	s.logger.Info("feedback submitted",
		zap.String("job_id", job.ID.String()),
		zap.Int("rating", feedback.Rating),
	)
	return feedback, nil
}

// GetFeedback returns the feedback left on a job, if any
func (s *FeedbackService) GetFeedback(ctx context.Context, jobID uuid.UUID) (*domain.Feedback, error) {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	feedback, err := s.feedbackRepo.GetByJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	return feedback, nil
}
