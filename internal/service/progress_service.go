package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
)

// ProgressService exposes the read side of the work log. Writes go through
// the lifecycle service so the stage ordering rules stay in one place.
type ProgressService struct {
	jobRepo      *repository.JobRepository
	progressRepo *repository.ProgressRepository
}

// NewProgressService creates a new ProgressService
func NewProgressService(jobRepo *repository.JobRepository, progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{jobRepo: jobRepo, progressRepo: progressRepo}
}

// ListProgress returns a job's progress history in chronological order
// together with its current stage.
func (s *ProgressService) ListProgress(ctx context.Context, jobID uuid.UUID) ([]domain.ProgressUpdate, *domain.ProgressStage, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to load job: %w", err)
	}

	updates, err := s.progressRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list progress updates: %w", err)
	}
	return updates, job.CurrentStage, nil
}
