package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/domain"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *FeedbackRepository) GetByJob(ctx context.Context, jobID uuid.UUID) (*domain.Feedback, error) {
	var feedback domain.Feedback
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ExistsForJob reports whether feedback has already been submitted for a job
func (r *FeedbackRepository) ExistsForJob(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Feedback{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	return count > 0, err
}
