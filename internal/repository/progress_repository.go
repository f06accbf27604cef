package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fixlane/marketplace-api/internal/domain"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Create(ctx context.Context, tx *gorm.DB, update *domain.ProgressUpdate) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(update).Error
}

// ListByJob returns a job's progress history, oldest first
func (r *ProgressRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.ProgressUpdate, error) {
	var updates []domain.ProgressUpdate
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&updates).Error
	return updates, err
}

// HighestStage returns the highest-ranked stage recorded for a job, or ""
// when no updates exist. The job's currentStage column is authoritative in
// normal operation; this exists for reconciliation.
func (r *ProgressRepository) HighestStage(ctx context.Context, jobID uuid.UUID) (domain.ProgressStage, error) {
	var updates []domain.ProgressUpdate
	err := r.db.WithContext(ctx).
		Select("stage").
		Where("job_id = ?", jobID).
		Find(&updates).Error
	if err != nil {
		return "", err
	}

	var highest domain.ProgressStage
	for _, u := range updates {
		if u.Stage.Rank() > highest.Rank() {
			highest = u.Stage
		}
	}
	return highest, nil
}
