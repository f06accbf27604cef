package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fixlane/marketplace-api/internal/domain"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(quote).Error
}

// CreateWithItems inserts a quote together with its breakdown lines,
// inside the caller's transaction when one is given.
func (r *QuoteRepository) CreateWithItems(ctx context.Context, tx *gorm.DB, quote *domain.Quote) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// ListByJob returns a job's quote history, newest first
func (r *QuoteRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&quotes).Error
	return quotes, err
}

// UpdateStatus sets a quote's status and optional reject reason
func (r *QuoteRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.QuoteStatus, rejectReason string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	updates := map[string]interface{}{"status": status}
	if rejectReason != "" {
		updates["reject_reason"] = rejectReason
	}
	return db.WithContext(ctx).Model(&domain.Quote{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListExpiredPending returns pending quotes whose validity deadline passed
// before the cutoff. Used by the expiry sweep.
func (r *QuoteRepository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", domain.QuoteStatusPending, cutoff).
		Order("valid_until ASC").
		Limit(limit).
		Find(&quotes).Error
	return quotes, err
}
