package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fixlane/marketplace-api/internal/domain"
)

// seqAttempts bounds the retries when concurrent writers race for the same
// per-job sequence number
const seqAttempts = 3

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateWithSeq assigns the next per-job sequence number and inserts the
// message in one transaction. The unique (job_id, seq) index turns a lost
// race into a constraint error instead of a duplicate sequence; a losing
// writer recomputes the sequence and retries. Each attempt runs in its own
// transaction (a savepoint when the caller owns one) so a rejected insert
// does not poison the caller's transaction.
func (r *MessageRepository) CreateWithSeq(ctx context.Context, tx *gorm.DB, message *domain.Message) error {
	db := r.db
	if tx != nil {
		db = tx
	}

	run := func(tx *gorm.DB) error {
		seq, err := r.nextSeq(ctx, tx, message.JobID)
		if err != nil {
			return err
		}
		message.Seq = seq
		return tx.WithContext(ctx).Omit(clause.Associations).Create(message).Error
	}

	var err error
	for attempt := 0; attempt < seqAttempts; attempt++ {
		err = db.Transaction(run)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

func (r *MessageRepository) nextSeq(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (int64, error) {
	var maxSeq int64
	err := tx.WithContext(ctx).Model(&domain.Message{}).
		Where("job_id = ?", jobID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return maxSeq + 1, nil
}

// ListSince returns messages with seq greater than the cursor, oldest first
func (r *MessageRepository) ListSince(ctx context.Context, jobID uuid.UUID, since int64, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	query := r.db.WithContext(ctx).
		Preload("Sender").
		Where("job_id = ? AND seq > ?", jobID, since).
		Order("seq ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&messages).Error
	return messages, err
}

// LatestSeq returns the highest sequence number recorded for a job
func (r *MessageRepository) LatestSeq(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var maxSeq int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("job_id = ?", jobID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error
	return maxSeq, err
}

// CountByJob returns the number of messages on a job
func (r *MessageRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	return count, err
}
