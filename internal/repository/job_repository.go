package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fixlane/marketplace-api/internal/domain"
)

// JobFilters contains all filter options for listing jobs
type JobFilters struct {
	Status        *domain.JobStatus
	Category      *domain.JobCategory
	Priority      *domain.JobPriority
	CustomerID    *uuid.UUID
	VendorID      *uuid.UUID
	IsEmergency   *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SearchQuery   *string
}

// jobSortFields whitelists API sort fields to columns
var jobSortFields = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"requestedDate": "requested_date",
	"priority":      "priority",
	"status":        "status",
	"totalAmount":   "total_amount",
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	// Omit associations to avoid GORM trying to validate related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vendor").
		Where("id = ?", id)
	query = ApplyActorScope(ctx, query)
	if err := query.First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) GetByJobNumber(ctx context.Context, jobNumber string) (*domain.Job, error) {
	var job domain.Job
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vendor").
		Where("job_number = ?", jobNumber)
	query = ApplyActorScope(ctx, query)
	if err := query.First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) List(ctx context.Context, page, pageSize int, filters *JobFilters, sort SortConfig) ([]domain.Job, int64, error) {
	var jobs []domain.Job
	var total int64

	page, pageSize = NormalizePage(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Job{}).
		Preload("Customer").
		Preload("Vendor")
	query = ApplyActorScope(ctx, query)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(BuildOrderClause(sort, jobSortFields, "created_at"))

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&jobs).Error

	return jobs, total, err
}

// CountByStatus returns job counts grouped by status for dashboard summaries
func (r *JobRepository) CountByStatus(ctx context.Context) (map[domain.JobStatus]int64, error) {
	type row struct {
		Status domain.JobStatus
		Count  int64
	}
	var rows []row

	query := r.db.WithContext(ctx).Model(&domain.Job{}).
		Select("status, COUNT(*) as count").
		Group("status")
	query = ApplyActorScope(ctx, query)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.JobStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// UpdateWithVersion applies updates to a job only when its stored version
// still equals expectedVersion, bumping the version in the same statement.
// Returns the number of rows affected; zero means the precondition failed.
// Pass tx to run inside an existing transaction.
func (r *JobRepository) UpdateWithVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, expectedVersion int, updates map[string]interface{}) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	updates["version"] = expectedVersion + 1
	result := db.WithContext(ctx).Model(&domain.Job{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Exists reports whether a job with the given id exists, ignoring actor scope
func (r *JobRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *JobRepository) applyFilters(query *gorm.DB, filters *JobFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.VendorID != nil {
		query = query.Where("vendor_id = ?", *filters.VendorID)
	}
	if filters.IsEmergency != nil {
		query = query.Where("is_emergency = ?", *filters.IsEmergency)
	}
	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}
	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		like := "%" + *filters.SearchQuery + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR job_number LIKE ?", like, like, like)
	}
	return query
}
