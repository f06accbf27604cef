package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
)

// jobNumberCharset is the alphabet for the job number suffix
const jobNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// JobService handles job creation and read models. Status transitions live
// in JobLifecycleService.
type JobService struct {
	jobRepo  *repository.JobRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo *repository.JobRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// GenerateJobNumber builds a human-readable job number:
// "JOB" + 13-digit millisecond timestamp + 4 random uppercase alphanumerics.
func GenerateJobNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = jobNumberCharset[rand.IntN(len(jobNumberCharset))]
	}
	return fmt.Sprintf("JOB%013d%s", time.Now().UnixMilli(), suffix)
}

// CreateJob creates a new job in PENDING for the calling customer.
// The job number is generated here and never changes.
func (s *JobService) CreateJob(ctx context.Context, req *domain.CreateJobRequest) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleCustomer, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	category := domain.JobCategory(req.Category)
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
	}

	priority := domain.JobPriorityMedium
	if req.Priority != "" {
		priority = domain.JobPriority(req.Priority)
		if !priority.IsValid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
		}
	}
	if req.IsEmergency {
		priority = domain.JobPriorityEmergency
	}

	var requestedDate *time.Time
	if req.RequestedDate != "" {
		parsed, err := time.Parse("2006-01-02", req.RequestedDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid requestedDate", ErrInvalidInput)
		}
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if parsed.Before(today) {
			return nil, fmt.Errorf("%w: requestedDate must not be in the past", ErrInvalidInput)
		}
		requestedDate = &parsed
	}

	job := &domain.Job{
		JobNumber:           GenerateJobNumber(),
		Title:               req.Title,
		Description:         req.Description,
		Category:            category,
		Priority:            priority,
		Status:              domain.JobStatusPending,
		IsEmergency:         req.IsEmergency,
		Street:              req.Street,
		City:                req.City,
		PostalCode:          req.PostalCode,
		Country:             req.Country,
		RequestedDate:       requestedDate,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		EstimatedDuration:   req.EstimatedDuration,
		EstimatedBudget:     req.EstimatedBudget,
		SpecialInstructions: req.SpecialInstructions,
		AccessInstructions:  req.AccessInstructions,
		ContactNumber:       req.ContactNumber,
		Attachments:         req.Attachments,
		CustomerID:          user.UserID,
		Version:             1,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.logger.Error("failed to create job", zap.Error(err))
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("job_number", job.JobNumber),
		zap.String("customer_id", user.UserID.String()),
		zap.String("category", string(job.Category)),
	)

	return job, nil
}

// GetJob returns a job by id, scoped to the calling actor
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// GetJobByNumber returns a job by its public job number, scoped to the
// calling actor
func (s *JobService) GetJobByNumber(ctx context.Context, jobNumber string) (*domain.Job, error) {
	job, err := s.jobRepo.GetByJobNumber(ctx, jobNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns a filtered, paginated page of jobs
func (s *JobService) ListJobs(ctx context.Context, page, pageSize int, filters *repository.JobFilters, sort repository.SortConfig) ([]domain.Job, int64, error) {
	jobs, total, err := s.jobRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, total, nil
}

// GetStatusSummary returns job counts per status for the calling actor
func (s *JobService) GetStatusSummary(ctx context.Context) (*domain.StatusSummaryResponse, error) {
	counts, err := s.jobRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	resp := &domain.StatusSummaryResponse{Counts: make(map[string]int64, len(counts))}
	for status, count := range counts {
		resp.Counts[string(status)] = count
		resp.Total += count
	}
	return resp, nil
}

// GetStatusMetadata returns the status read model: label and allowed next
// actions per status.
func (s *JobService) GetStatusMetadata() []domain.StatusMetadata {
	return domain.AllStatusMetadata()
}
