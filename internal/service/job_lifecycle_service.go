package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
)

// validStatusTransitions defines the directed edges of the job state
// machine. Any attempted move not listed here fails with
// ErrInvalidTransition and leaves the job untouched.
var validStatusTransitions = map[domain.JobStatus][]domain.JobStatus{
	domain.JobStatusPending: {
		domain.JobStatusAssigned,
		domain.JobStatusCancelled,
	},
	domain.JobStatusAssigned: {
		domain.JobStatusInDiscussion,
		domain.JobStatusRejected,
		domain.JobStatusPending, // explicit unassign path
		domain.JobStatusCancelled,
	},
	domain.JobStatusInDiscussion: {
		domain.JobStatusQuoteSent,
	},
	domain.JobStatusQuoteSent: {
		domain.JobStatusQuoteSent, // resend supersedes the active quote
		domain.JobStatusQuoteAccepted,
		domain.JobStatusInDiscussion, // quote rejected
	},
	domain.JobStatusQuoteAccepted: {
		domain.JobStatusPaid,
	},
	domain.JobStatusPaid: {
		domain.JobStatusInProgress,
	},
	domain.JobStatusInProgress: {
		domain.JobStatusCompleted,
	},
	// Terminal states have no outgoing edges
	domain.JobStatusCompleted: {},
	domain.JobStatusCancelled: {},
	domain.JobStatusRejected:  {},
}

// isValidTransition checks if a status transition is allowed
func isValidTransition(from, to domain.JobStatus) bool {
	allowed, exists := validStatusTransitions[from]
	if !exists {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

// JobLifecycleService owns every status transition of a job. Each mutating
// call takes the caller's expected version; the update is a compare-and-swap
// on (id, version) so concurrent writers get ErrVersionConflict instead of a
// silent overwrite.
type JobLifecycleService struct {
	db               *gorm.DB
	jobRepo          *repository.JobRepository
	quoteRepo        *repository.QuoteRepository
	messageRepo      *repository.MessageRepository
	progressRepo     *repository.ProgressRepository
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	logger           *zap.Logger
}

// NewJobLifecycleService creates a new JobLifecycleService
func NewJobLifecycleService(
	db *gorm.DB,
	jobRepo *repository.JobRepository,
	quoteRepo *repository.QuoteRepository,
	messageRepo *repository.MessageRepository,
	progressRepo *repository.ProgressRepository,
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *JobLifecycleService {
	return &JobLifecycleService{
		db:               db,
		jobRepo:          jobRepo,
		quoteRepo:        quoteRepo,
		messageRepo:      messageRepo,
		progressRepo:     progressRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// AssignVendor moves a PENDING job to ASSIGNED and sets the vendor reference.
// Admin only; the vendor must be an active vendor account.
func (s *JobLifecycleService) AssignVendor(ctx context.Context, jobID, vendorID uuid.UUID, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(job, domain.ActionAssignVendor, domain.JobStatusAssigned); err != nil {
		return nil, err
	}

	vendor, err := s.userRepo.GetActiveVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vendor %s", ErrUserNotFound, vendorID)
		}
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
			"status":    domain.JobStatusAssigned,
			"vendor_id": vendor.ID,
		}); err != nil {
			return err
		}
		return s.notify(ctx, tx, vendor.ID, job, domain.NotificationTypeAssignment,
			"New job assignment",
			fmt.Sprintf("You have been assigned to job %s: %s", job.JobNumber, job.Title))
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(job, domain.JobStatusAssigned, user)
	return s.reload(ctx, jobID)
}

// UnassignVendor clears the vendor and returns an ASSIGNED job to PENDING.
// This is the explicit unassign-then-assign reassignment path; admin only.
func (s *JobLifecycleService) UnassignVendor(ctx context.Context, jobID uuid.UUID, reason string, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(job, domain.ActionUnassignVendor, domain.JobStatusPending); err != nil {
		return nil, err
	}

	previousVendor := job.VendorID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
			"status":    domain.JobStatusPending,
			"vendor_id": nil,
		}); err != nil {
			return err
		}
		if previousVendor != nil {
			return s.notify(ctx, tx, *previousVendor, job, domain.NotificationTypeAssignment,
				"Assignment withdrawn",
				fmt.Sprintf("You are no longer assigned to job %s", job.JobNumber))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(job, domain.JobStatusPending, user)
	return s.reload(ctx, jobID)
}

// RespondToAssignment is the vendor's accept or reject of an assignment.
// Accept moves the job to IN_DISCUSSION; reject is terminal (REJECTED) and
// records the reason. Either way a system message documents the response.
func (s *JobLifecycleService) RespondToAssignment(ctx context.Context, jobID uuid.UUID, accept bool, reason string, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleVendor, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	target := domain.JobStatusInDiscussion
	if !accept {
		target = domain.JobStatusRejected
	}
	if err := s.guard(job, domain.ActionRespondToAssignment, target); err != nil {
		return nil, err
	}
	if user.HasRole(domain.RoleVendor) && (job.VendorID == nil || *job.VendorID != user.UserID) {
		return nil, ErrPermissionDenied
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if accept {
			if err := s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
				"status": domain.JobStatusInDiscussion,
			}); err != nil {
				return err
			}
			if err := s.systemMessage(ctx, tx, job, "Vendor accepted the assignment"); err != nil {
				return err
			}
			return s.notify(ctx, tx, job.CustomerID, job, domain.NotificationTypeStatus,
				"Vendor accepted",
				fmt.Sprintf("The vendor accepted your job %s and is ready to discuss details", job.JobNumber))
		}

		if err := s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
			"status":        domain.JobStatusRejected,
			"reject_reason": reason,
		}); err != nil {
			return err
		}
		content := "Vendor declined the assignment"
		if reason != "" {
			content = fmt.Sprintf("Vendor declined the assignment: %s", reason)
		}
		if err := s.systemMessage(ctx, tx, job, content); err != nil {
			return err
		}
		return s.notify(ctx, tx, job.CustomerID, job, domain.NotificationTypeStatus,
			"Vendor declined",
			fmt.Sprintf("The vendor declined your job %s", job.JobNumber))
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(job, target, user)
	return s.reload(ctx, jobID)
}

// AcceptQuote moves a QUOTE_SENT job to QUOTE_ACCEPTED. The quote reference
// must be the job's active quote by identity; a superseded reference or a
// quote past its validity deadline fails with ErrQuoteExpired.
func (s *JobLifecycleService) AcceptQuote(ctx context.Context, jobID, quoteID uuid.UUID, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleCustomer, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(job, domain.ActionAcceptQuote, domain.JobStatusQuoteAccepted); err != nil {
		return nil, err
	}

	quote, err := s.activeQuote(ctx, job, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.ValidUntil != nil && time.Now().UTC().After(*quote.ValidUntil) {
		return nil, fmt.Errorf("%w: validity deadline passed", ErrQuoteExpired)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
			"status": domain.JobStatusQuoteAccepted,
		}); err != nil {
			return err
		}
		if err := s.quoteRepo.UpdateStatus(ctx, tx, quote.ID, domain.QuoteStatusAccepted, ""); err != nil {
			return err
		}
		if err := s.systemMessage(ctx, tx, job, fmt.Sprintf("Quote accepted (%.2f)", quote.Amount)); err != nil {
			return err
		}
		return s.notify(ctx, tx, quote.VendorID, job, domain.NotificationTypeQuote,
			"Quote accepted",
			fmt.Sprintf("Your quote for job %s was accepted", job.JobNumber))
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(job, domain.JobStatusQuoteAccepted, user)
	return s.reload(ctx, jobID)
}

// RejectQuote records the customer's rejection and reverts the job to
// IN_DISCUSSION so the vendor can re-quote. The quote record is kept.
func (s *JobLifecycleService) RejectQuote(ctx context.Context, jobID, quoteID uuid.UUID, reason string, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleCustomer, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(job, domain.ActionRejectQuote, domain.JobStatusInDiscussion); err != nil {
		return nil, err
	}

	quote, err := s.activeQuote(ctx, job, quoteID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
			"status":          domain.JobStatusInDiscussion,
			"active_quote_id": nil,
			"total_amount":    nil,
			"subtotal":        nil,
			"tax_amount":      nil,
		}); err != nil {
			return err
		}
		if err := s.quoteRepo.UpdateStatus(ctx, tx, quote.ID, domain.QuoteStatusRejected, reason); err != nil {
			return err
		}
		content := "Quote rejected"
		if reason != "" {
			content = fmt.Sprintf("Quote rejected: %s", reason)
		}
		if err := s.systemMessage(ctx, tx, job, content); err != nil {
			return err
		}
		return s.notify(ctx, tx, quote.VendorID, job, domain.NotificationTypeQuote,
			"Quote rejected",
			fmt.Sprintf("Your quote for job %s was rejected", job.JobNumber))
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(job, domain.JobStatusInDiscussion, user)
	return s.reload(ctx, jobID)
}

// ConfirmPayment is the payment collaborator's callback completing the
// QUOTE_ACCEPTED to PAID transition. The confirmed amount must match the
// accepted quote exactly, otherwise ErrAmountMismatch and no transition.
// On success the system PAYMENT_RECEIVED progress entry is appended and
// currentStage is set.
func (s *JobLifecycleService) ConfirmPayment(ctx context.Context, jobID, quoteID uuid.UUID, amount float64, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(job, domain.ActionConfirmPayment, domain.JobStatusPaid); err != nil {
		return nil, err
	}

	if job.ActiveQuoteID == nil || *job.ActiveQuoteID != quoteID {
		return nil, fmt.Errorf("%w: not the job's active quote", ErrQuoteExpired)
	}
	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	if round2(amount) != round2(quote.Amount) {
		return nil, fmt.Errorf("%w: confirmed %.2f, quote %.2f", ErrAmountMismatch, amount, quote.Amount)
	}

	stage := domain.StagePaymentReceived
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
			"status":        domain.JobStatusPaid,
			"current_stage": stage,
		}); err != nil {
			return err
		}
		entry := &domain.ProgressUpdate{
			JobID:          job.ID,
			Stage:          stage,
			Description:    fmt.Sprintf("Payment of %.2f received", quote.Amount),
			IsSystemUpdate: true,
		}
		if err := s.progressRepo.Create(ctx, tx, entry); err != nil {
			return err
		}
		return s.notify(ctx, tx, quote.VendorID, job, domain.NotificationTypePayment,
			"Payment received",
			fmt.Sprintf("Payment for job %s is confirmed, work can begin", job.JobNumber))
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(job, domain.JobStatusPaid, user)
	return s.reload(ctx, jobID)
}

// StartWork moves a PAID job to IN_PROGRESS. Assigned vendor only.
func (s *JobLifecycleService) StartWork(ctx context.Context, jobID uuid.UUID, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleVendor, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(job, domain.ActionStartWork, domain.JobStatusInProgress); err != nil {
		return nil, err
	}
	if user.HasRole(domain.RoleVendor) && (job.VendorID == nil || *job.VendorID != user.UserID) {
		return nil, ErrPermissionDenied
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
			"status": domain.JobStatusInProgress,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(job, domain.JobStatusInProgress, user)
	return s.reload(ctx, jobID)
}

// PostProgress appends a vendor progress update. The stage must not rank
// below the job's current stage (skipping ahead is fine); WORK_COMPLETED
// completes the job. Completed jobs still accept the post-completion stages
// (CUSTOMER_APPROVAL, JOB_CLOSED) as audit appends without a status change.
func (s *JobLifecycleService) PostProgress(ctx context.Context, jobID uuid.UUID, stage domain.ProgressStage, description string, images []string, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleVendor, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}
	if !stage.IsValid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	postCompletion := job.Status == domain.JobStatusCompleted && stage.Rank() >= domain.StageWorkCompleted.Rank()
	if !domain.ActionAllowed(job.Status, domain.ActionPostProgress) && !postCompletion {
		return nil, fmt.Errorf("%w: cannot post progress on job %s in status %s",
			ErrInvalidTransition, job.JobNumber, job.Status)
	}
	if user.HasRole(domain.RoleVendor) && (job.VendorID == nil || *job.VendorID != user.UserID) {
		return nil, ErrPermissionDenied
	}

	if job.CurrentStage != nil && stage.Rank() < job.CurrentStage.Rank() {
		return nil, fmt.Errorf("%w: %s is before current stage %s", ErrOutOfOrderStage, stage, *job.CurrentStage)
	}

	completesJob := stage == domain.StageWorkCompleted && isValidTransition(job.Status, domain.JobStatusCompleted)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"current_stage": stage,
		}
		if completesJob {
			updates["status"] = domain.JobStatusCompleted
		}
		if err := s.updateJob(ctx, tx, job, expectedVersion, updates); err != nil {
			return err
		}

		authorID := user.UserID
		entry := &domain.ProgressUpdate{
			JobID:       job.ID,
			Stage:       stage,
			Description: description,
			Images:      pq.StringArray(images),
			AuthorID:    &authorID,
		}
		if err := s.progressRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		if completesJob {
			if err := s.systemMessage(ctx, tx, job, "Work completed, awaiting customer approval"); err != nil {
				return err
			}
			return s.notify(ctx, tx, job.CustomerID, job, domain.NotificationTypeStatus,
				"Job completed",
				fmt.Sprintf("Work on job %s is complete, you can now leave feedback", job.JobNumber))
		}
		return s.notify(ctx, tx, job.CustomerID, job, domain.NotificationTypeProgress,
			"Progress update",
			fmt.Sprintf("Job %s reached stage %s", job.JobNumber, stage))
	})
	if err != nil {
		return nil, err
	}

	if completesJob {
		s.logTransition(job, domain.JobStatusCompleted, user)
	}
	return s.reload(ctx, jobID)
}

// Cancel cancels a job before work has started (PENDING or ASSIGNED only).
// Later-stage cancellation goes through a dispute/refund flow outside this
// service.
func (s *JobLifecycleService) Cancel(ctx context.Context, jobID uuid.UUID, reason string, expectedVersion int) (*domain.Job, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleCustomer, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(job, domain.ActionCancel, domain.JobStatusCancelled); err != nil {
		return nil, err
	}
	if user.HasRole(domain.RoleCustomer) && job.CustomerID != user.UserID {
		return nil, ErrPermissionDenied
	}

	vendorID := job.VendorID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.updateJob(ctx, tx, job, expectedVersion, map[string]interface{}{
			"status":        domain.JobStatusCancelled,
			"cancel_reason": reason,
		}); err != nil {
			return err
		}
		if err := s.systemMessage(ctx, tx, job, fmt.Sprintf("Job cancelled: %s", reason)); err != nil {
			return err
		}
		if vendorID != nil {
			return s.notify(ctx, tx, *vendorID, job, domain.NotificationTypeStatus,
				"Job cancelled",
				fmt.Sprintf("Job %s was cancelled by the customer", job.JobNumber))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(job, domain.JobStatusCancelled, user)
	return s.reload(ctx, jobID)
}

// getJob loads a job and maps gorm's not-found error
func (s *JobLifecycleService) getJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return job, nil
}

// activeQuote verifies the quote reference is the job's active quote by
// identity and that it is still pending. Stale references fail with
// ErrQuoteExpired so the client knows to re-read.
func (s *JobLifecycleService) activeQuote(ctx context.Context, job *domain.Job, quoteID uuid.UUID) (*domain.Quote, error) {
	if job.ActiveQuoteID == nil || *job.ActiveQuoteID != quoteID {
		return nil, fmt.Errorf("%w: not the job's active quote", ErrQuoteExpired)
	}
	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	switch quote.Status {
	case domain.QuoteStatusPending:
		return quote, nil
	case domain.QuoteStatusSuperseded, domain.QuoteStatusExpired:
		return nil, fmt.Errorf("%w: quote is %s", ErrQuoteExpired, quote.Status)
	default:
		return nil, fmt.Errorf("%w: quote already %s", ErrVersionConflict, quote.Status)
	}
}

// updateJob performs the versioned compare-and-swap on the job row
func (s *JobLifecycleService) updateJob(ctx context.Context, tx *gorm.DB, job *domain.Job, expectedVersion int, updates map[string]interface{}) error {
	rows, err := s.jobRepo.UpdateWithVersion(ctx, tx, job.ID, expectedVersion, updates)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	return nil
}

// systemMessage appends the engine-generated chat entry documenting a
// transition. This is the only place SYSTEM messages are created.
func (s *JobLifecycleService) systemMessage(ctx context.Context, tx *gorm.DB, job *domain.Job, content string) error {
	msg := &domain.Message{
		JobID:    job.ID,
		Type:     domain.MessageTypeSystem,
		Content:  content,
		Priority: domain.MessagePriorityNormal,
	}
	return s.messageRepo.CreateWithSeq(ctx, tx, msg)
}

func (s *JobLifecycleService) notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, job *domain.Job, nType domain.NotificationType, title, message string) error {
	jobID := job.ID
	return s.notificationRepo.Create(ctx, tx, &domain.Notification{
		UserID:  userID,
		JobID:   &jobID,
		Type:    nType,
		Title:   title,
		Message: message,
	})
}

func (s *JobLifecycleService) reload(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	return s.getJob(ctx, jobID)
}

// guard rejects the call unless the job's current status lists the action in
// the status metadata and the resulting status change is an edge of
// validStatusTransitions. Both tables describe the lifecycle; consulting both
// keeps them from drifting apart.
func (s *JobLifecycleService) guard(job *domain.Job, action domain.Action, target domain.JobStatus) error {
	if !domain.ActionAllowed(job.Status, action) || !isValidTransition(job.Status, target) {
		return s.transitionError(job, target)
	}
	return nil
}

func (s *JobLifecycleService) transitionError(job *domain.Job, target domain.JobStatus) error {
	return fmt.Errorf("%w: cannot move job %s from %s to %s",
		ErrInvalidTransition, job.JobNumber, job.Status, target)
}

func (s *JobLifecycleService) logTransition(job *domain.Job, to domain.JobStatus, user *auth.UserContext) {
	s.logger.Info("job status transition",
		zap.String("job_id", job.ID.String()),
		zap.String("job_number", job.JobNumber),
		zap.String("from", string(job.Status)),
		zap.String("to", string(to)),
		zap.String("actor_id", user.UserID.String()),
		zap.Strings("actor_roles", user.RolesAsStrings()),
	)
}
