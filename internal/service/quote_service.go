package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
)

// round2 rounds a monetary amount to two decimals, half away from zero
func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// QuoteService handles vendor quotes. Sending a quote from IN_DISCUSSION
// moves the job to QUOTE_SENT; sending while already QUOTE_SENT supersedes
// the active quote and replaces it atomically.
type QuoteService struct {
	db          *gorm.DB
	jobRepo     *repository.JobRepository
	quoteRepo   *repository.QuoteRepository
	messageRepo *repository.MessageRepository
	logger      *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	db *gorm.DB,
	jobRepo *repository.JobRepository,
	quoteRepo *repository.QuoteRepository,
	messageRepo *repository.MessageRepository,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		db:          db,
		jobRepo:     jobRepo,
		quoteRepo:   quoteRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// SendQuote creates a quote for the job and makes it the active quote.
// When a breakdown is present the amount is derived from it and any caller
// amount is ignored; without a breakdown a direct amount is required.
func (s *QuoteService) SendQuote(ctx context.Context, jobID uuid.UUID, req *domain.SendQuoteRequest) (*domain.Quote, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.HasAnyRole(domain.RoleVendor, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	action := domain.ActionSendQuote
	if job.Status == domain.JobStatusQuoteSent {
		action = domain.ActionResendQuote
	}
	if !domain.ActionAllowed(job.Status, action) || !isValidTransition(job.Status, domain.JobStatusQuoteSent) {
		return nil, fmt.Errorf("%w: cannot quote job %s in status %s",
			ErrInvalidTransition, job.JobNumber, job.Status)
	}
	if user.HasRole(domain.RoleVendor) && (job.VendorID == nil || *job.VendorID != user.UserID) {
		return nil, ErrPermissionDenied
	}

	amount, items, err := resolveQuoteAmount(req)
	if err != nil {
		return nil, err
	}

	var validUntil *time.Time
	if req.ValidUntil != "" {
		t, err := time.Parse("2006-01-02T15:04:05Z", req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid validUntil", ErrInvalidInput)
		}
		t = t.UTC()
		if !t.After(time.Now().UTC()) {
			return nil, fmt.Errorf("%w: validUntil must be in the future", ErrInvalidInput)
		}
		validUntil = &t
	}

	vendorID := user.UserID
	if user.HasRole(domain.RoleAdmin) && job.VendorID != nil {
		vendorID = *job.VendorID
	}

	quote := &domain.Quote{
		JobID:             job.ID,
		VendorID:          vendorID,
		Amount:            amount,
		Description:       req.Description,
		Items:             items,
		ValidUntil:        validUntil,
		Terms:             req.Terms,
		EstimatedDuration: req.EstimatedDuration,
		Inclusions:        pq.StringArray(req.Inclusions),
		Exclusions:        pq.StringArray(req.Exclusions),
		Status:            domain.QuoteStatusPending,
	}

	superseded := job.ActiveQuoteID
	resend := job.Status == domain.JobStatusQuoteSent

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.quoteRepo.CreateWithItems(ctx, tx, quote); err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}

		rows, err := s.jobRepo.UpdateWithVersion(ctx, tx, job.ID, req.ExpectedVersion, map[string]interface{}{
			"status":          domain.JobStatusQuoteSent,
			"active_quote_id": quote.ID,
			"total_amount":    quote.Amount,
			"subtotal":        quote.Amount,
		})
		if err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}
		if rows == 0 {
			return ErrVersionConflict
		}

		if resend && superseded != nil {
			if err := s.quoteRepo.UpdateStatus(ctx, tx, *superseded, domain.QuoteStatusSuperseded, ""); err != nil {
				return fmt.Errorf("failed to supersede quote: %w", err)
			}
		}

		content := fmt.Sprintf("Quote sent: %.2f", quote.Amount)
		if resend {
			content = fmt.Sprintf("Quote updated: %.2f", quote.Amount)
		}
		msg := &domain.Message{
			JobID:    job.ID,
			Type:     domain.MessageTypeSystem,
			Content:  content,
			QuoteID:  &quote.ID,
			Priority: domain.MessagePriorityNormal,
		}
		return s.messageRepo.CreateWithSeq(ctx, tx, msg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote sent",
		zap.String("job_id", job.ID.String()),
		zap.String("quote_id", quote.ID.String()),
		zap.Float64("amount", quote.Amount),
		zap.Bool("resend", resend),
	)
	return s.quoteRepo.GetByID(ctx, quote.ID)
}

// ListQuotes returns the job's quote history, newest first
func (s *QuoteService) ListQuotes(ctx context.Context, jobID uuid.UUID) ([]domain.Quote, error) {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return s.quoteRepo.ListByJob(ctx, jobID)
}

// ExpireQuotes marks pending quotes past their validity deadline as
// expired and returns the job of each to IN_DISCUSSION when the quote was
// still active. Called from the scheduler; returns the number expired.
func (s *QuoteService) ExpireQuotes(ctx context.Context, limit int) (int, error) {
	quotes, err := s.quoteRepo.ListExpiredPending(ctx, time.Now().UTC(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired quotes: %w", err)
	}

	expired := 0
	for _, quote := range quotes {
		quote := quote
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.quoteRepo.UpdateStatus(ctx, tx, quote.ID, domain.QuoteStatusExpired, ""); err != nil {
				return err
			}

			job, err := s.jobRepo.GetByID(ctx, quote.JobID)
			if err != nil {
				return err
			}
			if job.Status != domain.JobStatusQuoteSent || job.ActiveQuoteID == nil || *job.ActiveQuoteID != quote.ID {
				return nil
			}

			rows, err := s.jobRepo.UpdateWithVersion(ctx, tx, job.ID, job.Version, map[string]interface{}{
				"status":          domain.JobStatusInDiscussion,
				"active_quote_id": nil,
				"total_amount":    nil,
				"subtotal":        nil,
				"tax_amount":      nil,
			})
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrVersionConflict
			}

			msg := &domain.Message{
				JobID:    job.ID,
				Type:     domain.MessageTypeSystem,
				Content:  "Quote expired",
				QuoteID:  &quote.ID,
				Priority: domain.MessagePriorityNormal,
			}
			return s.messageRepo.CreateWithSeq(ctx, tx, msg)
		})
		if err != nil {
			s.logger.Warn("failed to expire quote",
				zap.String("quote_id", quote.ID.String()),
				zap.Error(err),
			)
			continue
		}
		expired++
	}
	return expired, nil
}

// resolveQuoteAmount derives the quote amount. With a breakdown the amount
// is the rounded sum of quantity times unit price per line; otherwise the
// caller's amount is used as-is.
func resolveQuoteAmount(req *domain.SendQuoteRequest) (float64, []domain.QuoteItem, error) {
	if len(req.Items) > 0 {
		total := 0.0
		items := make([]domain.QuoteItem, 0, len(req.Items))
		for i, line := range req.Items {
			total += line.Quantity * line.UnitPrice
			items = append(items, domain.QuoteItem{
				SortOrder: i,
				Item:      line.Item,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}
		amount := round2(total)
		if amount <= 0 {
			return 0, nil, fmt.Errorf("%w: breakdown total must be positive", ErrInvalidQuote)
		}
		return amount, items, nil
	}

	if req.Amount == nil || *req.Amount <= 0 {
		return 0, nil, fmt.Errorf("%w: a positive amount or a breakdown is required", ErrInvalidQuote)
	}
	return *req.Amount, nil, nil
}
