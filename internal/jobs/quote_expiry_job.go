package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuoteExpiryJobName is the name of the quote expiry sweep job
const QuoteExpiryJobName = "quote_expiry"

// expirySweepBatchSize caps how many quotes one sweep run will process
const expirySweepBatchSize = 500

// QuoteExpirer defines the interface for expiring stale pending quotes.
// The sweep marks quotes past their validity deadline as expired and
// returns their jobs to discussion.
type QuoteExpirer interface {
	ExpireQuotes(ctx context.Context, limit int) (int, error)
}

// QuoteExpiryJob runs the periodic quote expiry sweep.
type QuoteExpiryJob struct {
	quotes  QuoteExpirer
	logger  *zap.Logger
	timeout time.Duration
}

// NewQuoteExpiryJob creates a new quote expiry job.
// The timeout controls how long one sweep is allowed to run.
func NewQuoteExpiryJob(quotes QuoteExpirer, logger *zap.Logger, timeout time.Duration) *QuoteExpiryJob {
	return &QuoteExpiryJob{
		quotes:  quotes,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one expiry sweep. Called by the scheduler according to the
// configured cron expression.
func (j *QuoteExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	expired, err := j.quotes.ExpireQuotes(ctx, expirySweepBatchSize)
	if err != nil {
		j.logger.Error("quote expiry sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if expired > 0 {
		j.logger.Info("quote expiry sweep completed",
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterQuoteExpiryJob registers the quote expiry sweep with the scheduler.
func RegisterQuoteExpiryJob(scheduler *Scheduler, quotes QuoteExpirer, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewQuoteExpiryJob(quotes, logger, timeout)
	return scheduler.AddJob(QuoteExpiryJobName, cronExpr, job.Run)
}
