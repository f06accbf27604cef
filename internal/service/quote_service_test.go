package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
	"github.com/fixlane/marketplace-api/internal/service"
	"github.com/fixlane/marketplace-api/internal/testutil"
)

func floatPtr(f float64) *float64 { return &f }

func setupQuoteService(t *testing.T) (*service.QuoteService, *gorm.DB) {
	db := testutil.OpenDB(t)
	svc := service.NewQuoteService(
		db,
		repository.NewJobRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewMessageRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestSendQuote_DirectAmount(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	testutil.AssignJob(t, db, job, vendor)

	quote, err := svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		Amount:          floatPtr(1500.00),
		Description:     "Replace the mixer tap",
		ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.00, quote.Amount)
	assert.Equal(t, domain.QuoteStatusPending, quote.Status)

	var reloaded domain.Job
	require.NoError(t, db.First(&reloaded, "id = ?", job.ID).Error)
	assert.Equal(t, domain.JobStatusQuoteSent, reloaded.Status)
	assert.Equal(t, 2, reloaded.Version)
	require.NotNil(t, reloaded.ActiveQuoteID)
	assert.Equal(t, quote.ID, *reloaded.ActiveQuoteID)
	require.NotNil(t, reloaded.TotalAmount)
	assert.Equal(t, 1500.00, *reloaded.TotalAmount)

	msg := lastMessage(t, db, job.ID)
	assert.Equal(t, domain.MessageTypeSystem, msg.Type)
	assert.Contains(t, msg.Content, "Quote sent: 1500.00")
	require.NotNil(t, msg.QuoteID)
	assert.Equal(t, quote.ID, *msg.QuoteID)
}

func TestSendQuote_DirectAmountStoredVerbatim(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	testutil.AssignJob(t, db, job, vendor)

	// Without a breakdown the amount passes through unrounded
	quote, err := svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		Amount:          floatPtr(101.999),
		ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 101.999, quote.Amount)

	var reloaded domain.Job
	require.NoError(t, db.First(&reloaded, "id = ?", job.ID).Error)
	require.NotNil(t, reloaded.TotalAmount)
	assert.Equal(t, 101.999, *reloaded.TotalAmount)
}

func TestSendQuote_BreakdownDerivesAmount(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	testutil.AssignJob(t, db, job, vendor)

	// A caller-supplied amount is ignored when a breakdown is present
	quote, err := svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		Amount: floatPtr(9999.99),
		Items: []domain.QuoteItemRequest{
			{Item: "Mixer tap", Quantity: 1, UnitPrice: 899.50},
			{Item: "Labour", Quantity: 2.5, UnitPrice: 640.00},
		},
		ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2499.50, quote.Amount)
	require.Len(t, quote.Items, 2)
	assert.Equal(t, "Mixer tap", quote.Items[0].Item)
	assert.Equal(t, "Labour", quote.Items[1].Item)
}

func TestSendQuote_BreakdownRounding(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	testutil.AssignJob(t, db, job, vendor)

	// 3 * 0.1 is 0.30000000000000004 in binary floating point
	quote, err := svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		Items: []domain.QuoteItemRequest{
			{Item: "Washers", Quantity: 3, UnitPrice: 0.1},
		},
		ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.3, quote.Amount)
}

func TestSendQuote_ResendSupersedes(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	testutil.AssignJob(t, db, job, vendor)
	ctx := testutil.ContextFor(vendor)

	first, err := svc.SendQuote(ctx, job.ID, &domain.SendQuoteRequest{
		Amount:          floatPtr(2000.00),
		ExpectedVersion: 1,
	})
	require.NoError(t, err)

	second, err := svc.SendQuote(ctx, job.ID, &domain.SendQuoteRequest{
		Amount:          floatPtr(1800.00),
		ExpectedVersion: 2,
	})
	require.NoError(t, err)

	var reloadedFirst domain.Quote
	require.NoError(t, db.First(&reloadedFirst, "id = ?", first.ID).Error)
	assert.Equal(t, domain.QuoteStatusSuperseded, reloadedFirst.Status)

	var job2 domain.Job
	require.NoError(t, db.First(&job2, "id = ?", job.ID).Error)
	assert.Equal(t, domain.JobStatusQuoteSent, job2.Status)
	require.NotNil(t, job2.ActiveQuoteID)
	assert.Equal(t, second.ID, *job2.ActiveQuoteID)
	assert.Equal(t, 1800.00, *job2.TotalAmount)

	msg := lastMessage(t, db, job.ID)
	assert.Contains(t, msg.Content, "Quote updated: 1800.00")
}

func TestSendQuote_RequiresAmountOrBreakdown(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	testutil.AssignJob(t, db, job, vendor)

	_, err := svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		ExpectedVersion: 1,
	})
	assert.ErrorIs(t, err, service.ErrInvalidQuote)

	_, err = svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		Amount:          floatPtr(-50),
		ExpectedVersion: 1,
	})
	assert.ErrorIs(t, err, service.ErrInvalidQuote)
}

func TestSendQuote_WrongStatus(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusAssigned)
	testutil.AssignJob(t, db, job, vendor)

	_, err := svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		Amount:          floatPtr(100),
		ExpectedVersion: 1,
	})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestSendQuote_ValidUntilMustBeFuture(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	testutil.AssignJob(t, db, job, vendor)

	_, err := svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		Amount:          floatPtr(100),
		ValidUntil:      "2020-01-01T00:00:00Z",
		ExpectedVersion: 1,
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestSendQuote_VersionConflictRollsBack(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	testutil.AssignJob(t, db, job, vendor)

	_, err := svc.SendQuote(testutil.ContextFor(vendor), job.ID, &domain.SendQuoteRequest{
		Amount:          floatPtr(100),
		ExpectedVersion: 9,
	})
	assert.ErrorIs(t, err, service.ErrVersionConflict)

	// The quote insert is rolled back with the failed job update
	var count int64
	require.NoError(t, db.Model(&domain.Quote{}).Where("job_id = ?", job.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestExpireQuotes(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	stale := testutil.CreateJob(t, db, customer, domain.JobStatusQuoteSent)
	testutil.AssignJob(t, db, stale, vendor)
	staleQuote := testutil.CreateQuote(t, db, stale, vendor, 500.00, &past)

	fresh := testutil.CreateJob(t, db, customer, domain.JobStatusQuoteSent)
	testutil.AssignJob(t, db, fresh, vendor)
	testutil.CreateQuote(t, db, fresh, vendor, 700.00, &future)

	expired, err := svc.ExpireQuotes(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	var reloadedQuote domain.Quote
	require.NoError(t, db.First(&reloadedQuote, "id = ?", staleQuote.ID).Error)
	assert.Equal(t, domain.QuoteStatusExpired, reloadedQuote.Status)

	var reloadedJob domain.Job
	require.NoError(t, db.First(&reloadedJob, "id = ?", stale.ID).Error)
	assert.Equal(t, domain.JobStatusInDiscussion, reloadedJob.Status)
	assert.Nil(t, reloadedJob.ActiveQuoteID)
	assert.Nil(t, reloadedJob.TotalAmount)

	msg := lastMessage(t, db, stale.ID)
	assert.Equal(t, domain.MessageTypeSystem, msg.Type)
	assert.Equal(t, "Quote expired", msg.Content)

	var freshJob domain.Job
	require.NoError(t, db.First(&freshJob, "id = ?", fresh.ID).Error)
	assert.Equal(t, domain.JobStatusQuoteSent, freshJob.Status)
}

func TestExpireQuotes_JobMovedOn(t *testing.T) {
	svc, db := setupQuoteService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)

	// The quote deadline passed but the customer accepted it first; only the
	// quote record is swept, the job is left alone.
	past := time.Now().UTC().Add(-time.Hour)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusQuoteAccepted)
	testutil.AssignJob(t, db, job, vendor)
	quote := testutil.CreateQuote(t, db, job, vendor, 500.00, &past)

	expired, err := svc.ExpireQuotes(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	var reloadedQuote domain.Quote
	require.NoError(t, db.First(&reloadedQuote, "id = ?", quote.ID).Error)
	assert.Equal(t, domain.QuoteStatusExpired, reloadedQuote.Status)

	var reloadedJob domain.Job
	require.NoError(t, db.First(&reloadedJob, "id = ?", job.ID).Error)
	assert.Equal(t, domain.JobStatusQuoteAccepted, reloadedJob.Status)
	assert.Equal(t, int64(0), countMessages(t, db, job.ID))
}
