package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
	"github.com/fixlane/marketplace-api/internal/service"
	"github.com/fixlane/marketplace-api/internal/testutil"
)

func setupFeedbackService(t *testing.T) (*service.FeedbackService, *gorm.DB) {
	db := testutil.OpenDB(t)
	svc := service.NewFeedbackService(
		repository.NewJobRepository(db),
		repository.NewFeedbackRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestSubmitFeedback(t *testing.T) {
	svc, db := setupFeedbackService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusCompleted)

	feedback, err := svc.SubmitFeedback(testutil.ContextFor(customer), job.ID, &domain.SubmitFeedbackRequest{
		Rating:  5,
		Comment: "Quick and tidy.",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, feedback.Rating)
	assert.Equal(t, customer.ID, feedback.CustomerID)

	got, err := svc.GetFeedback(testutil.ContextFor(customer), job.ID)
	require.NoError(t, err)
	assert.Equal(t, feedback.ID, got.ID)
}

func TestSubmitFeedback_OncePerJob(t *testing.T) {
	svc, db := setupFeedbackService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusCompleted)
	ctx := testutil.ContextFor(customer)

	_, err := svc.SubmitFeedback(ctx, job.ID, &domain.SubmitFeedbackRequest{Rating: 4})
	require.NoError(t, err)

	_, err = svc.SubmitFeedback(ctx, job.ID, &domain.SubmitFeedbackRequest{Rating: 1})
	assert.ErrorIs(t, err, service.ErrFeedbackExists)
}

func TestSubmitFeedback_BeforeWorkDone(t *testing.T) {
	svc, db := setupFeedbackService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInProgress)

	_, err := svc.SubmitFeedback(testutil.ContextFor(customer), job.ID, &domain.SubmitFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, service.ErrFeedbackNotAllowed)
}

func TestSubmitFeedback_AfterWorkCompletedStage(t *testing.T) {
	svc, db := setupFeedbackService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)

	// Still IN_PROGRESS by status but the work itself is reported complete
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInProgress)
	stage := domain.StageWorkCompleted
	require.NoError(t, db.Model(&domain.Job{}).Where("id = ?", job.ID).
		Update("current_stage", stage).Error)

	_, err := svc.SubmitFeedback(testutil.ContextFor(customer), job.ID, &domain.SubmitFeedbackRequest{Rating: 3})
	require.NoError(t, err)
}

func TestGetFeedback_NoneYet(t *testing.T) {
	svc, db := setupFeedbackService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusCompleted)

	_, err := svc.GetFeedback(testutil.ContextFor(customer), job.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
