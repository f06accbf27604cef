package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
	"github.com/fixlane/marketplace-api/internal/service"
	"github.com/fixlane/marketplace-api/internal/testutil"
)

func TestListProgress(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewProgressService(
		repository.NewJobRepository(db),
		repository.NewProgressRepository(db),
	)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInProgress)
	stage := domain.StageWorkScheduled
	require.NoError(t, db.Model(&domain.Job{}).Where("id = ?", job.ID).
		Update("current_stage", stage).Error)

	for _, s := range []domain.ProgressStage{domain.StagePaymentReceived, domain.StageWorkScheduled} {
		require.NoError(t, db.Create(&domain.ProgressUpdate{
			JobID: job.ID,
			Stage: s,
		}).Error)
	}

	updates, current, err := svc.ListProgress(testutil.ContextFor(customer), job.ID)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, domain.StagePaymentReceived, updates[0].Stage)
	require.NotNil(t, current)
	assert.Equal(t, domain.StageWorkScheduled, *current)
}

func TestListProgress_JobNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewProgressService(
		repository.NewJobRepository(db),
		repository.NewProgressRepository(db),
	)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)

	_, _, err := svc.ListProgress(testutil.ContextFor(customer), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
