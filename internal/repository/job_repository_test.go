package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
	"github.com/fixlane/marketplace-api/internal/testutil"
)

func TestUpdateWithVersion(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewJobRepository(db)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	ctx := context.Background()

	rows, err := repo.UpdateWithVersion(ctx, nil, job.ID, 1, map[string]interface{}{
		"status": domain.JobStatusAssigned,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	reloaded, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, reloaded.Status)
	assert.Equal(t, 2, reloaded.Version)
}

func TestUpdateWithVersion_StaleVersion(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewJobRepository(db)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	ctx := context.Background()

	// First writer wins
	rows, err := repo.UpdateWithVersion(ctx, nil, job.ID, 1, map[string]interface{}{
		"status": domain.JobStatusAssigned,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	// Second writer with the same expected version loses without touching the row
	rows, err = repo.UpdateWithVersion(ctx, nil, job.ID, 1, map[string]interface{}{
		"status": domain.JobStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	reloaded, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, reloaded.Status)
	assert.Equal(t, 2, reloaded.Version)
}

func TestCountByStatus(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewJobRepository(db)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	testutil.CreateJob(t, db, customer, domain.JobStatusInProgress)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.JobStatusPending])
	assert.Equal(t, int64(1), counts[domain.JobStatusInProgress])
}

func TestList_SearchFilter(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewJobRepository(db)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)

	match := testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	require.NoError(t, db.Model(match).Update("title", "Fix broken boiler").Error)
	miss := testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	require.NoError(t, db.Model(miss).Update("title", "Paint the fence").Error)

	search := "boiler"
	jobs, total, err := repo.List(context.Background(), 1, 20,
		&repository.JobFilters{SearchQuery: &search}, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, jobs, 1)
	assert.Equal(t, match.ID, jobs[0].ID)
}
