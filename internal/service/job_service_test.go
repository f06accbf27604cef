package service_test

import (
	"regexp"
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

func setupJobService(t *testing.T) (*service.JobService, *gorm.DB) {
	db := testutil.OpenDB(t)
	svc := service.NewJobService(
		repository.NewJobRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestGenerateJobNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^JOB\d{13}[A-Z0-9]{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := service.GenerateJobNumber()
		assert.Regexp(t, pattern, number)
		assert.False(t, seen[number], "job numbers should not repeat: %s", number)
		seen[number] = true
	}
}

func TestCreateJob(t *testing.T) {
	svc, db := setupJobService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)

	job, err := svc.CreateJob(testutil.ContextFor(customer), &domain.CreateJobRequest{
		Title:    "Rewire garage",
		Category: "electrical",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, domain.JobPriorityMedium, job.Priority)
	assert.Equal(t, 1, job.Version)
	assert.Equal(t, customer.ID, job.CustomerID)
	assert.Regexp(t, `^JOB\d{13}[A-Z0-9]{4}$`, job.JobNumber)
}

func TestCreateJob_EmergencyOverridesPriority(t *testing.T) {
	svc, db := setupJobService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)

	job, err := svc.CreateJob(testutil.ContextFor(customer), &domain.CreateJobRequest{
		Title:       "Burst pipe",
		Category:    "plumbing",
		Priority:    "LOW",
		IsEmergency: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JobPriorityEmergency, job.Priority)
	assert.True(t, job.IsEmergency)
}

func TestCreateJob_UnknownCategory(t *testing.T) {
	svc, db := setupJobService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)

	_, err := svc.CreateJob(testutil.ContextFor(customer), &domain.CreateJobRequest{
		Title:    "Mystery work",
		Category: "exorcism",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCreateJob_PastRequestedDate(t *testing.T) {
	svc, db := setupJobService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)

	_, err := svc.CreateJob(testutil.ContextFor(customer), &domain.CreateJobRequest{
		Title:         "Paint fence",
		Category:      "painting",
		RequestedDate: "2019-06-01",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCreateJob_VendorsCannotCreate(t *testing.T) {
	svc, db := setupJobService(t)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)

	_, err := svc.CreateJob(testutil.ContextFor(vendor), &domain.CreateJobRequest{
		Title:    "Self-serve job",
		Category: "plumbing",
	})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestGetJobByNumber(t *testing.T) {
	svc, db := setupJobService(t)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusPending)

	got, err := svc.GetJobByNumber(testutil.ContextFor(customer), job.JobNumber)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	_, err = svc.GetJobByNumber(testutil.ContextFor(customer), "JOB0000000000000XXXX")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListJobs_ActorScope(t *testing.T) {
	svc, db := setupJobService(t)
	alice := testutil.CreateUser(t, db, domain.RoleCustomer)
	bob := testutil.CreateUser(t, db, domain.RoleCustomer)
	vendor := testutil.CreateUser(t, db, domain.RoleVendor)
	admin := testutil.CreateUser(t, db, domain.RoleAdmin)

	aliceJob := testutil.CreateJob(t, db, alice, domain.JobStatusPending)
	bobJob := testutil.CreateJob(t, db, bob, domain.JobStatusAssigned)
	testutil.AssignJob(t, db, bobJob, vendor)

	jobs, total, err := svc.ListJobs(testutil.ContextFor(alice), 1, 20, nil, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, jobs, 1)
	assert.Equal(t, aliceJob.ID, jobs[0].ID)

	jobs, total, err = svc.ListJobs(testutil.ContextFor(vendor), 1, 20, nil, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, jobs, 1)
	assert.Equal(t, bobJob.ID, jobs[0].ID)

	_, total, err = svc.ListJobs(testutil.ContextFor(admin), 1, 20, nil, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestListJobs_StatusFilter(t *testing.T) {
	svc, db := setupJobService(t)
	admin := testutil.CreateUser(t, db, domain.RoleAdmin)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	testutil.CreateJob(t, db, customer, domain.JobStatusCompleted)

	status := domain.JobStatusCompleted
	jobs, total, err := svc.ListJobs(testutil.ContextFor(admin), 1, 20,
		&repository.JobFilters{Status: &status}, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobStatusCompleted, jobs[0].Status)
}

func TestGetStatusSummary(t *testing.T) {
	svc, db := setupJobService(t)
	admin := testutil.CreateUser(t, db, domain.RoleAdmin)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	testutil.CreateJob(t, db, customer, domain.JobStatusPending)
	testutil.CreateJob(t, db, customer, domain.JobStatusCompleted)

	summary, err := svc.GetStatusSummary(testutil.ContextFor(admin))
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(2), summary.Counts["PENDING"])
	assert.Equal(t, int64(1), summary.Counts["COMPLETED"])
}

func TestGetStatusMetadata(t *testing.T) {
	svc, _ := setupJobService(t)

	metadata := svc.GetStatusMetadata()
	require.NotEmpty(t, metadata)

	byStatus := make(map[domain.JobStatus]domain.StatusMetadata, len(metadata))
	for _, m := range metadata {
		byStatus[m.Status] = m
	}
	assert.Len(t, byStatus, 10)
	assert.False(t, byStatus[domain.JobStatusPending].Terminal)
	assert.True(t, byStatus[domain.JobStatusCompleted].Terminal)
	assert.True(t, byStatus[domain.JobStatusCancelled].Terminal)
}
