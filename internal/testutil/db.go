// Package testutil provides the shared sqlite-backed database setup and
// fixture helpers used by the service and repository tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
)

// OpenDB opens a fresh in-memory sqlite database with the full schema
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the same
	// in-memory store; a plain ":memory:" DSN gives each connection its own.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Job{},
		&domain.Quote{},
		&domain.QuoteItem{},
		&domain.Message{},
		&domain.ProgressUpdate{},
		&domain.Feedback{},
		&domain.Notification{},
		&domain.StoredFile{},
	)
	require.NoError(t, err, "failed to migrate test schema")

	return db
}

// CreateUser inserts a user with the given role and returns it
func CreateUser(t *testing.T, db *gorm.DB, role domain.UserRoleType) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:     fmt.Sprintf("%s user", role),
		Email:    fmt.Sprintf("%s-%s@test.local", role, uuid.NewString()[:8]),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// ContextFor returns a request context authenticated as the given user
func ContextFor(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
		Roles:       []domain.UserRoleType{user.Role},
	})
}

// CreateJob inserts a job owned by the customer in the given status
func CreateJob(t *testing.T, db *gorm.DB, customer *domain.User, status domain.JobStatus) *domain.Job {
	t.Helper()

	job := &domain.Job{
		JobNumber:  JobNumber(),
		Title:      "Fix leaking kitchen tap",
		Category:   domain.JobCategoryPlumbing,
		Priority:   domain.JobPriorityMedium,
		Status:     status,
		City:       "Oslo",
		CustomerID: customer.ID,
		Version:    1,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// AssignJob sets the vendor on a job without going through the lifecycle
func AssignJob(t *testing.T, db *gorm.DB, job *domain.Job, vendor *domain.User) {
	t.Helper()

	err := db.Model(&domain.Job{}).Where("id = ?", job.ID).
		Update("vendor_id", vendor.ID).Error
	require.NoError(t, err)
	job.VendorID = &vendor.ID
}

// CreateQuote inserts a pending quote and marks it as the job's active quote
func CreateQuote(t *testing.T, db *gorm.DB, job *domain.Job, vendor *domain.User, amount float64, validUntil *time.Time) *domain.Quote {
	t.Helper()

	quote := &domain.Quote{
		JobID:      job.ID,
		VendorID:   vendor.ID,
		Amount:     amount,
		ValidUntil: validUntil,
		Status:     domain.QuoteStatusPending,
	}
	require.NoError(t, db.Create(quote).Error)

	err := db.Model(&domain.Job{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"active_quote_id": quote.ID,
		"total_amount":    amount,
		"subtotal":        amount,
	}).Error
	require.NoError(t, err)
	job.ActiveQuoteID = &quote.ID

	return quote
}

// JobNumber generates a unique, well-formed job number for fixtures
func JobNumber() string {
	return fmt.Sprintf("JOB%013dTEST", time.Now().UnixNano()%10_000_000_000_000)
}
