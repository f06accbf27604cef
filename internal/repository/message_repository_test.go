package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/repository"
	"github.com/fixlane/marketplace-api/internal/testutil"
)

func TestCreateWithSeq_PerJobSequences(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewMessageRepository(db)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	jobA := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	jobB := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		msg := &domain.Message{JobID: jobA.ID, Type: domain.MessageTypeText, Content: "a"}
		require.NoError(t, repo.CreateWithSeq(ctx, nil, msg))
		assert.Equal(t, int64(i+1), msg.Seq)
	}

	// Sequences are independent per job
	msg := &domain.Message{JobID: jobB.ID, Type: domain.MessageTypeText, Content: "b"}
	require.NoError(t, repo.CreateWithSeq(ctx, nil, msg))
	assert.Equal(t, int64(1), msg.Seq)
}

func TestCreateWithSeq_UniqueIndexRejectsDuplicates(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewMessageRepository(db)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	ctx := context.Background()

	msg := &domain.Message{JobID: job.ID, Type: domain.MessageTypeText, Content: "first"}
	require.NoError(t, repo.CreateWithSeq(ctx, nil, msg))
	require.Equal(t, int64(1), msg.Seq)

	// A writer that claims an already-taken sequence is rejected as a
	// duplicate key, which is what the retry in CreateWithSeq keys on
	err := db.Create(&domain.Message{
		JobID: job.ID, Seq: 1, Type: domain.MessageTypeText, Content: "imposter",
	}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The sequence path remains usable after the rejected insert
	next := &domain.Message{JobID: job.ID, Type: domain.MessageTypeText, Content: "second"}
	require.NoError(t, repo.CreateWithSeq(ctx, nil, next))
	assert.Equal(t, int64(2), next.Seq)
}

func TestListSince(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewMessageRepository(db)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusInDiscussion)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateWithSeq(ctx, nil, &domain.Message{
			JobID: job.ID, Type: domain.MessageTypeText, Content: "m",
		}))
	}

	messages, err := repo.ListSince(ctx, job.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, int64(3), messages[0].Seq)
	assert.Equal(t, int64(5), messages[2].Seq)

	messages, err = repo.ListSince(ctx, job.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	latest, err := repo.LatestSeq(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), latest)
}

func TestLatestSeq_EmptyJob(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewMessageRepository(db)
	customer := testutil.CreateUser(t, db, domain.RoleCustomer)
	job := testutil.CreateJob(t, db, customer, domain.JobStatusPending)

	latest, err := repo.LatestSeq(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), latest)
}
