package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlane/marketplace-api/internal/domain"
)

func TestProgressStageOrdering(t *testing.T) {
	ordered := []domain.ProgressStage{
		domain.StagePaymentReceived,
		domain.StageMaterialsOrdered,
		domain.StageWorkScheduled,
		domain.StageWorkInProgress,
		domain.StageWorkCompleted,
		domain.StageCustomerApproval,
		domain.StageJobClosed,
	}
	for i, stage := range ordered {
		assert.True(t, stage.IsValid())
		assert.Equal(t, i+1, stage.Rank())
	}

	unknown := domain.ProgressStage("PACKING_UP")
	assert.False(t, unknown.IsValid())
	assert.Equal(t, 0, unknown.Rank())
}

func TestJobStatusTerminal(t *testing.T) {
	terminal := []domain.JobStatus{
		domain.JobStatusCompleted,
		domain.JobStatusCancelled,
		domain.JobStatusRejected,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
	}

	active := []domain.JobStatus{
		domain.JobStatusPending,
		domain.JobStatusAssigned,
		domain.JobStatusInDiscussion,
		domain.JobStatusQuoteSent,
		domain.JobStatusQuoteAccepted,
		domain.JobStatusPaid,
		domain.JobStatusInProgress,
	}
	for _, s := range active {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}

func TestStatusMetadataMatchesStatuses(t *testing.T) {
	metadata := domain.AllStatusMetadata()
	require.Len(t, metadata, 10)

	for _, meta := range metadata {
		assert.True(t, meta.Status.IsValid())
		assert.NotEmpty(t, meta.Label)
		assert.Equal(t, meta.Status.IsTerminal(), meta.Terminal,
			"terminal flag disagrees for %s", meta.Status)
		if meta.Terminal {
			assert.Empty(t, meta.AllowedActions)
		} else {
			assert.NotEmpty(t, meta.AllowedActions)
		}
	}

	meta, ok := domain.MetadataFor(domain.JobStatusQuoteSent)
	require.True(t, ok)
	assert.Contains(t, meta.AllowedActions, domain.ActionAcceptQuote)
	assert.Contains(t, meta.AllowedActions, domain.ActionRejectQuote)
	assert.Contains(t, meta.AllowedActions, domain.ActionResendQuote)

	_, ok = domain.MetadataFor(domain.JobStatus("LIMBO"))
	assert.False(t, ok)
}

func TestActionAllowed(t *testing.T) {
	assert.True(t, domain.ActionAllowed(domain.JobStatusQuoteSent, domain.ActionAcceptQuote))
	assert.True(t, domain.ActionAllowed(domain.JobStatusAssigned, domain.ActionCancel))
	assert.False(t, domain.ActionAllowed(domain.JobStatusPending, domain.ActionAcceptQuote))
	assert.False(t, domain.ActionAllowed(domain.JobStatusCompleted, domain.ActionPostProgress))
	assert.False(t, domain.ActionAllowed(domain.JobStatus("LIMBO"), domain.ActionCancel))
}

func TestMessageTypeValidity(t *testing.T) {
	for _, mt := range []domain.MessageType{
		domain.MessageTypeText,
		domain.MessageTypeQuote,
		domain.MessageTypeContactInfo,
		domain.MessageTypeSystem,
	} {
		assert.True(t, mt.IsValid())
	}
	assert.False(t, domain.MessageType("VOICE").IsValid())
}

func TestUserRoleValidity(t *testing.T) {
	for _, r := range []domain.UserRoleType{
		domain.RoleCustomer,
		domain.RoleVendor,
		domain.RoleAdmin,
		domain.RoleAPIService,
	} {
		assert.True(t, r.IsValid())
	}
	assert.False(t, domain.UserRoleType("root").IsValid())
}
