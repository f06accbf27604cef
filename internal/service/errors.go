package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrPermissionDenied is returned when the actor's role does not allow the action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthorized is returned when the caller is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition is returned when an action is not legal from the
	// job's current status; the job is left untouched
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrVersionConflict is returned when the expected-version precondition
	// fails; the caller should re-read the job and retry
	ErrVersionConflict = errors.New("job was modified concurrently")

	// ErrQuoteExpired is returned when a quote reference is stale (superseded
	// since the client last read it) or its validity deadline has passed
	ErrQuoteExpired = errors.New("quote expired")

	// ErrInvalidQuote is returned when a quote payload has neither a
	// breakdown nor a positive amount
	ErrInvalidQuote = errors.New("invalid quote")

	// ErrAmountMismatch is returned when a payment confirmation amount does
	// not match the accepted quote's amount exactly
	ErrAmountMismatch = errors.New("payment amount does not match quote")

	// ErrOutOfOrderStage is returned when a progress stage would regress
	// below the highest stage already recorded for the job
	ErrOutOfOrderStage = errors.New("progress stage out of order")

	// ErrFeedbackNotAllowed is returned when feedback is submitted before the
	// job has reached WORK_COMPLETED
	ErrFeedbackNotAllowed = errors.New("feedback not available yet")

	// ErrFeedbackExists is returned on a second feedback submission for the same job
	ErrFeedbackExists = errors.New("feedback already submitted")

	// ErrUserNotFound is returned when a referenced user does not exist
	ErrUserNotFound = errors.New("user not found")
)
