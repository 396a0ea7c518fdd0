// ABOUTME: Error kinds shared across the pipeline
// ABOUTME: Callers distinguish user-facing rejections from infrastructure failures via errors.Is
package models

import "errors"

var (
	// ErrValidation marks input of the wrong shape or length (blank question,
	// over-long question, zero output ceiling).
	ErrValidation = errors.New("validation failed")

	// ErrModeration marks content rejected by the moderation provider, either
	// the question or a generated reply.
	ErrModeration = errors.New("flagged by moderation")

	// ErrPrecondition marks a missing required collaborator or state, such as
	// an empty corpus or an absent moderation provider.
	ErrPrecondition = errors.New("precondition failed")

	// ErrCorrelation marks a batch result join failure: an input display key
	// with no matching output line. Fatal for the whole job, no partial results.
	ErrCorrelation = errors.New("batch correlation failed")

	// ErrProvider marks an opaque failure from an external service. Not
	// retried by the components that surface it.
	ErrProvider = errors.New("provider call failed")

	// ErrBatchJobFailed marks a batch job that reached a terminal
	// failed/expired/cancelled status.
	ErrBatchJobFailed = errors.New("batch job failed")

	// ErrBatchDeadline marks a batch poll loop that gave up after its
	// configured deadline.
	ErrBatchDeadline = errors.New("batch job deadline exceeded")
)
