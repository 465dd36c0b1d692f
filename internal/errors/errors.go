// Package errors provides centralized error definitions and classification
// for the duet engine. It defines the error classes the orchestration
// flow distinguishes (cancellation, credential, transient) along with the
// StepError wrapper that carries step identity through the executor.
//
// Classification drives control flow:
//
//   - Cancellation always wins: never retried, reported once, unwinds the
//     whole flow.
//   - Credential errors are fatal to the session, bypass retry, and are
//     surfaced on a dedicated status channel.
//   - Everything else is transient and eligible for automatic retry.
//
// Callers import this package in place of the standard library's errors
// package; Is, As, New, Unwrap and Join are re-exported.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors for the engine's error taxonomy.
var (
	// ErrCancelled indicates the user stopped the session. Not an error
	// for reporting purposes beyond a single "stopped" notification.
	ErrCancelled = errors.New("operation cancelled by user")

	// ErrMissingAPIKey indicates no API key is configured for the active
	// provider.
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrInvalidAPIKey indicates the provider rejected the configured key.
	ErrInvalidAPIKey = errors.New("API key invalid or permission denied")

	// ErrQuotaExceeded indicates the provider reported quota exhaustion.
	// Transient: eligible for retry.
	ErrQuotaExceeded = errors.New("API quota exceeded")

	// ErrEmptyResponse indicates the provider returned no usable content.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrSessionBusy indicates a session flow is already in flight.
	ErrSessionBusy = errors.New("a session is already in progress")
)

// StepError wraps a failure of one orchestration step with the step's
// identity and the number of attempts made.
type StepError struct {
	Step     string
	Attempts int
	Err      error

	// Handled marks errors already reported to the transcript by the step
	// executor, so outer catch blocks do not report them again.
	Handled bool
}

// NewStepError creates a StepError wrapping err.
func NewStepError(step string, attempts int, err error) *StepError {
	return &StepError{Step: step, Attempts: attempts, Err: err}
}

func (e *StepError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("step %s failed after %d attempts: %v", e.Step, e.Attempts, e.Err)
	}
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// MarkHandled flags the error as already reported and returns it.
func (e *StepError) MarkHandled() *StepError {
	e.Handled = true
	return e
}

// IsCancellation reports whether err represents user cancellation,
// including context cancellation propagated from an aborted call.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// IsCredential reports whether err is a missing or invalid API key error.
func IsCredential(err error) bool {
	return errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrInvalidAPIKey)
}

// IsRetryable reports whether err is a transient failure the executor may
// retry automatically. Cancellation and credential errors are never
// retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !IsCancellation(err) && !IsCredential(err)
}

// IsHandled reports whether err (or an error it wraps) was already
// reported to the transcript.
func IsHandled(err error) bool {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Handled
	}
	return false
}
