// Package orchestrator drives the Cognito/Muse discussion flow: the
// opening analysis, the alternating turn loop, the final synthesis, and
// the retry and resume machinery around each generation step.
//
// A flow runs on the caller's goroutine; the TUI starts it on its own
// goroutine and observes progress through the chat log's change
// notifications. Cancellation is cooperative via CancelGuard and the
// step context.
package orchestrator
