package errors

import (
	"context"
	"fmt"
	"testing"
)

func TestIsCancellation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrCancelled, true},
		{"wrapped sentinel", fmt.Errorf("call: %w", ErrCancelled), true},
		{"context canceled", context.Canceled, true},
		{"other", New("boom"), false},
		{"credential", ErrInvalidAPIKey, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCancellation(tt.err); got != tt.want {
				t.Errorf("IsCancellation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsCredential(t *testing.T) {
	if !IsCredential(ErrMissingAPIKey) {
		t.Error("ErrMissingAPIKey should classify as credential")
	}
	if !IsCredential(fmt.Errorf("gemini: %w", ErrInvalidAPIKey)) {
		t.Error("wrapped ErrInvalidAPIKey should classify as credential")
	}
	if IsCredential(ErrQuotaExceeded) {
		t.Error("quota errors are transient, not credential")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transient", New("connection reset"), true},
		{"quota", ErrQuotaExceeded, true},
		{"cancelled", ErrCancelled, false},
		{"missing key", ErrMissingAPIKey, false},
		{"invalid key", ErrInvalidAPIKey, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStepError(t *testing.T) {
	base := New("server error")
	err := NewStepError("muse-turn-2", 3, base)

	if !Is(err, base) {
		t.Error("StepError should unwrap to its cause")
	}
	if IsHandled(err) {
		t.Error("fresh StepError should not be handled")
	}

	err.MarkHandled()
	if !IsHandled(err) {
		t.Error("MarkHandled should make IsHandled true")
	}
	if !IsHandled(fmt.Errorf("outer: %w", err)) {
		t.Error("IsHandled should see through wrapping")
	}

	want := "step muse-turn-2 failed after 3 attempts: server error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	single := NewStepError("final", 1, base)
	if single.Error() != "step final failed: server error" {
		t.Errorf("Error() = %q", single.Error())
	}
}
