package distill

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrCancelled indicates the caller cancelled a session. A cancelled
	// session never produces a Result.
	ErrCancelled = errors.New("session cancelled")

	// ErrUnknownProvider indicates a provider name could not be resolved.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInactive indicates the transport produced no data within the
	// configured inactivity timeout.
	ErrInactive = errors.New("transport inactive")
)

// TransportError reports a non-2xx HTTP response or a network failure while
// opening or reading a stream. It is never retried by this module.
type TransportError struct {
	Provider   Provider
	StatusCode int    // 0 for network failures
	Message    string // response body message, if any
	Err        error  // underlying cause, if any
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("transport")
	if e.Provider != "" {
		b.WriteString(" (")
		b.WriteString(string(e.Provider))
		b.WriteString(")")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// RepairFailure reports that a finished buffer could not be parsed, neither
// as-is nor after any repair strategy. All three parse errors are kept so the
// caller can show them together next to the raw text.
type RepairFailure struct {
	OriginalError string
	BasicError    string
	AdvancedError string
	RawText       string
	Attempts      []RepairAttempt
}

func (e *RepairFailure) Error() string {
	return fmt.Sprintf("repair failed: original: %s; basic: %s; advanced: %s",
		e.OriginalError, e.BasicError, e.AdvancedError)
}

// Interface compliance checks.
var (
	_ error = (*TransportError)(nil)
	_ error = (*RepairFailure)(nil)
)
