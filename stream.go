package distill

import "time"

// StreamConfig tunes an aggregator. The zero value is not useful; start from
// DefaultStreamConfig.
type StreamConfig struct {
	// MaxRetries bounds how many consecutive lines may be joined to recover
	// a frame split across lines before the fragment is dropped.
	MaxRetries int

	// Throttle is the minimum spacing between progressive updates once the
	// buffer holds MinEagerChars or more bytes.
	Throttle time.Duration

	// MinEagerChars is the buffer length below which every delta produces a
	// progressive update, so the first output shows up immediately.
	MinEagerChars int

	// InactivityTimeout fails the session when no data arrives for this long.
	// Zero disables it, which matches the behavior of a plain blocking read.
	InactivityTimeout time.Duration
}

// DefaultStreamConfig returns the standard tuning.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		MaxRetries:    5,
		Throttle:      1000 * time.Millisecond,
		MinEagerChars: 100,
	}
}

// SessionState indicates where a stream session is in its lifecycle.
//
// Transitions: Idle -> Streaming -> {Retrying <-> Streaming} -> Done | Failed.
// Cancelled may be entered from any non-terminal state. No state leads back
// to Idle.
type SessionState int

const (
	SessionIdle      SessionState = iota // Created, not yet reading.
	SessionStreaming                     // Reading frames.
	SessionRetrying                      // Holding a fragment that failed to decode.
	SessionDone                          // Finished with a parsed result.
	SessionFailed                        // Finished with a transport or repair failure.
	SessionCancelled                     // Stopped by the caller; no result.
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionStreaming:
		return "streaming"
	case SessionRetrying:
		return "retrying"
	case SessionDone:
		return "done"
	case SessionFailed:
		return "failed"
	case SessionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a final state.
func (s SessionState) Terminal() bool {
	return s == SessionDone || s == SessionFailed || s == SessionCancelled
}
