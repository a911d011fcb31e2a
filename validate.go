package distill

import (
	"fmt"
	"strings"
)

// Validate checks universal constraints on Request.
// Opener implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt must not be empty: %w", ErrValidation)
	}
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	return nil
}

// Validate checks that c can drive an aggregator.
func (c StreamConfig) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d: %w", c.MaxRetries, ErrValidation)
	}
	if c.Throttle < 0 {
		return fmt.Errorf("throttle must be non-negative, got %s: %w", c.Throttle, ErrValidation)
	}
	if c.MinEagerChars < 0 {
		return fmt.Errorf("min_eager_chars must be non-negative, got %d: %w", c.MinEagerChars, ErrValidation)
	}
	if c.InactivityTimeout < 0 {
		return fmt.Errorf("inactivity_timeout must be non-negative, got %s: %w", c.InactivityTimeout, ErrValidation)
	}
	return nil
}
