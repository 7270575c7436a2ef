package generation

import (
	"context"
	"time"

	"github.com/phrazzld/flashdeck-api/internal/config"
)

// RetryPolicy bounds the retries of retryable failures.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy allows 4 attempts with delays of 1s, 2s and 4s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// RetryPolicyFromConfig builds a RetryPolicy from the LLM settings.
func RetryPolicyFromConfig(cfg config.LLMConfig) RetryPolicy {
	return RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  time.Duration(cfg.BaseRetryDelayMS) * time.Millisecond,
		MaxDelay:   time.Duration(cfg.MaxRetryDelayMS) * time.Millisecond,
	}
}

// Delay returns the wait before the retry that follows the given zero-based
// attempt: min(BaseDelay * 2^attempt, MaxDelay).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt && d < p.MaxDelay; i++ {
		d *= 2
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Attempts returns the total number of calls the policy allows.
func (p RetryPolicy) Attempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// Sleeper blocks for d or until ctx is done, returning ctx.Err() in the latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// attemptState is the outcome of one provider call.
type attemptState int

const (
	stateAttempting attemptState = iota
	stateSucceeded
	stateFailedRetryable
	stateFailedFatal
)

func (s attemptState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateSucceeded:
		return "succeeded"
	case stateFailedRetryable:
		return "failed_retryable"
	case stateFailedFatal:
		return "failed_fatal"
	default:
		return "unknown"
	}
}

// nextState resolves an attempting call into its terminal state for that attempt.
func nextState(err error) (attemptState, error) {
	if err == nil {
		return stateSucceeded, nil
	}
	kind, retryable := Classify(err)
	if retryable {
		return stateFailedRetryable, kind
	}
	return stateFailedFatal, kind
}
