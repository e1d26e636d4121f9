package executor

import (
	"github.com/cenkalti/backoff/v4"
)

// newBackoff returns the retry schedule for o: delay before retry n is
// min(RetryDelay * BackoffMultiplier^n, MaxRetryDelay), without jitter.
func newBackoff(o Options) *backoff.ExponentialBackOff {
	initial := o.RetryDelay
	if initial > o.MaxRetryDelay {
		initial = o.MaxRetryDelay
	}
	b := &backoff.ExponentialBackOff{
		InitialInterval:     initial,
		RandomizationFactor: 0,
		Multiplier:          o.BackoffMultiplier,
		MaxInterval:         o.MaxRetryDelay,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}
