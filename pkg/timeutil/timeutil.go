package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// DurationPtr is a helper to create a pointer to a time.Duration
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

// MaxDuration returns the largest duration in the slice, or zero for an
// empty slice.
func MaxDuration(durations []time.Duration) time.Duration {
	var max time.Duration
	for _, d := range durations {
		if d > max {
			max = d
		}
	}
	return max
}

// ExponentialBackoffDelay computes the delay before the next retry attempt.
// attempt is 1-based: the first backoff (attempt=1) returns the initial
// duration. The computed delay is capped at BackoffParam.MaxDuration, then
// a pseudo-random jitter in [0, jitter) is added on top of the cap.
func ExponentialBackoffDelay(
	attempt int,
	jitter time.Duration,
	rng rand.Rand,
	backoffParam BackoffParam,
) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	exponent := float64(attempt - 1)
	delay := float64(backoffParam.InitialDuration()) * math.Pow(backoffParam.Multiplier(), exponent)
	if delay > float64(backoffParam.MaxDuration()) {
		delay = float64(backoffParam.MaxDuration())
	}

	if jitter > 0 {
		delay += float64(time.Duration(rng.Int63n(int64(jitter))))
	}

	return time.Duration(delay)
}
