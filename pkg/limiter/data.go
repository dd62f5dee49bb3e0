package limiter

import "time"

// hostTiming tracks per-host politeness state.
type hostTiming struct {
	lastFetchAt  time.Time
	backoffCount int
	backoffDelay time.Duration
}
