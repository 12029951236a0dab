package infra

import (
	"time"
)

const (
	backoffBase = 1 * time.Second
	backoffMax  = 60 * time.Second
)

// Backoff returns the exponential backoff duration for a given attempt
// count: base * 2^attempt, capped at backoffMax. A negative attempt count
// returns the base delay.
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		return backoffBase
	}

	// 2^31 seconds already exceeds the cap by orders of magnitude; bail
	// out before the shift can overflow.
	if attempt > 30 {
		return backoffMax
	}

	d := backoffBase * time.Duration(1<<attempt)
	if d > backoffMax {
		return backoffMax
	}
	return d
}
