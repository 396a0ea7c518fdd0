// ABOUTME: Retry backoff used by the OpenAI adapter
// ABOUTME: The pipeline components themselves never retry; only the provider edge does
package util

import (
	"math/rand/v2"
	"time"
)

// maxBackoff caps the delay between attempts regardless of attempt count.
const maxBackoff = 30 * time.Second

// Backoff returns the delay before the given retry attempt: base doubled per
// attempt, capped at 30s, with up to ±25% jitter. Attempt 0 is the initial
// call and gets no delay.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 || base <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30 // avoid overflow in the shift
	}

	delay := base << uint(attempt)
	if delay > maxBackoff || delay <= 0 {
		delay = maxBackoff
	}

	jitter := time.Duration(rand.Int64N(int64(delay)/2)) - delay/4
	return delay + jitter
}
