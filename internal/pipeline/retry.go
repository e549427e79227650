package pipeline

import (
	"math/rand/v2"
	"time"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/generator"
)

// IsRetryable checks if a generation error is worth retrying. Only output
// writes can fail transiently; bad items and missing templates never recover.
func IsRetryable(err error) bool {
	return generator.KindOf(err) == generator.WriteFailed
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * 250 * time.Millisecond
	if base > 5*time.Second {
		base = 5 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3
