package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/provdir/internal/extract"
)

const (
	// MaxRetries is the number of extraction attempts per chunk.
	MaxRetries = 3

	maxBackoff = 30 * time.Second
)

// IsRetryable reports whether err is a transient extraction failure.
func IsRetryable(err error) bool {
	var re *extract.RetryableError
	return errors.As(err, &re)
}

// Backoff returns the wait before retry attempt n (0-indexed), with jitter.
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > maxBackoff {
		base = maxBackoff
	}
	return base + time.Duration(rand.Int64N(int64(base)/2))
}
