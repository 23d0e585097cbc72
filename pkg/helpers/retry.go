package helpers

import (
	"context"
	"math/rand"
	"time"
)

// RetryContext calls fn until it succeeds, it has been retried times times,
// or ctx is done. The last error from fn is returned.
func RetryContext(ctx context.Context, times int, interval time.Duration, fn func() error) error {
	i := 0

	for {
		err := fn()
		if err == nil {
			return nil
		}

		i++

		if i > times {
			return err
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(interval + jitter(interval)):
		}
	}
}

// up to 5% of interval
func jitter(interval time.Duration) time.Duration {
	if n := int64(interval / 20); n > 0 {
		return time.Duration(rand.Int63n(n))
	}

	return 0
}
