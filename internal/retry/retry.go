package retry

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrTooManyAttempts = errors.New("too many retry attempts")

type Callable func(attempt int) error

type retryError struct {
	error
	attempt int
}

// Error marks err as recoverable so the loop keeps going.
// A plain error returned from a Callable stops retrying immediately.
func Error(err error, attempt int) error {
	if err == nil {
		return nil
	}

	return &retryError{error: err, attempt: attempt}
}

// Incremental retries cb with a linearly growing pause between attempts:
// step, 2*step and so on, up to maxAttempts.
func Incremental(ctx context.Context, step time.Duration, maxAttempts int, cb Callable) error {
	pause := time.Duration(0)

	for attempt := 1; ; attempt++ {
		err := cb(attempt)
		if err == nil {
			return nil
		}

		if _, ok := err.(*retryError); !ok {
			return errors.Wrapf(err, "attempt %d failed", attempt)
		}

		if attempt >= maxAttempts {
			return ErrTooManyAttempts
		}

		pause += step

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
}
