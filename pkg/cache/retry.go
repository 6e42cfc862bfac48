package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a failure to reach a remote cache backend.
var ErrUnavailable = errors.New("cache backend unavailable")

// maxBackoff caps the delay between two attempts.
const maxBackoff = 2 * time.Second

// transientError marks an error worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// transient marks err as worth retrying. A nil err stays nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// retry calls fn up to attempts times while it fails with a transient
// error, doubling delay after each failure up to maxBackoff. Other errors
// end the loop at once.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, maxBackoff)
	}
	return err
}
