package util

import (
	"context"
	"time"
)

// Retry executes fn until it returns retry=false, the timeout elapses or ctx
// is done. Waits double from 200ms up to 2s and the last error is returned.
func Retry(ctx context.Context, timeout time.Duration, fn func() (retry bool, err error)) error {
	deadline := time.Now().Add(timeout)
	backoff := 200 * time.Millisecond

	for {
		retry, err := fn()
		if !retry || time.Now().After(deadline) {
			return err
		}
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			if err != nil {
				return err
			}
			return ctx.Err()
		case <-t.C:
		}
		if backoff < 2*time.Second {
			backoff *= 2
		}
	}
}
