package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/framehubio/framehub/pkg/utils/retry"
)

func TestBlocking(t *testing.T) {
	t.Run("it returns the first success", func(t *testing.T) {
		ctx := context.Background()
		attempt := 0
		value, err := retry.Blocking(ctx, retry.NoBackoff(), func() (int, error) {
			attempt += 1
			if attempt < 3 {
				return 0, fmt.Errorf("not yet: %w", retry.ErrRetry)
			}
			return 42, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if value != 42 {
			t.Errorf("unexpected value: %d", value)
		}
		if attempt != 3 {
			t.Errorf("unexpected attempt count: %d", attempt)
		}
	})

	t.Run("it stops at a non-retry error", func(t *testing.T) {
		ctx := context.Background()
		fatal := errors.New("fatal")
		attempt := 0
		_, err := retry.Blocking(ctx, retry.NoBackoff(), func() (int, error) {
			attempt += 1
			return 0, fatal
		})
		if !errors.Is(err, fatal) {
			t.Errorf("unexpected error: %v", err)
		}
		if attempt != 1 {
			t.Errorf("unexpected attempt count: %d", attempt)
		}
	})

	t.Run("it stops when context is canceled during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := retry.Blocking(ctx, retry.StaticBackoff(10*time.Second), func() (int, error) {
			t.Fatal("f should not be called")
			return 0, nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestExponentialBackoff(t *testing.T) {
	t.Run("it grows the interval by ratio", func(t *testing.T) {
		ctx := context.Background()
		b := retry.ExponentialBackoff(time.Millisecond, 2)

		start := time.Now()
		for i := 0; i < 3; i++ { // waits 1ms + 2ms + 4ms
			if err := b(ctx); err != nil {
				t.Fatal(err)
			}
		}
		if elapsed := time.Since(start); elapsed < 7*time.Millisecond {
			t.Errorf("backoff returned too early: %s", elapsed)
		}
	})
}
