package spotify

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/replay/internal/core/ports"
)

func TestRetryPolicy_SucceedsAfterFailures(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3}

	calls := 0
	err := policy.call(context.Background(), zap.NewNop(), "test", func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryPolicy_Exhausted(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2}

	calls := 0
	err := policy.call(context.Background(), zap.NewNop(), "test", func() error {
		calls++
		return errors.New("boom")
	})
	if !errors.Is(err, ports.ErrRetriesExceeded) {
		t.Fatalf("expected ErrRetriesExceeded, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryPolicy_StopsOnContextCancel(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, Delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- policy.call(ctx, zap.NewNop(), "test", func() error {
			calls++
			return errors.New("boom")
		})
	}()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("retry did not stop on cancel")
	}
	if calls > 1 {
		t.Fatalf("expected at most 1 call before cancel, got %d", calls)
	}
}

func TestRetryPolicy_ZeroAttemptsRunsOnce(t *testing.T) {
	policy := RetryPolicy{}

	calls := 0
	err := policy.call(context.Background(), zap.NewNop(), "test", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}
