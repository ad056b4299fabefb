package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	errDown := errors.New("connection refused")

	tests := []struct {
		name      string
		failures  int
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, 3, 1, false},
		{"third try", 2, 3, 3, false},
		{"exhausted", 5, 3, 3, true},
		{"zero attempts runs once", 5, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retry(context.Background(), tt.attempts, time.Millisecond, func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return errDown
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errDown) {
				t.Errorf("retry() = %v, want the last attempt's error", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry(ctx, 5, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("retry() = %v after %d calls, want context.Canceled after 1", err, calls)
	}
}
