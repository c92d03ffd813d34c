package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

func TestRetrier_Retry(t *testing.T) {
	deadlock := &pgconn.PgError{Code: pgErrDeadlock}

	t.Run("succeeds without retry", func(t *testing.T) {
		r := NewRetrier(zerolog.Nop())

		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("retries deadlock until success", func(t *testing.T) {
		r := NewRetrier(zerolog.Nop())
		r.initialInterval = 0

		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return deadlock
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		r := NewRetrier(zerolog.Nop())
		r.initialInterval = 0

		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			return deadlock
		})
		if !errors.Is(err, deadlock) {
			t.Fatalf("expected deadlock error, got %v", err)
		}
		if calls != r.maxRetries+1 {
			t.Errorf("calls = %d, want %d", calls, r.maxRetries+1)
		}
	})

	t.Run("does not retry business errors", func(t *testing.T) {
		r := NewRetrier(zerolog.Nop())

		sentinel := errors.New("insufficient funds")
		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel, got %v", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, true},
		{"serialization failure", &pgconn.PgError{Code: pgErrSerializationFailure}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}
