package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsSQLiteConflictError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", errors.New("step: SQLITE_BUSY"), true},
		{"locked", errors.New("database is locked (5)"), true},
		{"other", errors.New("no such table: stats"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSQLiteConflictError(tt.err); got != tt.want {
				t.Errorf("IsSQLiteConflictError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryOnConflict_RetriesBusy(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, "op",
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("SQLITE_BUSY")
			}
			return nil
		})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetryOnConflict_StopsOnOtherError(t *testing.T) {
	calls := 0
	sentinel := errors.New("constraint failed")
	err := RetryOnConflict(context.Background(), RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}, "op",
		func(context.Context) error {
			calls++
			return sentinel
		})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Expected wrapped sentinel, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestIsInvalidArgument(t *testing.T) {
	err := fmt.Errorf("enumerate: n=-1: %w", ErrInvalidArgument)
	if !IsInvalidArgument(err) {
		t.Error("Expected wrapped error to match ErrInvalidArgument")
	}
	if IsInvalidArgument(errors.New("boom")) {
		t.Error("Expected unrelated error not to match")
	}
}
