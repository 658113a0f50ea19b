package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level   string
		allowed slog.Level
		blocked slog.Level
	}{
		{"error", slog.LevelError, slog.LevelWarn},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"warning", slog.LevelWarn, slog.LevelInfo},
		{" INFO ", slog.LevelInfo, slog.LevelDebug},
	}

	ctx := context.Background()
	for _, tc := range cases {
		logger := New(tc.level)
		if !logger.Enabled(ctx, tc.allowed) {
			t.Fatalf("level %q should allow %s", tc.level, tc.allowed)
		}
		if logger.Enabled(ctx, tc.blocked) {
			t.Fatalf("level %q should block %s", tc.level, tc.blocked)
		}
	}
}

func TestNewUnknownLevelFallsBackToDebug(t *testing.T) {
	t.Parallel()

	logger := New("chatty")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("unknown level should keep debug enabled")
	}
}
