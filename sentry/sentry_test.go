package sentry

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_NoDSN(t *testing.T) {
	require.ErrorIs(t, Start("test", ""), errNoDSN)
	assert.False(t, enabled)
}

func TestDisabled_IsNoop(t *testing.T) {
	ctx := NewContext(context.Background(), "test")
	assert.Equal(t, "test", ctx.Value(taskKey))

	Breadcrumb(ctx, "nothing happens")
	Breadcrumb(context.Background(), "no task either", slog.LevelWarn)
	assert.Nil(t, CaptureErr(ctx, errors.New("boom")))
	assert.Nil(t, CaptureErr(ctx, nil))
}

func TestToSentryLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want sentry.Level
	}{
		{slog.LevelDebug, sentry.LevelDebug},
		{slog.LevelInfo, sentry.LevelInfo},
		{slog.LevelWarn, sentry.LevelWarning},
		{slog.LevelError, sentry.LevelError},
		{slog.LevelError + 4, sentry.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, toSentryLevel(tt.in))
		})
	}
}
