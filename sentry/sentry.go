package sentry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
)

var enabled bool

var errNoDSN = errors.New("sentry disabled: no dsn configured")

func Start(release string, dsn string) error {
	if dsn == "" {
		return errNoDSN
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:       dsn,
		Release:   "zayit-installer@" + release,
		Transport: sentry.NewHTTPSyncTransport(),
	}); err != nil {
		return err
	}
	enabled = true
	return nil
}

func Flush(timeout time.Duration) {
	if enabled {
		sentry.Flush(timeout)
	}
}

type contextKey string

const taskKey contextKey = "task"

// NewContext returns parent carrying a cloned hub tagged with task.
func NewContext(parent context.Context, task string) context.Context {
	ctx := context.WithValue(parent, taskKey, task)
	if !enabled {
		return ctx
	}
	name, _ := os.Hostname()
	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("Task", task)
		scope.SetTag("OS", runtime.GOOS)
		scope.SetTag("Arch", runtime.GOARCH)
		scope.SetUser(sentry.User{Name: name})
		scope.SetLevel(sentry.LevelInfo)
	})
	return sentry.SetHubOnContext(ctx, localHub)
}

func Breadcrumb(ctx context.Context, desc string, level ...slog.Level) {
	if !enabled {
		return
	}
	lvl := slog.LevelInfo
	if len(level) != 0 {
		lvl = level[0]
	}
	task, _ := ctx.Value(taskKey).(string)
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Category: task,
			Message:  desc,
			Level:    toSentryLevel(lvl),
		}, nil)
	}
}

// CaptureErr reports an error to Sentry but does not exit the program.
func CaptureErr(ctx context.Context, err error) *sentry.EventID {
	if err == nil || !enabled {
		return nil
	}
	Breadcrumb(ctx, err.Error(), slog.LevelError)
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub.CaptureException(err)
	}
	return sentry.CaptureException(err)
}

func toSentryLevel(lvl slog.Level) sentry.Level {
	switch {
	case lvl >= slog.LevelError:
		return sentry.LevelError
	case lvl >= slog.LevelWarn:
		return sentry.LevelWarning
	case lvl >= slog.LevelInfo:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
