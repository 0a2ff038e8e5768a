package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var errAppNotFound = errors.New("L'application n'a pas pu être trouvée après l'installation.")

// Launcher starts the freshly installed application.
type Launcher interface {
	Launch(ctx context.Context, path string) error
}

// appLauncher waits for the executable to show up, since the installer may
// still be flushing files when it exits, then starts it detached.
type appLauncher struct {
	Delay    time.Duration
	Interval time.Duration
	Attempts int

	start  func(path string) error
	exists func(path string) bool
	logger *slog.Logger
}

func newAppLauncher(logger *slog.Logger) *appLauncher {
	return &appLauncher{
		Delay:    launchDelay,
		Interval: launchInterval,
		Attempts: launchAttempts,
		start:    startDetached,
		exists:   fileExists,
		logger:   logger,
	}
}

func (l *appLauncher) Launch(ctx context.Context, path string) error {
	timer := time.NewTimer(l.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	attempts := max(l.Attempts, 1)
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(l.Interval), uint64(attempts-1)),
		ctx,
	)

	op := func() error {
		if !l.exists(path) {
			return errAppNotFound
		}
		if err := l.start(path); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to start %s: %w", path, err))
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		l.logger.Debug("application not ready yet", "path", path, "err", err, "retry_in", wait)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return err
	}
	l.logger.Info("application started", "path", path)
	return nil
}
