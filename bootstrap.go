package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seforimapp/zayit-installer/install"
	"github.com/seforimapp/zayit-installer/sentry"
	"github.com/seforimapp/zayit-installer/ui"
)

type installer interface {
	Run(ctx context.Context) (install.Result, error)
	Done() bool
	Progress() uint32
}

type Bootstrapper struct {
	os     OperatingSystem
	arch   Architecture
	logger *slog.Logger

	image     *ui.Image
	splash    *ui.Splash
	installer installer
	launcher  Launcher
	appPath   string

	// notify shows the one error the user is allowed to see.
	notify func(ctx context.Context, err error) error

	frameInterval time.Duration
	loopSleep     time.Duration
	joinTimeout   time.Duration
	linger        time.Duration
}

// setup builds every collaborator from cfg. Failures here are fatal.
func (b *Bootstrapper) setup(ctx context.Context, cfg *Config, splash []byte) error {
	b.Breadcrumb(ctx, "decoding splash image")
	img, err := ui.DecodeImage(splash, cfg.Scale)
	if err != nil {
		return fmt.Errorf("failed to decode splash image: %w", err)
	}
	b.image = img
	b.splash = ui.NewSplash(ui.NewBackend(WindowTitle, b.logger), img.Width, img.Height, b.logger)

	payload := bundledPayload()
	if cfg.PayloadURL != "" {
		payload = install.RemotePayload{
			URL:    cfg.PayloadURL,
			Client: newDownloadClient(b.os, b.arch),
			Logger: b.logger,
		}
	}
	if payload == nil {
		return install.ErrNoPayload
	}

	b.installer = install.NewDriver(install.Config{Command: cfg.Installer}, payload, install.ExecRunner{}, b.logger)
	b.launcher = newAppLauncher(b.logger)
	b.appPath = installedAppPath(b.os, cfg.AppName, cfg.AppExecutable)
	b.notify = func(ctx context.Context, err error) error {
		return ui.DisplayError(ctx, ErrorTitle, err)
	}

	b.frameInterval = frameInterval
	b.loopSleep = loopSleep
	b.joinTimeout = joinTimeout
	b.linger = cfg.Linger
	return nil
}

// run shows the splash for the whole installation, then launches the
// application. It only returns an error when the installer payload could
// not be written.
func (b *Bootstrapper) run(c context.Context) error {
	ctx := sentry.NewContext(c, "install")

	var result install.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := b.installer.Run(gctx)
		result = res
		return err
	})

	anim := ui.NewAnimator()
	frame := ui.Compose(b.image, 0)
	if err := b.splash.Open(frame); err != nil {
		// Maintain keeps trying.
		b.Breadcrumb(ctx, fmt.Sprintf("failed to open splash window: %v", err), slog.LevelWarn)
	}

	start := time.Now()
	var lastFrame time.Time
	for !b.installer.Done() {
		now := time.Now()
		b.splash.Pump()
		if now.Sub(lastFrame) >= b.frameInterval {
			lastFrame = now
			p := anim.Tick(b.installer.Progress(), now.Sub(start))
			frame = ui.ComposeInto(frame, b.image, p)
			b.splash.Update(frame)
		}
		b.splash.Maintain(now, frame)
		time.Sleep(b.loopSleep)
	}

	b.Breadcrumb(ctx, "installation finished, completing progress bar")
	anim.Finish(ui.DefaultFinishStep, func(p float32) {
		frame = ui.ComposeInto(frame, b.image, p)
		b.splash.Pump()
		b.splash.Update(frame)
		b.splash.Maintain(time.Now(), frame)
		time.Sleep(b.frameInterval)
	})

	joined := make(chan error, 1)
	go func() {
		joined <- g.Wait()
	}()
	ok, err := b.pumpUntil(joined, b.joinTimeout, frame)
	switch {
	case !ok:
		b.Breadcrumb(ctx, "installer did not finish in time, continuing", slog.LevelWarn)
	case err != nil:
		b.splash.Close()
		return err
	case result.Err != nil:
		b.Breadcrumb(ctx, fmt.Sprintf("installer could not run: %v", result.Err), slog.LevelError)
	case result.ExitCode != 0:
		b.Breadcrumb(ctx, fmt.Sprintf("installer exited with code %d after %s", result.ExitCode, result.Elapsed), slog.LevelWarn)
	default:
		b.Breadcrumb(ctx, fmt.Sprintf("installer succeeded after %s", result.Elapsed))
	}

	b.splash.AllowClose()

	b.Breadcrumb(ctx, "launching "+b.appPath)
	launched := make(chan error, 1)
	go func() {
		launched <- b.launcher.Launch(ctx, b.appPath)
	}()
	if _, err = b.pumpUntil(launched, 0, frame); err != nil {
		b.logger.ErrorContext(ctx, "failed to launch application", "path", b.appPath, "err", err)
		b.CaptureErr(ctx, b.notify(ctx, err))
	}

	b.pumpUntil(nil, b.linger, frame)
	b.splash.Close()
	return nil
}

// pumpUntil keeps the splash responsive until ch delivers or timeout
// elapses. A zero timeout waits for ch alone; a nil ch waits for timeout.
func (b *Bootstrapper) pumpUntil(ch <-chan error, timeout time.Duration, frame []byte) (bool, error) {
	if ch == nil && timeout <= 0 {
		return false, nil
	}
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	for {
		select {
		case err := <-ch:
			return true, err
		case <-deadline:
			return false, nil
		default:
		}
		b.splash.Pump()
		b.splash.Maintain(time.Now(), frame)
		time.Sleep(b.loopSleep)
	}
}

func (b *Bootstrapper) StartSentry(release string, dsn string) {
	if err := sentry.Start(release, dsn); err != nil {
		b.logger.Debug(err.Error())
	}
}

func (b *Bootstrapper) CaptureErr(ctx context.Context, err error) {
	if err == nil {
		return
	}
	b.logger.ErrorContext(ctx, err.Error())
	sentry.CaptureErr(ctx, err)
}

func (b *Bootstrapper) Breadcrumb(ctx context.Context, desc string, level ...slog.Level) {
	var lvl slog.Level
	if len(level) == 0 {
		lvl = slog.LevelInfo
	} else {
		lvl = level[0]
	}
	b.logger.Log(ctx, lvl, desc)
	sentry.Breadcrumb(ctx, desc, lvl)
}
