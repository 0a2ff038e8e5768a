package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/seforimapp/zayit-installer/sentry"
	"github.com/seforimapp/zayit-installer/ui"
)

//go:embed assets/splash.png
var splashImage []byte

func init() {
	// Win32 windows belong to the thread that created them; keep main on one.
	runtime.LockOSThread()
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, logFile := newLogger(os.TempDir(), cfg.LogLevel)
	defer func() {
		_ = logFile.Close()
	}()

	b := &Bootstrapper{logger: logger}
	b.os, b.arch = systemInformation()
	b.StartSentry(version, sentryDSN)
	defer sentry.Flush(2 * time.Second)

	ctx := sentry.NewContext(context.Background(), "main")
	b.Breadcrumb(ctx, "starting installer "+version)

	if err = b.setup(ctx, cfg, splashImage); err == nil {
		err = b.run(ctx)
	}
	if err != nil {
		b.logger.ErrorContext(ctx, "installation aborted", "err", err)
		b.CaptureErr(ctx, ui.DisplayError(ctx, ErrorTitle, err))
		return 1
	}
	return 0
}
