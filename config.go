package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Set via go build -ldflags "-X main.version=1.2.3 -X main.sentryDSN=our_dsn".
var (
	version   string
	sentryDSN string
)

type Config struct {
	AppName       string
	AppExecutable string
	Installer     string
	PayloadURL    string
	LogLevel      slog.Level
	Scale         float64
	Linger        time.Duration
}

func parseConfig(args []string, output io.Writer) (*Config, error) {
	cfg := &Config{}
	var level string

	fs := flag.NewFlagSet("zayit-installer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.AppName, "app-name", AppName, "Folder under the local app data directory")
	fs.StringVar(&cfg.AppExecutable, "app-exe", AppExecutable, "Executable launched once installation finishes")
	fs.StringVar(&cfg.Installer, "installer", "msiexec", "Installer command")
	fs.StringVar(&cfg.PayloadURL, "payload-url", "", "Download the installer from this URL instead of the bundled one")
	fs.StringVar(&level, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.Float64Var(&cfg.Scale, "scale", 1, "Splash image scale factor")
	fs.DurationVar(&cfg.Linger, "linger", linger, "How long the splash stays up after launching")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	if cfg.Scale <= 0 {
		return nil, fmt.Errorf("invalid -scale %v: must be positive", cfg.Scale)
	}
	if cfg.Linger < 0 {
		cfg.Linger = 0
	}
	return cfg, nil
}
