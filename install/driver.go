package install

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/seforimapp/zayit-installer/progress"
)

const (
	DefaultCommand     = "msiexec"
	DefaultPayloadName = "Zayit-installer-temp.msi"
	DefaultLogName     = "Zayit-installer-temp.log"
)

type Config struct {
	Command     string
	TempDir     string
	PayloadName string
	LogName     string
	Args        func(payload, logPath string) []string

	// Passed through to the log estimator; zero keeps its defaults.
	LogTimeout   time.Duration
	PollInterval time.Duration
}

func (c *Config) setDefaults() {
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.PayloadName == "" {
		c.PayloadName = DefaultPayloadName
	}
	if c.LogName == "" {
		c.LogName = DefaultLogName
	}
	if c.Args == nil {
		c.Args = MSIArgs
	}
}

// Result describes how the installer process ended. Err is set only when the
// process could not be run at all.
type Result struct {
	ExitCode int
	Err      error
	Elapsed  time.Duration
}

func (r Result) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Driver runs one installation: it writes the payload to the temp directory,
// runs the installer while a log estimator publishes progress, and always
// removes its temp files before flipping the completion flag.
type Driver struct {
	cfg      Config
	payload  Payload
	runner   Runner
	logger   *slog.Logger
	progress progress.Counter
	done     atomic.Bool
}

func NewDriver(cfg Config, payload Payload, runner Runner, logger *slog.Logger) *Driver {
	cfg.setDefaults()
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		cfg:     cfg,
		payload: payload,
		runner:  runner,
		logger:  logger.With("component", "installer"),
	}
}

// Done reports whether Run has finished, successfully or not. It never goes
// back to false.
func (d *Driver) Done() bool {
	return d.done.Load()
}

// Progress is the latest raw estimate in [0,100].
func (d *Driver) Progress() uint32 {
	return d.progress.Load()
}

func (d *Driver) PayloadPath() string {
	return filepath.Join(d.cfg.TempDir, d.cfg.PayloadName)
}

func (d *Driver) LogPath() string {
	return filepath.Join(d.cfg.TempDir, d.cfg.LogName)
}

// Run blocks until the installer exits. The returned error is only non-nil
// when the payload could not be written; installer failures are reported in
// Result.
func (d *Driver) Run(ctx context.Context) (res Result, err error) {
	start := time.Now()
	payloadPath, logPath := d.PayloadPath(), d.LogPath()

	defer func() {
		d.progress.Complete()
		if cerr := removeAll(payloadPath, logPath); cerr != nil {
			d.logger.Warn("failed to remove temp files", "err", cerr)
		}
		res.Elapsed = time.Since(start)
		d.done.Store(true)
	}()

	// A log left over from an earlier run would be tailed as if it were ours.
	_ = os.Remove(logPath)

	d.logger.Info("writing installer payload", "path", payloadPath)
	if err = d.payload.Materialize(ctx, payloadPath); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("failed to write installer payload: %w", err)
	}

	est := progress.NewEstimator(logPath, &d.progress, d.logger)
	if d.cfg.LogTimeout > 0 {
		est.FileTimeout = d.cfg.LogTimeout
	}
	if d.cfg.PollInterval > 0 {
		est.PollInterval = d.cfg.PollInterval
	}

	estCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		est.Run(estCtx)
	}()

	args := d.cfg.Args(payloadPath, logPath)
	d.logger.Info("running installer", "command", d.cfg.Command, "args", args)
	code, runErr := d.runner.Run(ctx, d.cfg.Command, args...)

	stop()
	wg.Wait()

	switch {
	case runErr != nil:
		d.logger.Error("failed to run installer", "command", d.cfg.Command, "err", runErr)
	case code != 0:
		d.logger.Warn("installer finished with non-zero exit code", "code", code)
	default:
		d.logger.Info("installer finished")
	}

	return Result{ExitCode: code, Err: runErr}, nil
}

func removeAll(paths ...string) error {
	var merr *multierror.Error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}
