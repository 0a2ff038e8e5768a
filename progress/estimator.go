package progress

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	DefaultFileTimeout  = 30 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	readBufferSize      = 64 * 1024
)

// State is the lifecycle of a single estimation run.
type State int32

const (
	WaitingForFile State = iota
	Tailing
	Stopped
)

func (s State) String() string {
	switch s {
	case WaitingForFile:
		return "waiting-for-file"
	case Tailing:
		return "tailing"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Estimator tails an installer log written by another process and publishes
// a heuristic percentage into a shared Counter. It never reports errors: a
// log that never shows up or cannot be read just means no progress.
type Estimator struct {
	FileTimeout  time.Duration
	PollInterval time.Duration
	Milestones   []Milestone

	path    string
	counter *Counter
	logger  *slog.Logger
	state   atomic.Int32
}

func NewEstimator(path string, counter *Counter, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{
		FileTimeout:  DefaultFileTimeout,
		PollInterval: DefaultPollInterval,
		Milestones:   DefaultMilestones,
		path:         path,
		counter:      counter,
		logger:       logger.With("component", "estimator"),
	}
}

func (e *Estimator) State() State {
	return State(e.state.Load())
}

// Run blocks until ctx is cancelled, the log never appears, or the log
// cannot be opened. Cancelling ctx is the stop signal.
func (e *Estimator) Run(ctx context.Context) {
	e.state.Store(int32(WaitingForFile))
	defer e.state.Store(int32(Stopped))

	if !e.waitForFile(ctx) {
		return
	}

	file, err := os.Open(e.path)
	if err != nil {
		e.logger.Debug("unable to open installer log", "path", e.path, "err", err)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	e.state.Store(int32(Tailing))
	e.logger.Debug("tailing installer log", "path", e.path)
	e.tail(ctx, file)
}

func (e *Estimator) waitForFile(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if fileExists(e.path) {
		return true
	}

	deadline := time.NewTimer(e.FileTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(e.PollInterval)
	defer ticker.Stop()

	// The watcher only shortens the wait; the ticker alone is enough.
	var events <-chan fsnotify.Event
	var errs <-chan error
	if watcher, err := fsnotify.NewWatcher(); err == nil {
		defer func() {
			_ = watcher.Close()
		}()
		if err = watcher.Add(filepath.Dir(e.path)); err == nil {
			events, errs = watcher.Events, watcher.Errors
		} else {
			e.logger.Debug("unable to watch log directory", "err", err)
		}
	}

	target := filepath.Clean(e.path)
	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			e.logger.Info("installer log did not appear", "path", e.path, "timeout", e.FileTimeout)
			return false
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) == target && fileExists(e.path) {
				return true
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			e.logger.Debug("log directory watcher error", "err", err)
		case <-ticker.C:
			if fileExists(e.path) {
				return true
			}
		}
	}
}

// tail reads only what was appended since the previous read; the file
// offset is never rewound.
func (e *Estimator) tail(ctx context.Context, r io.Reader) {
	sc := newScanner(e.Milestones)
	buf := make([]byte, readBufferSize)
	ticker := time.NewTicker(e.PollInterval)
	defer ticker.Stop()

	var floor uint32
	for {
		for {
			n, err := r.Read(buf)
			if n > 0 {
				if f := sc.scan(buf[:n]); f > floor {
					floor = f
				}
				e.counter.Raise(floor)
			}
			if n == 0 || err != nil {
				break
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
