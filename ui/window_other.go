//go:build !windows

package ui

import (
	"log/slog"
	"sync/atomic"
)

// NewBackend returns a headless backend. There is no layered window outside
// Windows; frames are accepted and dropped so the rest of the bootstrapper
// behaves the same.
func NewBackend(title string, logger *slog.Logger) Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &headlessBackend{logger: logger.With("backend", "headless", "title", title)}
}

type headlessBackend struct {
	logger   *slog.Logger
	closable atomic.Bool
}

func (b *headlessBackend) Create(width, height int, frame []byte) (Window, error) {
	b.logger.Debug("creating headless splash", "width", width, "height", height)
	w := &headlessWindow{size: width * height * 4}
	w.valid.Store(true)
	return w, nil
}

func (b *headlessBackend) Pump() {}

func (b *headlessBackend) SetClosable(v bool) {
	b.closable.Store(v)
}

type headlessWindow struct {
	size  int
	valid atomic.Bool
}

func (w *headlessWindow) Valid() bool {
	return w.valid.Load()
}

func (w *headlessWindow) Present(frame []byte) error {
	if !w.Valid() {
		return errWindowGone
	}
	return nil
}

func (w *headlessWindow) Show() {}

func (w *headlessWindow) Destroy() {
	w.valid.Store(false)
}
