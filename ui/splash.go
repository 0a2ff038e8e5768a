package ui

import (
	"errors"
	"log/slog"
	"time"
)

const DefaultCheckInterval = 500 * time.Millisecond

var errWindowGone = errors.New("splash window no longer exists")

// Window is an on-screen surface that other processes may destroy or hide
// at any time. Callers check Valid before every use.
type Window interface {
	Valid() bool
	Present(frame []byte) error
	Show()
	Destroy()
}

// Backend creates windows and drives the platform event queue.
type Backend interface {
	Create(width, height int, frame []byte) (Window, error)
	// Pump handles every pending event and returns without blocking.
	Pump()
	// SetClosable controls whether close requests are honoured.
	SetClosable(bool)
}

// Splash keeps one borderless window showing the latest frame alive until
// Close, recreating it when it disappears underneath us.
type Splash struct {
	CheckInterval time.Duration

	backend   Backend
	width     int
	height    int
	logger    *slog.Logger
	win       Window
	frame     []byte
	lastCheck time.Time
	recreated int
}

func NewSplash(backend Backend, width, height int, logger *slog.Logger) *Splash {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splash{
		CheckInterval: DefaultCheckInterval,
		backend:       backend,
		width:         width,
		height:        height,
		logger:        logger.With("component", "splash"),
	}
}

// Open creates the window, shows frame immediately, and starts refusing
// close requests.
func (s *Splash) Open(frame []byte) error {
	s.backend.SetClosable(false)
	win, err := s.backend.Create(s.width, s.height, frame)
	if err != nil {
		return err
	}
	s.win = win
	s.remember(frame)
	return nil
}

// Update presents frame. It returns false, leaving all state untouched, when
// the window is gone or the present fails; Maintain will recreate it.
func (s *Splash) Update(frame []byte) bool {
	if s.win == nil || !s.win.Valid() {
		return false
	}
	if err := s.win.Present(frame); err != nil {
		s.logger.Debug("failed to present frame", "err", err)
		return false
	}
	s.remember(frame)
	return true
}

// Maintain runs at most once per CheckInterval. A lost window is recreated
// and given latest (or the last presented frame when latest is nil); a live
// one is shown again in case something hid it.
func (s *Splash) Maintain(now time.Time, latest []byte) {
	if now.Sub(s.lastCheck) < s.CheckInterval {
		return
	}
	s.lastCheck = now

	if s.win != nil && s.win.Valid() {
		s.win.Show()
		return
	}

	if latest == nil {
		latest = s.frame
	}
	if s.win != nil {
		s.win.Destroy()
		s.win = nil
	}

	s.logger.Warn("splash window lost, recreating")
	win, err := s.backend.Create(s.width, s.height, latest)
	if err != nil {
		s.logger.Warn("failed to recreate splash window", "err", err)
		return
	}
	s.win = win
	s.recreated++
	s.Update(latest)
}

// Pump processes pending window events without blocking.
func (s *Splash) Pump() {
	s.backend.Pump()
}

// AllowClose lets close requests through again.
func (s *Splash) AllowClose() {
	s.backend.SetClosable(true)
}

// Recreated counts windows rebuilt by Maintain.
func (s *Splash) Recreated() int {
	return s.recreated
}

func (s *Splash) Close() {
	s.AllowClose()
	if s.win != nil {
		s.win.Destroy()
		s.win = nil
	}
}

func (s *Splash) remember(frame []byte) {
	if len(frame) == 0 {
		return
	}
	s.frame = append(s.frame[:0], frame...)
}
