package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWindow struct {
	valid     bool
	failNext  bool
	shown     int
	destroyed bool
	pixels    []byte
	presents  int
}

func (w *stubWindow) Valid() bool { return w.valid }

func (w *stubWindow) Present(frame []byte) error {
	if !w.valid {
		return errWindowGone
	}
	if w.failNext {
		w.failNext = false
		return errors.New("present failed")
	}
	w.pixels = append(w.pixels[:0], frame...)
	w.presents++
	return nil
}

func (w *stubWindow) Show() { w.shown++ }

func (w *stubWindow) Destroy() {
	w.valid = false
	w.destroyed = true
}

type stubBackend struct {
	windows  []*stubWindow
	failNext bool
	pumps    int
	closable []bool
}

func (b *stubBackend) Create(_, _ int, frame []byte) (Window, error) {
	if b.failNext {
		b.failNext = false
		return nil, errors.New("create failed")
	}
	w := &stubWindow{valid: true}
	_ = w.Present(frame)
	b.windows = append(b.windows, w)
	return w, nil
}

func (b *stubBackend) Pump() { b.pumps++ }

func (b *stubBackend) SetClosable(v bool) { b.closable = append(b.closable, v) }

func (b *stubBackend) last() *stubWindow { return b.windows[len(b.windows)-1] }

func newTestSplash(t *testing.T) (*Splash, *stubBackend, *Image) {
	t.Helper()
	img := solidImage(120, 100, [4]byte{1, 2, 3, 255})
	backend := &stubBackend{}
	s := NewSplash(backend, img.Width, img.Height, nil)
	require.NoError(t, s.Open(Compose(img, 0)))
	return s, backend, img
}

func TestSplash_OpenRefusesClose(t *testing.T) {
	t.Parallel()

	s, backend, _ := newTestSplash(t)
	assert.Equal(t, []bool{false}, backend.closable)

	s.AllowClose()
	assert.Equal(t, []bool{false, true}, backend.closable)

	s.Close()
	assert.True(t, backend.last().destroyed)
}

func TestSplash_UpdateInvalidWindow(t *testing.T) {
	t.Parallel()

	s, backend, img := newTestSplash(t)
	s.Update(Compose(img, 30))
	before := append([]byte(nil), s.frame...)

	win := backend.last()
	win.valid = false
	assert.False(t, s.Update(Compose(img, 60)))

	assert.Equal(t, before, s.frame)
	assert.Len(t, backend.windows, 1)
	assert.Equal(t, 2, win.presents)
}

func TestSplash_UpdatePresentFailure(t *testing.T) {
	t.Parallel()

	s, backend, img := newTestSplash(t)
	first := Compose(img, 10)
	require.True(t, s.Update(first))

	backend.last().failNext = true
	assert.False(t, s.Update(Compose(img, 90)))
	assert.Equal(t, first, s.frame)
}

func TestSplash_RecreateShowsSamePixels(t *testing.T) {
	t.Parallel()

	s, backend, img := newTestSplash(t)
	frame := Compose(img, 55)
	require.True(t, s.Update(frame))

	backend.last().valid = false
	now := time.Now()
	s.Maintain(now, nil)

	require.Len(t, backend.windows, 2)
	assert.True(t, backend.windows[0].destroyed)
	assert.Equal(t, 1, s.Recreated())

	// A fresh window given the frame up front shows the same pixels.
	fresh := &stubWindow{valid: true}
	require.NoError(t, fresh.Present(frame))
	assert.Equal(t, fresh.pixels, backend.last().pixels)
}

func TestSplash_RecreateUsesLatestFrame(t *testing.T) {
	t.Parallel()

	s, backend, img := newTestSplash(t)
	require.True(t, s.Update(Compose(img, 20)))

	backend.last().valid = false
	latest := Compose(img, 70)
	s.Maintain(time.Now(), latest)

	assert.Equal(t, latest, backend.last().pixels)
	assert.Equal(t, latest, s.frame)
}

func TestSplash_MaintainReassertsVisibility(t *testing.T) {
	t.Parallel()

	s, backend, _ := newTestSplash(t)
	start := time.Now()

	s.Maintain(start, nil)
	s.Maintain(start.Add(100*time.Millisecond), nil)
	assert.Equal(t, 1, backend.last().shown, "checks are rate limited")

	s.Maintain(start.Add(DefaultCheckInterval), nil)
	assert.Equal(t, 2, backend.last().shown)
	assert.Len(t, backend.windows, 1)
	assert.Zero(t, s.Recreated())
}

func TestSplash_RecreateFailureRetries(t *testing.T) {
	t.Parallel()

	s, backend, _ := newTestSplash(t)
	backend.last().valid = false
	backend.failNext = true

	start := time.Now()
	s.Maintain(start, nil)
	assert.Len(t, backend.windows, 1)
	assert.False(t, s.Update(s.frame))

	s.Maintain(start.Add(DefaultCheckInterval), nil)
	assert.Len(t, backend.windows, 2)
	assert.Equal(t, 1, s.Recreated())
}

func TestSplash_OpenFailureRecoveredByMaintain(t *testing.T) {
	t.Parallel()

	img := solidImage(120, 100, [4]byte{1, 2, 3, 255})
	backend := &stubBackend{failNext: true}
	s := NewSplash(backend, img.Width, img.Height, nil)

	frame := Compose(img, 5)
	require.Error(t, s.Open(frame))
	assert.False(t, s.Update(frame))

	s.Maintain(time.Now(), frame)
	require.Len(t, backend.windows, 1)
	assert.Equal(t, frame, backend.last().pixels)
}

func TestSplash_Pump(t *testing.T) {
	t.Parallel()

	s, backend, _ := newTestSplash(t)
	s.Pump()
	s.Pump()
	assert.Equal(t, 2, backend.pumps)
}
