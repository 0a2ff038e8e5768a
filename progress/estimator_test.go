package progress

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEstimator(t *testing.T, path string) (*Estimator, *Counter) {
	t.Helper()
	counter := &Counter{}
	est := NewEstimator(path, counter, nil)
	est.PollInterval = 5 * time.Millisecond
	est.FileTimeout = 2 * time.Second
	return est, counter
}

func runAsync(ctx context.Context, est *Estimator) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		est.Run(ctx)
	}()
	return done
}

func appendLog(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestEstimator_TailsAppendedMilestones(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "install.log")
	est, counter := newTestEstimator(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, est)

	appendLog(t, path, "=== Verbose logging started ===\nAction start 10:00:00: INSTALL.\n")
	require.Eventually(t, func() bool { return counter.Load() == 15 }, time.Second, time.Millisecond)
	assert.Equal(t, Tailing, est.State())

	appendLog(t, path, "Action start 10:00:02: InstallFiles.\n")
	require.Eventually(t, func() bool { return counter.Load() == 40 }, time.Second, time.Millisecond)

	appendLog(t, path, "MSI (s): Product: Zayit -- Installation completed successfully.\n")
	require.Eventually(t, func() bool { return counter.Load() == 100 }, time.Second, time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, Stopped, est.State())
}

func TestEstimator_OnlyActionStartCapsAt15(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "install.log")
	appendLog(t, path, "Action start 10:00:00: INSTALL.\n")
	est, counter := newTestEstimator(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, est)

	for i := 0; i < 5; i++ {
		appendLog(t, path, "Action start 10:00:01: SomeCustomAction.\n")
		time.Sleep(10 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return counter.Load() == 15 }, time.Second, time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, uint32(15), counter.Load())
}

func TestEstimator_NeverRegresses(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "install.log")
	est, counter := newTestEstimator(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, est)

	appendLog(t, path, "Action start: PublishProduct.\n")
	require.Eventually(t, func() bool { return counter.Load() == 85 }, time.Second, time.Millisecond)

	var last uint32
	for _, line := range []string{"Action start: InstallFiles.\n", "Action start: CostFinalize.\n", "nothing here\n"} {
		appendLog(t, path, line)
		time.Sleep(15 * time.Millisecond)
		cur := counter.Load()
		assert.GreaterOrEqual(t, cur, last)
		assert.Equal(t, uint32(85), cur)
		last = cur
	}

	cancel()
	<-done
}

func TestEstimator_LogNeverAppears(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.log")
	est, counter := newTestEstimator(t, path)
	est.FileTimeout = 50 * time.Millisecond

	start := time.Now()
	est.Run(context.Background())

	assert.Equal(t, Stopped, est.State())
	assert.Equal(t, uint32(0), counter.Load())
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestEstimator_StopBeforeFileAppears(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "install.log")
	est, counter := newTestEstimator(t, path)
	est.FileTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, est)
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("estimator did not stop")
	}
	assert.Equal(t, Stopped, est.State())
	assert.Equal(t, uint32(0), counter.Load())
}

func TestEstimator_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "install.log")
	appendLog(t, path, "Installation completed successfully.\n")
	est, counter := newTestEstimator(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	est.Run(ctx)

	assert.Equal(t, Stopped, est.State())
	assert.Equal(t, uint32(0), counter.Load())
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "waiting-for-file", WaitingForFile.String())
	assert.Equal(t, "tailing", Tailing.String())
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "unknown", State(42).String())
}
