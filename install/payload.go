package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/mholt/archiver/v3"
)

var ErrNoPayload = errors.New("no installer payload available")

// Payload writes the installer package to a local path.
type Payload interface {
	Materialize(ctx context.Context, dest string) error
}

// EmbeddedPayload is an installer compiled into the binary. Names ending in a
// compression extension (.xz, .gz, .zst, .bz2, .lz4, .sz) are decompressed
// while being written.
type EmbeddedPayload struct {
	Name string
	Data []byte
}

func (p EmbeddedPayload) Materialize(_ context.Context, dest string) (err error) {
	if len(p.Data) == 0 {
		return ErrNoPayload
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if d := decompressorFor(p.Name); d != nil {
		if err = d.Decompress(bytes.NewReader(p.Data), out); err != nil {
			return fmt.Errorf("decompress %s: %w", p.Name, err)
		}
		return nil
	}

	_, err = io.Copy(out, bytes.NewReader(p.Data))
	return err
}

func decompressorFor(name string) archiver.Decompressor {
	format, err := archiver.ByExtension(name)
	if err != nil {
		return nil
	}
	d, _ := format.(archiver.Decompressor)
	return d
}

// RemotePayload downloads the installer before running it.
type RemotePayload struct {
	URL    string
	Client *grab.Client
	Logger *slog.Logger
}

func (p RemotePayload) Materialize(ctx context.Context, dest string) error {
	if p.URL == "" {
		return ErrNoPayload
	}
	client := p.Client
	if client == nil {
		client = grab.NewClient()
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	req, err := grab.NewRequest(dest, p.URL)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)
	req.NoResume = true

	resp := client.Do(req)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			logger.Debug("downloading installer", "url", p.URL, "progress", fmt.Sprintf("%.0f%%", resp.Progress()*100))
		case <-resp.Done:
			if err = resp.Err(); err != nil {
				return fmt.Errorf("download failed: %w", err)
			}
			logger.Info("installer downloaded", "url", p.URL, "bytes", resp.BytesComplete())
			return nil
		}
	}
}
