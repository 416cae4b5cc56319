// download.go - Download-Logik fuer vortrainierte Gewichte
// Unterstuetzt Retry, Cache-Wiederverwendung und parallele Downloads.
package pretrained

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/7blacky7/openclip-go/envconfig"
)

// Download-Konstanten
const (
	maxDownloadRetries = 3
	downloadRetryDelay = 2 * time.Second
	downloadTimeout    = 30 * time.Minute
	defaultParallelism = 4
	progressInterval   = 64 << 20 // Progress-Log alle 64 MiB
)

// Download laedt die Datei hinter rawURL in das Cache-Verzeichnis und
// gibt den lokalen Pfad zurueck. Eine bereits vorhandene, nicht-leere
// Cache-Datei wird wiederverwendet. Geschrieben wird ueber eine
// Temp-Datei mit anschliessendem Rename.
func Download(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("pretrained: invalid url %q: %w", rawURL, err)
	}

	cacheDir := CacheDir()
	if err := ensureCacheDir(cacheDir); err != nil {
		return "", err
	}

	dest := filepath.Join(cacheDir, path.Base(u.Path))
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		slog.Debug("using cached checkpoint", "path", dest)
		return dest, nil
	}

	var lastErr error
	for attempt := 1; attempt <= maxDownloadRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if lastErr = downloadOnce(ctx, rawURL, dest); lastErr == nil {
			return dest, nil
		}

		slog.Warn("checkpoint download failed", "url", rawURL, "attempt", attempt, "error", lastErr)
		if attempt < maxDownloadRetries {
			select {
			case <-time.After(downloadRetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("pretrained: download %s: %w", rawURL, lastErr)
}

// downloadOnce fuehrt genau einen Download-Versuch aus.
func downloadOnce(ctx context.Context, rawURL, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := copyWithProgress(tmp, resp.Body, dest, resp.ContentLength); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dest)
}

// copyWithProgress kopiert den Body und loggt periodisch den Fortschritt.
func copyWithProgress(dst io.Writer, src io.Reader, name string, total int64) error {
	if envconfig.NoProgress() {
		_, err := io.Copy(dst, src)
		return err
	}

	var written, lastLogged int64
	buf := make([]byte, 1<<20)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
			if written-lastLogged >= progressInterval {
				slog.Info("downloading checkpoint", "dest", name, "written", written, "total", total)
				lastLogged = written
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// DownloadAll laedt mehrere URLs mit begrenzter Parallelitaet herunter
// und gibt die lokalen Pfade in Eingabe-Reihenfolge zurueck.
func DownloadAll(ctx context.Context, urls []string) ([]string, error) {
	paths := make([]string, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultParallelism)
	for i, u := range urls {
		g.Go(func() error {
			p, err := Download(ctx, u)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
