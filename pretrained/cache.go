// cache.go - Cache-Verzeichnis fuer heruntergeladene Checkpoints
package pretrained

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/7blacky7/openclip-go/envconfig"
)

// ErrCacheNotWritable wird zurueckgegeben wenn das Cache-Verzeichnis
// nicht angelegt oder beschrieben werden kann.
var ErrCacheNotWritable = errors.New("pretrained: cache directory not writable")

// CacheDir gibt das Checkpoint-Cache-Verzeichnis zurueck.
// Aufloesung: OPENCLIP_CACHE -> ~/.cache/openclip -> Temp-Verzeichnis.
func CacheDir() string {
	return envconfig.CacheDir()
}

// ensureCacheDir legt das Verzeichnis an und prueft den Schreibzugriff.
func ensureCacheDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Join(ErrCacheNotWritable, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte{}, 0o644); err != nil {
		return errors.Join(ErrCacheNotWritable, err)
	}
	return os.Remove(probe)
}
