// Package bootstrap fetches the model artifact before the classifier
// initializes. Download is strictly best-effort: the caller logs failures
// and continues, and the classifier degrades to demo mode.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

const downloadTimeout = 5 * time.Minute

// Ensure makes sure the model artifact exists at path. If the file is
// already present it is a no-op. Otherwise, when url is non-empty, it does a
// one-shot streaming download — no retries, no checksum verification. An
// empty url with a missing file is also a no-op (demo mode downstream).
func Ensure(ctx context.Context, path, url string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if url == "" {
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("bootstrap: create model dir: %w", err)
		}
	}

	// Download to a temp name and rename, so a partial fetch never looks
	// like a valid artifact on the next startup.
	tmp := path + ".part"
	client := resty.New().SetTimeout(downloadTimeout)
	resp, err := client.R().
		SetContext(ctx).
		SetOutput(tmp).
		Get(url)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("bootstrap: download model: %w", err)
	}
	if resp.StatusCode() != 200 {
		os.Remove(tmp)
		return fmt.Errorf("bootstrap: download model: unexpected status %d", resp.StatusCode())
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("bootstrap: move model into place: %w", err)
	}
	return nil
}
