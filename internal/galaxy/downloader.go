// Package galaxy downloads release tarballs for the core platform and
// for collections from a galaxy-style artifact server.
package galaxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Acquirer fetches one versioned artifact into destDir and returns the
// local path of the downloaded file.
type Acquirer interface {
	Acquire(ctx context.Context, name, version, destDir string) (string, error)
}

// Downloader implements Acquirer against an HTTP artifact server.
type Downloader struct {
	server string
	client *http.Client
}

// NewDownloader builds a Downloader for the given server base URL.
func NewDownloader(server string) *Downloader {
	return &Downloader{
		server: strings.TrimRight(server, "/"),
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Acquire downloads <server>/download/<name>-<version>.tar.gz into
// destDir. The file is written under its final name only after the body
// has been copied completely.
func (d *Downloader) Acquire(ctx context.Context, name, version, destDir string) (string, error) {
	url := fmt.Sprintf("%s/download/%s-%s.tar.gz", d.server, name, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("galaxy: build request for %s: %w", name, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("galaxy: download %s %s: %w", name, version, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("galaxy: download %s %s: unexpected status %s", name, version, resp.Status)
	}

	path := filepath.Join(destDir, fmt.Sprintf("%s-%s.tar.gz", name, version))
	tmp, err := os.CreateTemp(destDir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("galaxy: create download file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("galaxy: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("galaxy: close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("galaxy: finalize %s: %w", path, err)
	}
	return path, nil
}
