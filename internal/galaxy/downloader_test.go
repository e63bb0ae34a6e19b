package galaxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestDownloaderAcquire(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download/ns.coll-1.0.0.tar.gz" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("tarball-bytes"))
	}))
	defer server.Close()

	dest := t.TempDir()
	d := NewDownloader(server.URL)
	path, err := d.Acquire(context.Background(), "ns.coll", "1.0.0", dest)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "tarball-bytes" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestDownloaderAcquireNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	d := NewDownloader(server.URL)
	if _, err := d.Acquire(context.Background(), "ns.coll", "9.9.9", t.TempDir()); err == nil {
		t.Fatalf("expected missing artifact to fail")
	}
}

func TestDownloaderAcquireCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewDownloader(server.URL)
	if _, err := d.Acquire(ctx, "ns.coll", "1.0.0", t.TempDir()); err == nil {
		t.Fatalf("expected cancelled context to fail")
	}
}
