// Package install unpacks acquired collection tarballs into the run
// workspace. The step is all-or-nothing: any extraction failure aborts
// the run before normalization starts.
package install

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// All extracts every tarball in locations (collection name -> tarball
// path) under <installedRoot>/collections/<name>.
func All(locations map[string]string, installedRoot string) error {
	root := filepath.Join(installedRoot, "collections")
	if err := os.MkdirAll(root, 0o700); err != nil {
		return fmt.Errorf("install: create %s: %w", root, err)
	}
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dir := filepath.Join(root, name)
		if err := untar(locations[name], dir); err != nil {
			return fmt.Errorf("install: collection %s: %w", name, err)
		}
	}
	return nil
}

// Core unpacks the base platform tarball under <installedRoot>/core.
// The tree is not read during extraction but the platform must install
// cleanly for the run to be reproducible.
func Core(archive, installedRoot string) error {
	dir := filepath.Join(installedRoot, "core")
	if err := untar(archive, dir); err != nil {
		return fmt.Errorf("install: core: %w", err)
	}
	return nil
}

func untar(archive, dir string) error {
	f, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("open %s: %w", archive, err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gunzip %s: %w", archive, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", archive, err)
		}
		target, err := securePath(dir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o700); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
				return fmt.Errorf("create dir for %s: %w", target, err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
			if err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("write %s: %w", target, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close %s: %w", target, err)
			}
		default:
			// Symlinks and other entry types are not part of the
			// artifact format; skip them rather than trust them.
		}
	}
}

// securePath rejects entries that would escape the extraction root.
func securePath(dir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(dir, name))
	if cleaned != dir && !strings.HasPrefix(cleaned, dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %s escapes extraction root", name)
	}
	return cleaned, nil
}
