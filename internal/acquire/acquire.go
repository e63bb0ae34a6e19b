// Package acquire implements the acquisition fan-out: one concurrent
// download per requested artifact, all-or-nothing. A failed or missing
// core artifact is a distinct fatal condition so the caller can exit
// with its dedicated status code.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/docsmith/docsmith/internal/depsfile"
	"github.com/docsmith/docsmith/internal/galaxy"
)

// CoreName is the artifact name of the mandatory base platform on the
// artifact server.
const CoreName = "ansible-core"

// ErrCoreUnavailable marks the fatal condition where the mandatory base
// artifact could not be acquired.
var ErrCoreUnavailable = errors.New("acquire: core artifact unavailable")

// Result maps every acquisition request to its downloaded tarball.
type Result struct {
	// Core is the local path of the base platform tarball.
	Core string
	// Collections maps collection name to its local tarball path. It
	// holds exactly one entry per requested collection.
	Collections map[string]string
}

// Run downloads the core artifact and every requested collection into
// <workspace>/downloads. All requests are dispatched before any is
// awaited; the first failure cancels the rest and fails the stage.
func Run(ctx context.Context, acq galaxy.Acquirer, deps depsfile.Deps, workspace string) (Result, error) {
	downloads := filepath.Join(workspace, "downloads")
	if err := os.MkdirAll(downloads, 0o700); err != nil {
		return Result{}, fmt.Errorf("acquire: create download dir: %w", err)
	}

	// One deterministic enumeration; names and paths stay parallel so
	// results pair back by index regardless of completion order.
	names := make([]string, 0, len(deps.Collections))
	for name := range deps.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	paths := make([]string, len(names))

	g, gctx := errgroup.WithContext(ctx)
	var corePath string
	var coreErr error
	g.Go(func() error {
		path, err := acq.Acquire(gctx, CoreName, deps.CoreVersion, downloads)
		if err != nil {
			coreErr = err
			return fmt.Errorf("acquire: %s %s: %w", CoreName, deps.CoreVersion, err)
		}
		corePath = path
		return nil
	})
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			path, err := acq.Acquire(gctx, name, deps.Collections[name], downloads)
			if err != nil {
				return fmt.Errorf("acquire: collection %s %s: %w", name, deps.Collections[name], err)
			}
			paths[i] = path
			return nil
		})
	}
	err := g.Wait()

	// A context error on the core request means the stage was cancelled
	// or timed out, not that the artifact itself is unavailable.
	if coreErr != nil && !errors.Is(coreErr, context.Canceled) && !errors.Is(coreErr, context.DeadlineExceeded) {
		return Result{}, fmt.Errorf("%w: version %s: %v", ErrCoreUnavailable, deps.CoreVersion, coreErr)
	}
	if err != nil {
		return Result{}, err
	}
	if corePath == "" {
		return Result{}, fmt.Errorf("%w: version %s missing from results", ErrCoreUnavailable, deps.CoreVersion)
	}

	result := Result{Core: corePath, Collections: make(map[string]string, len(names))}
	for i, name := range names {
		if paths[i] == "" {
			return Result{}, fmt.Errorf("acquire: collection %s %s missing from results", name, deps.Collections[name])
		}
		result.Collections[name] = paths[i]
	}
	return result, nil
}
