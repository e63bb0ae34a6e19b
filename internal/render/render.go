// Package render writes one documentation page per plugin. Items with
// an empty normalized record get the "insufficient documentation" page;
// everything else gets the full page with any non-fatal diagnostics
// shown inline. File-write failures are collected per task and reported
// to the caller instead of aborting the stage.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/docsmith/docsmith/internal/docs"
)

// Extension is the suffix of every rendered page.
const Extension = ".rst"

// Renderer holds the parsed templates for a run.
type Renderer struct {
	full         *template.Template
	insufficient *template.Template
}

// Failure records one render task that could not produce its file.
type Failure struct {
	ID   docs.Identity
	Path string
	Err  error
}

// New parses the page templates.
func New() (*Renderer, error) {
	full, insufficient, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Renderer{full: full, insufficient: insufficient}, nil
}

// Page renders the page text for one item, selecting the template by
// whether the record is the empty placeholder. Rendering an empty
// record never fails.
func (r *Renderer) Page(id docs.Identity, record docs.Record, diagnostics []string) (string, error) {
	data := pageData{
		Name:      id.Name,
		ShortName: id.ShortName(),
		Kind:      id.Kind,
		Doc:       record.Doc,
		Examples:  record.Examples,
		Return:    record.Return,
		Errors:    diagnostics,
	}
	tmpl := r.full
	if record.IsEmpty() {
		tmpl = r.insufficient
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render: execute template for %s: %w", id, err)
	}
	return buf.String(), nil
}

// PagePath computes the deterministic output location for an identity:
// <dest>/collections/<namespace>/<short>_<kind>.rst. Two identities that
// collide on the same path race, last writer wins; the path is derived
// only from inputs known before the stage starts.
func PagePath(destDir string, id docs.Identity) string {
	filename := fmt.Sprintf("%s_%s%s", id.ShortName(), id.Kind, Extension)
	return filepath.Join(destDir, "collections", id.Namespace(), filename)
}

// Run writes one page per normalized record, dispatching every task
// before awaiting any. Every task is awaited; per-task write failures
// are returned as data, never silently dropped. The returned error is
// non-nil only when the stage context expires.
func Run(ctx context.Context, renderer *Renderer, records map[docs.Identity]docs.Record, errs *docs.ErrorMap, destDir string) ([]Failure, error) {
	ids := make([]docs.Identity, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}

	var mu sync.Mutex
	var failures []Failure
	record := func(f Failure) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, f)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		rec := records[id]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := PagePath(destDir, id)
			if err := writePage(renderer, id, rec, errs.For(id), path); err != nil {
				record(Failure{ID: id, Path: path, Err: err})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failures, fmt.Errorf("render: %w", err)
	}
	return failures, nil
}

func writePage(renderer *Renderer, id docs.Identity, rec docs.Record, diagnostics []string, path string) error {
	contents, err := renderer.Page(id, rec, diagnostics)
	if err != nil {
		return err
	}
	// MkdirAll is idempotent and safe when several tasks target the
	// same namespace directory concurrently.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("render: create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}
