// Package pipeline sequences the five build stages — acquire, install,
// extract, normalize, render — with a strict barrier between them: no
// stage starts before the previous stage's entire batch has completed.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/docsmith/docsmith/internal/acquire"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/depsfile"
	"github.com/docsmith/docsmith/internal/docs"
	"github.com/docsmith/docsmith/internal/extract"
	"github.com/docsmith/docsmith/internal/galaxy"
	"github.com/docsmith/docsmith/internal/install"
	"github.com/docsmith/docsmith/internal/logging"
	"github.com/docsmith/docsmith/internal/normalize"
	"github.com/docsmith/docsmith/internal/render"
	"github.com/docsmith/docsmith/internal/report"
	"github.com/docsmith/docsmith/internal/schema"
)

// ErrStageTimeout marks a stage that exceeded the configured deadline.
var ErrStageTimeout = errors.New("pipeline: stage timed out")

// Pipeline owns the per-stage result collections and the run lifecycle.
type Pipeline struct {
	cfg      config.Build
	acquirer galaxy.Acquirer
	registry *schema.Registry
	renderer *render.Renderer
	report   *report.Report
	runID    string

	// DumpRecords, when set, writes the extracted raw records to this
	// path as JSON after the extract stage. Debugging aid only.
	DumpRecords string
}

// New builds a pipeline for one run. The run report is created inside
// the destination tree, named after the fresh run ID.
func New(cfg config.Build, acquirer galaxy.Acquirer, registry *schema.Registry) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if acquirer == nil {
		return nil, fmt.Errorf("pipeline: acquirer is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("pipeline: schema registry is required")
	}
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	rep, err := report.New(cfg.DestDir, runID)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:      cfg,
		acquirer: acquirer,
		registry: registry,
		renderer: renderer,
		report:   rep,
		runID:    runID,
	}, nil
}

// RunID returns the identifier naming this run's workspace and report
// entries.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Report exposes the run report for summary printing and error logging.
func (p *Pipeline) Report() *report.Report {
	return p.report
}

// Run executes the full pipeline. The returned error is nil on success;
// acquire.ErrCoreUnavailable when the mandatory artifact is missing;
// ErrStageTimeout when a stage deadline expired. Item-level problems
// never surface here — they end up inline in the rendered pages.
func (p *Pipeline) Run(ctx context.Context) error {
	deps, err := depsfile.Load(p.cfg.DepsFile)
	if err != nil {
		return err
	}

	workspace := filepath.Join(p.cfg.TempRoot, "docsmith-"+p.runID)
	if err := os.MkdirAll(workspace, 0o700); err != nil {
		return fmt.Errorf("pipeline: create workspace: %w", err)
	}
	defer os.RemoveAll(workspace)

	trace, err := logging.Open(workspace, p.runID)
	if err != nil {
		return err
	}
	defer trace.Close()
	trace.Eventf("acquire", "core %s, %d collection(s)", deps.CoreVersion, len(deps.Collections))

	// Stage 1: acquisition fan-out. All-or-nothing; a missing core
	// artifact aborts with its own sentinel.
	started := time.Now()
	p.report.Append(report.LevelInfo, "stage acquire starting")
	var acquired acquire.Result
	err = p.stage(ctx, "acquire", func(sctx context.Context) error {
		var stageErr error
		acquired, stageErr = acquire.Run(sctx, p.acquirer, deps, workspace)
		return stageErr
	})
	if err != nil {
		return err
	}
	p.report.Stage("acquire", len(acquired.Collections)+1, time.Since(started))

	// Stage 2: install. Opaque, all-or-nothing.
	started = time.Now()
	installedRoot := filepath.Join(workspace, "installed")
	if err := install.Core(acquired.Core, installedRoot); err != nil {
		return err
	}
	if err := install.All(acquired.Collections, installedRoot); err != nil {
		return err
	}
	p.report.Stage("install", len(acquired.Collections)+1, time.Since(started))

	// Stage 3: extract raw records.
	started = time.Now()
	raw, err := extract.RawRecords(installedRoot)
	if err != nil {
		return err
	}
	trace.Eventf("extract", "%d raw record(s)", raw.Len())
	p.report.Stage("extract", raw.Len(), time.Since(started))

	if p.DumpRecords != "" {
		if err := dumpRecords(raw, p.DumpRecords); err != nil {
			return err
		}
		trace.Eventf("extract", "dumped raw records to %s", p.DumpRecords)
	}

	return p.finish(ctx, raw)
}

// RunFromRecords skips acquisition, install, and extraction, normalizing
// and rendering a previously dumped record set. Debugging aid; carries
// no compatibility promise.
func (p *Pipeline) RunFromRecords(ctx context.Context, raw docs.RawRecords) error {
	return p.finish(ctx, raw)
}

// finish runs the normalize and render stages shared by both entry
// points.
func (p *Pipeline) finish(ctx context.Context, raw docs.RawRecords) error {
	// Stage 4: normalization on a run-scoped worker pool.
	started := time.Now()
	p.report.Append(report.LevelInfo, "stage normalize starting")
	errs := docs.NewErrorMap()
	pool := normalize.NewPool(p.cfg.Workers)
	var records map[docs.Identity]docs.Record
	err := p.stage(ctx, "normalize", func(sctx context.Context) error {
		var stageErr error
		records, stageErr = normalize.Run(sctx, pool, p.registry, raw, errs)
		return stageErr
	})
	pool.Close()
	if err != nil {
		return err
	}
	errs.Walk(func(id docs.Identity, messages []string) {
		for _, message := range messages {
			p.report.Append(report.LevelWarn, fmt.Sprintf("%s: %s", id, message))
		}
	})
	p.report.Stage("normalize", len(records), time.Since(started))

	// Stage 5: render fan-out. Write failures are collected, reported,
	// and do not affect the run's outcome.
	started = time.Now()
	p.report.Append(report.LevelInfo, "stage render starting")
	var failures []render.Failure
	err = p.stage(ctx, "render", func(sctx context.Context) error {
		var stageErr error
		failures, stageErr = render.Run(sctx, p.renderer, records, errs, p.cfg.DestDir)
		return stageErr
	})
	if err != nil {
		return err
	}
	for _, failure := range failures {
		p.report.Append(report.LevelError, fmt.Sprintf("render %s -> %s: %v", failure.ID, failure.Path, failure.Err))
	}
	p.report.Stage("render", len(records), time.Since(started))
	return nil
}

// stage applies the configured per-stage deadline and translates its
// expiry into ErrStageTimeout.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	sctx := ctx
	cancel := context.CancelFunc(func() {})
	if timeout := p.cfg.StageTimeout.Std(); timeout > 0 {
		sctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()
	err := fn(sctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %s stage: %v", ErrStageTimeout, name, err)
	}
	return err
}

func dumpRecords(raw docs.RawRecords, path string) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: encode record dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pipeline: write record dump %s: %w", path, err)
	}
	return nil
}

// LoadRecordDump reads a record set previously written via DumpRecords.
func LoadRecordDump(path string) (docs.RawRecords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read record dump %s: %w", path, err)
	}
	var raw docs.RawRecords
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pipeline: decode record dump %s: %w", path, err)
	}
	return raw, nil
}
