// Package logging writes the per-run debug trace kept inside the build
// workspace. Every line carries the run identifier and the stage it
// belongs to, so a trace salvaged from a failed workspace reads on its
// own.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Trace is the workspace-local debug log of one build run.
type Trace struct {
	mu   sync.Mutex
	file *os.File
	run  string
}

// Open creates (or reuses) <workspace>/logs/trace.log for the given run.
func Open(workspace, runID string) (*Trace, error) {
	logDir := filepath.Join(workspace, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "trace.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open trace file: %w", err)
	}
	return &Trace{file: f, run: runID}, nil
}

// Eventf appends one line attributed to a stage. Stages run
// concurrently inside themselves, so writes are serialized here.
func (t *Trace) Eventf(stage, format string, args ...any) {
	if t == nil || t.file == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	timestamp := time.Now().Format(time.RFC3339)
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.file, "[%s] %s %-9s %s\n", timestamp, t.run, stage, line)
}

// Close releases the file handle.
func (t *Trace) Close() error {
	if t == nil || t.file == nil {
		return nil
	}
	return t.file.Close()
}
