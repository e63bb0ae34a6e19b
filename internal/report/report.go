// Package report accumulates the operator-facing record of a run: one
// leveled entry per noteworthy event, persisted to a text file inside
// the destination tree, plus a styled terminal summary printed at the
// end of the run.
package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a report entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Report persists run progress to a simple text file and keeps counters
// for the final summary.
type Report struct {
	path string
	run  string

	mu       sync.Mutex
	started  time.Time
	stages   []StageOutcome
	warnings int
	errors   int
}

// StageOutcome records one completed pipeline stage for the summary.
type StageOutcome struct {
	Name     string
	Items    int
	Duration time.Duration
}

// New creates a report that writes to <dir>/docsmith-run.log.
func New(dir, runID string) (*Report, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: ensure %s: %w", dir, err)
	}
	return &Report{
		path:    filepath.Join(dir, "docsmith-run.log"),
		run:     runID,
		started: time.Now(),
	}, nil
}

// Path returns the file backing this report.
func (r *Report) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Append writes a single entry to the report file.
func (r *Report) Append(level Level, message string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch level {
	case LevelWarn:
		r.warnings++
	case LevelError:
		r.errors++
	}
	line := fmt.Sprintf("%s %-5s [%s] %s\n",
		time.Now().UTC().Format(time.RFC3339),
		string(level),
		r.run,
		strings.TrimSpace(message),
	)
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Stage records a completed stage for the summary and appends an entry.
func (r *Report) Stage(name string, items int, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stages = append(r.stages, StageOutcome{Name: name, Items: items, Duration: duration})
	r.mu.Unlock()
	r.Append(LevelInfo, fmt.Sprintf("stage %s finished: %d items in %s", name, items, duration.Round(time.Millisecond)))
}

// Counts returns the number of WARN and ERROR entries appended so far.
func (r *Report) Counts() (warnings, errors int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warnings, r.errors
}

// Stages returns a copy of the recorded stage outcomes.
func (r *Report) Stages() []StageOutcome {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StageOutcome, len(r.stages))
	copy(out, r.stages)
	return out
}

// Tail returns up to maxLines of the most recent report entries.
func (r *Report) Tail(maxLines int) []string {
	if r == nil || maxLines <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	file, err := os.Open(r.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}
