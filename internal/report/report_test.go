package report

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestAppendAndTail(t *testing.T) {
	rep, err := New(t.TempDir(), "run-1")
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	rep.Append(LevelInfo, "stage acquire starting")
	rep.Append(LevelWarn, "ns.coll.bar: documentation section missing")
	rep.Append(LevelError, "render failed")

	lines := rep.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "run-1") {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
	warnings, errors := rep.Counts()
	if warnings != 1 || errors != 1 {
		t.Fatalf("unexpected counts: warn=%d err=%d", warnings, errors)
	}
}

func TestStageOutcomes(t *testing.T) {
	rep, err := New(t.TempDir(), "run-2")
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	rep.Stage("acquire", 3, 120*time.Millisecond)
	rep.Stage("render", 2, 40*time.Millisecond)

	stages := rep.Stages()
	if len(stages) != 2 || stages[0].Name != "acquire" || stages[1].Items != 2 {
		t.Fatalf("unexpected stages: %+v", stages)
	}
}

func TestSummaryMentionsStagesAndCounts(t *testing.T) {
	rep, err := New(t.TempDir(), "run-3")
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	rep.Stage("normalize", 12, 5*time.Millisecond)
	rep.Append(LevelWarn, "one diagnostic")

	summary := rep.Summary()
	if !strings.Contains(summary, "run-3") {
		t.Fatalf("summary missing run id: %s", summary)
	}
	if !strings.Contains(summary, "normalize") {
		t.Fatalf("summary missing stage line: %s", summary)
	}
	if !strings.Contains(summary, "1 diagnostic(s)") {
		t.Fatalf("summary missing diagnostic count: %s", summary)
	}
}

func TestReportSurvivesMissingFileReads(t *testing.T) {
	rep, err := New(t.TempDir(), "run-4")
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	if lines := rep.Tail(5); lines != nil {
		t.Fatalf("expected no lines before first append, got %v", lines)
	}
	if _, statErr := os.Stat(rep.Path()); statErr == nil {
		t.Fatalf("report file must not exist before first append")
	}
}
