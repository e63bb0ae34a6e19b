package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTraceEventLines(t *testing.T) {
	workspace := t.TempDir()
	trace, err := Open(workspace, "run-42")
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	trace.Eventf("acquire", "core %s", "2.11.0")
	trace.Eventf("extract", "%d raw record(s)", 7)
	if err := trace.Close(); err != nil {
		t.Fatalf("close trace: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(workspace, "logs", "trace.log"))
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "run-42") || !strings.Contains(lines[0], "acquire") {
		t.Fatalf("line missing run or stage attribution: %s", lines[0])
	}
	if !strings.Contains(lines[1], "7 raw record(s)") {
		t.Fatalf("unexpected second line: %s", lines[1])
	}
}

func TestTraceNilSafe(t *testing.T) {
	var trace *Trace
	trace.Eventf("acquire", "ignored")
	if err := trace.Close(); err != nil {
		t.Fatalf("nil trace close: %v", err)
	}
}
