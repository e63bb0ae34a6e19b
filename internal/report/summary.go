package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	summaryHeadStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#5B8DEF"))
	summaryBodyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AAAAAA"))
	summaryWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E5C07B"))
	summaryErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Summary renders the final run summary for the terminal: one line per
// stage plus diagnostic and render-failure totals.
func (r *Report) Summary() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	run := r.run
	started := r.started
	stages := make([]StageOutcome, len(r.stages))
	copy(stages, r.stages)
	warnings := r.warnings
	errors := r.errors
	r.mu.Unlock()

	var body strings.Builder
	for _, stage := range stages {
		body.WriteString(fmt.Sprintf("%-10s %4d items  %s\n",
			stage.Name, stage.Items, stage.Duration.Round(time.Millisecond)))
	}
	body.WriteString(fmt.Sprintf("elapsed    %s\n", time.Since(started).Round(time.Millisecond)))

	lines := []string{
		summaryHeadStyle.Render("docsmith run " + run),
		summaryBodyStyle.Render(strings.TrimRight(body.String(), "\n")),
	}
	if warnings > 0 {
		lines = append(lines, summaryWarnStyle.Render(fmt.Sprintf("%d diagnostic(s) recorded; see rendered pages and %s", warnings, r.path)))
	}
	if errors > 0 {
		lines = append(lines, summaryErrStyle.Render(fmt.Sprintf("%d render failure(s); see %s", errors, r.path)))
	}
	return summaryBoxStyle.Render(strings.Join(lines, "\n"))
}
