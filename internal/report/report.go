// Package report writes run reports to disk and renders them on the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oilslickpad/storeops/internal/domain"
)

const timestampLayout = "20060102-150405"

// Path returns <dir>/<name>-<timestamp>.json
func Path(dir, name string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.json", name, at.UTC().Format(timestampLayout)))
}

// WriteJSON writes v as indented JSON to Path(dir, name, at), creating dir if needed
func WriteJSON(dir, name string, v interface{}, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	path := Path(dir, name, at)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// PrintJSON writes v as indented JSON
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var severityMarkers = map[domain.Severity]string{
	domain.SeverityCritical: "🔴",
	domain.SeverityHigh:     "🟠",
	domain.SeverityMedium:   "🟡",
	domain.SeverityLow:      "🔵",
	domain.SeverityInfo:     "⚪",
}

// PrintIssues renders issues grouped by severity, most severe first. Empty groups
// are omitted.
func PrintIssues(w io.Writer, issues []domain.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "✅ No issues found")
		return
	}

	grouped := map[domain.Severity][]domain.Issue{}
	for _, i := range issues {
		grouped[i.Severity] = append(grouped[i.Severity], i)
	}
	for _, sev := range domain.Severities {
		group := grouped[sev]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s %s (%d)\n", severityMarkers[sev], sev, len(group))
		for _, i := range group {
			fmt.Fprintf(w, "   [%s] %s: %s\n", i.Code, i.Subject, i.Message)
			if i.Fix != nil {
				fmt.Fprintf(w, "      fix: %s\n", describeFix(*i.Fix))
			}
		}
	}
}

func describeFix(f domain.TagFix) string {
	var parts []string
	if len(f.Remove) > 0 {
		parts = append(parts, "remove "+strings.Join(f.Remove, ", "))
	}
	if len(f.Add) > 0 {
		parts = append(parts, "add "+strings.Join(f.Add, ", "))
	}
	return strings.Join(parts, "; ")
}

// Stat is one line of a summary block
type Stat struct {
	Label string
	Value interface{}
}

// PrintSummary renders the closing ==== block of a run
func PrintSummary(w io.Writer, title string, stats ...Stat) {
	width := 0
	for _, s := range stats {
		if len(s.Label) > width {
			width = len(s.Label)
		}
	}
	bar := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", bar, title, bar)
	for _, s := range stats {
		fmt.Fprintf(w, "  %-*s  %v\n", width+1, s.Label+":", s.Value)
	}
	fmt.Fprintln(w, bar)
}
