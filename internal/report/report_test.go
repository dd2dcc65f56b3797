package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/domain"
)

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := WriteJSON(dir, "collection-health", map[string]int{"fixed": 2}, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "collection-health-20260304-050607.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got["fixed"])
}

func TestPrintIssuesGroupsBySeverity(t *testing.T) {
	issues := []domain.Issue{
		{Severity: domain.SeverityLow, Code: "ORPHAN_COLLECTION", Subject: "summer-sale", Message: "not defined"},
		{Severity: domain.SeverityCritical, Code: "RULES_DRIFT", Subject: "quartz-bangers", Message: "rules have drifted"},
		{
			Severity: domain.SeverityCritical, Code: "WRONG_FAMILY_NECTAR", Subject: "1", Message: "nectar collector",
			Fix: &domain.TagFix{Remove: []string{"family:flower-bowl"}, Add: []string{"family:nectar-collector"}},
		},
	}

	var buf bytes.Buffer
	PrintIssues(&buf, issues)
	out := buf.String()

	assert.Contains(t, out, "CRITICAL (2)")
	assert.Contains(t, out, "LOW (1)")
	assert.NotContains(t, out, "HIGH")
	assert.Less(t, strings.Index(out, "CRITICAL"), strings.Index(out, "LOW"))
	assert.Contains(t, out, "fix: remove family:flower-bowl; add family:nectar-collector")
}

func TestPrintIssuesEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintIssues(&buf, nil)
	assert.Contains(t, buf.String(), "No issues found")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, "SUMMARY", Stat{"Fixed", 3}, Stat{"Failed", 0})
	out := buf.String()
	assert.Contains(t, out, strings.Repeat("=", 60))
	assert.Contains(t, out, "Fixed:")
	assert.Contains(t, out, "3")
}
