package commands_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revipro-dev/revipro/internal/report"
)

func statusByRule(rep report.Report) map[string]string {
	out := make(map[string]string, len(rep.Results))
	for _, r := range rep.Results {
		out[r.Rule] = r.Status
	}
	return out
}

func TestAnalyze_JSONReport(t *testing.T) {
	out, err := runRevipro(t, "analyze", fixtures, "--dir", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 4, rep.FilesProcessed)
	assert.Equal(t, 2, rep.TaxFiles)
	assert.Equal(t, 1, rep.FibuFiles)
	assert.Equal(t, 1, rep.SkippedFiles)

	statuses := statusByRule(rep)
	assert.Equal(t, "MATCH", statuses["R805"])
	assert.Equal(t, "INCOMPLETE", statuses["R806"])
}

func TestAnalyze_TextSummary(t *testing.T) {
	out, err := runRevipro(t, "analyze", fixtures, "--dir", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "R805")
	assert.Contains(t, out, "MATCH")
	assert.Contains(t, out, "INCOMPLETE")
}

func TestAnalyze_CSVToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "items.csv")
	out, err := runRevipro(t, "analyze", fixtures, "--dir", t.TempDir(), "--format", "csv", "--out", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), report.ItemsHeader)
	assert.Contains(t, string(data), "fibu_1012_konto.pdf")
}

func TestAnalyze_ProjectImportArchiveAndHistory(t *testing.T) {
	dir := initProject(t)
	stageFixtures(t, dir)

	_, err := runRevipro(t, "analyze", "--dir", dir, "--archive")
	require.NoError(t, err)

	// Extracted documents move to processed, ignored ones stay.
	for _, name := range []string{"JA_2023_2024.pdf.json", "SR_2023_2024.pdf.json", "fibu_1012_konto.pdf.json"} {
		_, err := os.Stat(filepath.Join(dir, "import", "processed", name))
		assert.NoError(t, err, "%s should be archived", name)
	}
	_, err = os.Stat(filepath.Join(dir, "import", "Quellensteuer_2024.pdf.json"))
	assert.NoError(t, err)

	out, err := runRevipro(t, "history", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "R805")
	assert.Contains(t, out, "R806")
}

func TestAnalyze_OutsideProjectWritesNoHistory(t *testing.T) {
	dir := t.TempDir()
	_, err := runRevipro(t, "analyze", fixtures, "--dir", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "logs", "audit-log.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"analyze", fixtures, "--format", "xml"}},
		{"empty import dir", []string{"analyze", "--dir", t.TempDir()}},
		{"unsupported file", []string{"analyze", "../../go.mod"}},
		{"bad log level", []string{"analyze", fixtures, "--log-level", "loud"}},
		{"bad timeout", []string{"analyze", fixtures, "--timeout=-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRevipro(t, append(tt.args, "--dir", t.TempDir())...)
			assert.Error(t, err)
		})
	}
}

func TestAnalyze_CommitRecordsAuditLog(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	out, err := runRevipro(t, "init", dir, "--name", "Gemeinde Test", "--git")
	require.NoError(t, err)
	assert.Contains(t, out, "Committed project files")
	stageFixtures(t, dir)

	_, err = runRevipro(t, "analyze", "--dir", dir, "--commit")
	require.NoError(t, err)

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	msg, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "audit: run ")
	assert.Contains(t, string(msg), "R805 MATCH")
}

func TestAnalyze_CommitOutsideRepo(t *testing.T) {
	dir := initProject(t)
	stageFixtures(t, dir)

	_, err := runRevipro(t, "analyze", "--dir", dir, "--commit")
	assert.ErrorContains(t, err, "not a git repository")
}
