package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/revipro-dev/revipro/internal/commands"
)

const fixtures = "../../testdata/documents"

func runRevipro(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := commands.NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runRevipro(t, "init", dir, "--name", "Gemeinde Test")
	require.NoError(t, err)
	return dir
}

// stageFixtures copies the sidecar fixtures into dir/import.
func stageFixtures(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(fixtures)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(fixtures, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "import", e.Name()), data, 0o644))
	}
}
