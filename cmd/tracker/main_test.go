package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/qepting91/collage-tracker/internal/domain"
	"github.com/qepting91/collage-tracker/internal/report"
	"github.com/qepting91/collage-tracker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.jsonlines")
	newPath := filepath.Join(dir, "new.jsonlines")
	outPath := filepath.Join(dir, "diff.json")
	require.NoError(t, (&storage.SnapshotStore{FilePath: oldPath}).Save([]*domain.Collage{
		{ID: "1", Name: "One", URL: "collages.php?id=1", Updated: "jan 1"},
	}))
	require.NoError(t, (&storage.SnapshotStore{FilePath: newPath}).Save([]*domain.Collage{
		{ID: "1", Name: "One", URL: "collages.php?id=1", Updated: "jan 2"},
	}))

	out := execute(t, "diff", oldPath, newPath, "-o", outPath)
	assert.Contains(t, out, "1 collages have been modified:")

	var d report.Diff
	require.NoError(t, storage.ReadDiff(outPath, &d))
	assert.Len(t, d.Modified, 1)
}

func TestRunCommandMockMode(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COLLECTOR_MODE", "mock")
	t.Setenv("TRACKER_USERNAME", "alice")
	t.Setenv("TRACKER_PASSWORD", "hunter2")
	snapshot := filepath.Join(dir, "collages.jsonlines")

	out := execute(t, "run",
		"--snapshot", snapshot,
		"--diff", filepath.Join(dir, "diff.json"),
		"--credentials", filepath.Join(dir, "absent.json"),
		"--min-interval", "0s",
	)
	assert.Contains(t, out, "6 collages have been added:")

	_, err := os.Stat(snapshot)
	require.NoError(t, err)
}
