package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/geobench/dataset"
	"github.com/viant/geobench/recorder"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBackendsCommand(t *testing.T) {
	out, err := execute(t, "backends")
	require.NoError(t, err)
	assert.Equal(t, "bruteforce\ncover\ngeohash\nkdtree\nmemrtree\nrtree\nvptree\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "geobench v"+version)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run",
		"--out", dir,
		"--backend", "bruteforce,kdtree",
		"--index-points", "200",
		"--radius", "0,10000",
		"--query-points", "20",
		"--seed", "5",
		"--no-progress",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "4 runs completed")

	key := recorder.Key{Backend: "kdtree", IndexPoints: 200, RadiusMetres: 10000}
	stats, err := recorder.ReadSummary(recorder.SummaryPath(dir, key))
	require.NoError(t, err)
	assert.Equal(t, 20, stats.Queries)
	entries, err := recorder.ReadResults(recorder.ResultPath(dir, key))
	require.NoError(t, err)
	assert.Len(t, entries, 20)
	assert.FileExists(t, dataset.Path(dir, dataset.RoleIndex, 200))
}

func TestRunCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "--out", dir, "--backend", "quadtree", "--no-progress")
	assert.ErrorContains(t, err, "quadtree")

	_, err = execute(t, "run", "--out", dir, "--radius=-5", "--no-progress")
	assert.ErrorContains(t, err, "invalid radius")
}

func TestDatasetCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "dataset", "--out", dir, "--role", "query", "--size", "15,30", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, dataset.Path(dir, dataset.RoleQuery, 15))
	points, err := dataset.ReadFile(dataset.Path(dir, dataset.RoleQuery, 30))
	require.NoError(t, err)
	assert.Len(t, points, 30)

	_, err = execute(t, "dataset", "--out", dir, "--role", "train")
	assert.ErrorContains(t, err, "unknown role")
}
