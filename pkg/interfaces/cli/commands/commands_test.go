package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/tables"
	"github.com/vsinha/poolplan/pkg/interfaces/cli/output"
)

const scenarioEpoch = "2024-07-29"

func generateScenario(t *testing.T, dir string, seed int64) {
	t.Helper()
	cmd := NewGenerateCommand(GenerateConfig{
		Trucks:     30,
		Components: 3,
		Weeks:      12,
		Rate:       0.6,
		Blocked:    0.1,
		Epoch:      scenarioEpoch,
		OutputDir:  dir,
		Seed:       seed,
		Out:        &bytes.Buffer{},
	})
	require.NoError(t, cmd.Execute(context.Background()))
}

func TestGenerateCommand_Reproducible(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	generateScenario(t, first, 42)
	generateScenario(t, second, 42)

	for _, table := range tables.Names {
		a, err := os.ReadFile(filepath.Join(first, table+".csv"))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, table+".csv"))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "%s differs between runs with the same seed", table)

		schema, err := tables.SchemaFor(table)
		require.NoError(t, err)
		firstLine := strings.SplitN(string(a), "\n", 2)[0]
		assert.Equal(t, strings.Join(schema.Header(), ","), firstLine)
	}
}

func TestGenerateCommand_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config GenerateConfig
	}{
		{"missing output", GenerateConfig{Trucks: 1, Weeks: 1, Epoch: scenarioEpoch}},
		{"no trucks", GenerateConfig{Weeks: 1, Epoch: scenarioEpoch, OutputDir: "x"}},
		{"no weeks", GenerateConfig{Trucks: 1, Epoch: scenarioEpoch, OutputDir: "x"}},
		{"blocked share", GenerateConfig{Trucks: 1, Weeks: 1, Blocked: 2, Epoch: scenarioEpoch, OutputDir: "x"}},
		{"bad epoch", GenerateConfig{Trucks: 1, Weeks: 1, Epoch: "29/07/2024", OutputDir: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Out = &bytes.Buffer{}
			err := NewGenerateCommand(tt.config).Execute(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestAllocateCommand_EndToEnd(t *testing.T) {
	ctx := context.Background()
	input, results := t.TempDir(), t.TempDir()
	storePath := filepath.Join(t.TempDir(), "poolplan.db")
	generateScenario(t, input, 7)

	var out bytes.Buffer
	err := NewAllocateCommand(Config{
		InputDir:  input,
		Epoch:     scenarioEpoch,
		OutputDir: results,
		Format:    "csv",
		Record:    true,
		StorePath: storePath,
		Out:       &out,
	}).Execute(ctx)
	require.NoError(t, err)

	allocation, err := os.ReadFile(filepath.Join(results, "allocation.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(allocation), strings.Join(output.AllocationHeader, ",")))
	assert.FileExists(t, filepath.Join(results, "allocation_log.txt"))
	assert.FileExists(t, filepath.Join(results, "arrivals.csv"))

	store, err := sqlite.New(storePath)
	require.NoError(t, err)
	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, runs, 1)
	assert.Equal(t, input, runs[0].Source)
	assert.Greater(t, runs[0].Rows, 0)

	var listed bytes.Buffer
	require.NoError(t, NewRunsCommand(RunsConfig{StorePath: storePath, Out: &listed}).Execute(ctx))
	assert.Contains(t, listed.String(), runs[0].ID)

	var shown bytes.Buffer
	require.NoError(t, NewRunsCommand(RunsConfig{
		StorePath: storePath,
		Show:      runs[0].ID,
		Format:    "csv",
		Out:       &shown,
	}).Execute(ctx))
	assert.Equal(t, runs[0].Rows+1, strings.Count(shown.String(), "\n"))

	var deleted bytes.Buffer
	require.NoError(t, NewRunsCommand(RunsConfig{StorePath: storePath, Delete: runs[0].ID, Out: &deleted}).Execute(ctx))
	assert.Contains(t, deleted.String(), "Deleted run")

	var empty bytes.Buffer
	require.NoError(t, NewRunsCommand(RunsConfig{StorePath: storePath, Out: &empty}).Execute(ctx))
	assert.Contains(t, empty.String(), "No runs recorded")
}

func TestAllocateCommand_Validation(t *testing.T) {
	ctx := context.Background()

	err := NewAllocateCommand(Config{Out: &bytes.Buffer{}}).Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")

	err = NewAllocateCommand(Config{InputDir: "a", Workbook: "b.xlsx", Out: &bytes.Buffer{}}).Execute(ctx)
	require.Error(t, err)

	input := t.TempDir()
	generateScenario(t, input, 1)
	err = NewAllocateCommand(Config{InputDir: input, Out: &bytes.Buffer{}}).Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "epoch is required")
}
