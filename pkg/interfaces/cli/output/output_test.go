package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/application/services"
	"github.com/vsinha/poolplan/pkg/domain/entities"
	testhelpers "github.com/vsinha/poolplan/pkg/infrastructure/testing"
)

func fleetResult(t *testing.T) *dto.AllocationResult {
	t.Helper()
	changeouts, baseline, arrivals, blocked := testhelpers.BuildFleetTestData()
	result, err := services.NewPoolService(nil).Allocate(context.Background(), testhelpers.FleetEpoch, services.Repositories{
		Changeouts: changeouts,
		Baseline:   baseline,
		Arrivals:   arrivals,
		Blocked:    blocked,
	})
	require.NoError(t, err)
	return result
}

func TestGenerate_Text(t *testing.T) {
	result := fleetResult(t)
	var out bytes.Buffer

	err := Generate(result, Config{Format: "text", Verbose: true, Out: &out})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Pool Allocation Summary")
	assert.Contains(t, text, "Epoch: 2024-07-29")
	assert.Contains(t, text, "Rows: 14")
	assert.Contains(t, text, "Coverage: 100.0%")
	assert.Contains(t, text, "Traction Motor")
	assert.Contains(t, text, "# Traction Motor (motor_traccion)")
	assert.NotContains(t, text, "Slot search exhausted")
}

func TestGenerate_JSON(t *testing.T) {
	result := fleetResult(t)
	var out bytes.Buffer

	require.NoError(t, Generate(result, Config{Format: "json", Out: &out}))

	var decoded struct {
		Epoch string            `json:"epoch"`
		Rows  []json.RawMessage `json:"rows"`
		Log   map[string][]string
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "2024-07-29", decoded.Epoch)
	assert.Len(t, decoded.Rows, 14)
	assert.NotEmpty(t, decoded.Log["motor_traccion"])
}

func TestGenerate_CSV(t *testing.T) {
	result := fleetResult(t)
	dir := t.TempDir()

	require.NoError(t, Generate(result, Config{Format: "csv", OutputDir: dir, Out: &bytes.Buffer{}}))

	file, err := os.Open(filepath.Join(dir, "allocation.csv"))
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 15)
	assert.Equal(t, AllocationHeader, records[0])

	for _, record := range records[1:] {
		assert.NotEmpty(t, record[13], "every fleet row sits in a slot")
		assert.NotEmpty(t, record[11], "arrival is coalesced with the projection")
	}

	arrivals, err := os.ReadFile(filepath.Join(dir, "arrivals.csv"))
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(arrivals), "\n"))

	log, err := os.ReadFile(filepath.Join(dir, "allocation_log.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "# Blower (blower)")
}

func TestGenerate_CSVRequiresDirectory(t *testing.T) {
	err := Generate(fleetResult(t), Config{Format: "csv"})
	assert.Error(t, err)
}

func TestGenerate_XLSX(t *testing.T) {
	result := fleetResult(t)
	dir := t.TempDir()

	require.NoError(t, Generate(result, Config{Format: "xlsx", OutputDir: dir, Out: &bytes.Buffer{}}))

	f, err := excelize.OpenFile(filepath.Join(dir, "allocation.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{AllocationSheet, ArrivalsSheet, LogSheet}, f.GetSheetList())

	rows, err := f.GetRows(AllocationSheet)
	require.NoError(t, err)
	require.Len(t, rows, 15)
	assert.Equal(t, AllocationHeader, rows[0])

	arrivals, err := f.GetRows(ArrivalsSheet)
	require.NoError(t, err)
	assert.Len(t, arrivals, 5)

	entries, err := f.GetRows(LogSheet)
	require.NoError(t, err)
	assert.Greater(t, len(entries), 1)
}

func TestGenerate_SVG(t *testing.T) {
	result := fleetResult(t)
	var out bytes.Buffer

	require.NoError(t, Generate(result, Config{Format: "svg", Out: &out}))

	svg := out.String()
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Traction Motor #1")
	assert.Contains(t, svg, "Lift Cylinder #2")
	assert.Contains(t, svg, `class="blocked-bar"`)
}

func TestGanttChart_Empty(t *testing.T) {
	result := &dto.AllocationResult{Log: entities.NewAllocationLog()}
	chart := NewGanttChart(result)
	assert.Contains(t, chart.GenerateSVG(result, entities.DefaultCatalog()), "No Slotted Changeouts")
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	err := Generate(fleetResult(t), Config{Format: "pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
