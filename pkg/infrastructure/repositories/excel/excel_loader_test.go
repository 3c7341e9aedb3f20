package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf
}

func TestLoader_ReadWorkbook(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"Changeouts": {
			{"Equipment", "Equipment Model", "Component", "Changeout Date"},
			{"12", "960E-1", "Motor de Tracción", "2024-09-01"},
		},
		"blocked": {
			{"component", "equipment", "changeout_date", "pool_slot"},
			{"motor_traccion", "TK002", "2024-09-05", "2"},
		},
		"notes": {
			{"anything"},
		},
	})

	raw, err := NewLoader().ReadWorkbook(buf)
	require.NoError(t, err)

	require.Len(t, raw.Changeouts, 1)
	assert.Equal(t, "12", raw.Changeouts[0].Equipment)
	assert.Equal(t, "960E-1", raw.Changeouts[0].EquipmentModel)
	require.Len(t, raw.Blocked, 1)
	assert.Equal(t, "2", raw.Blocked[0].PoolSlot)
	assert.Empty(t, raw.Baseline)
	assert.Empty(t, raw.Arrivals)
}

func TestLoader_ReadWorkbook_MissingColumn(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"baseline": {
			{"equipment", "component", "changeout_date"},
			{"TK010", "motor_traccion", "2024-04-01"},
		},
	})

	_, err := NewLoader().ReadWorkbook(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool_slot")
}
