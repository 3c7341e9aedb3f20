package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/tables"
)

func TestLoader_ReadTable(t *testing.T) {
	input := strings.Join([]string{
		"Equipment,Componente Serial,Component,Changeout Date,Changeout Type,Component Hours,Notes",
		"TK 12,,Motor de Tracción,2024-09-01,P,\"12,450.0\",ignored",
		",,,,,,",
		"TK 13,SN-9,Blower,2024-09-02,I,,",
	}, "\n")

	raw := &entities.RawTables{}
	err := NewLoader().ReadTable(raw, tables.Changeouts, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, raw.Changeouts, 2)

	first := raw.Changeouts[0]
	assert.Equal(t, "TK 12", first.Equipment)
	assert.Equal(t, "Motor de Tracción", first.Component)
	assert.Equal(t, "2024-09-01", first.ChangeoutDate)
	assert.Equal(t, "12,450.0", first.ComponentHours)
	assert.Empty(t, first.ComponentSerial, "componente_serial is not a known column")
	assert.Equal(t, "I", raw.Changeouts[1].Type)
}

func TestLoader_ReadTable_MissingRequiredColumn(t *testing.T) {
	raw := &entities.RawTables{}
	err := NewLoader().ReadTable(raw, tables.Blocked, strings.NewReader("component,equipment,changeout_date\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool_slot")
}

func TestLoader_LoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("changeouts.csv", "equipment,component,changeout_date\nTK001,motor_traccion,2024-09-01\n")
	write("baseline.csv", "equipment,component,changeout_date,arrival_date,pool_slot\nTK010,motor_traccion,2024-04-01,2024-08-01,1\n")

	raw, err := NewLoader().LoadDirectory(dir)
	require.NoError(t, err)

	assert.Len(t, raw.Changeouts, 1)
	require.Len(t, raw.Baseline, 1)
	assert.Equal(t, "1", raw.Baseline[0].PoolSlot)
	assert.Empty(t, raw.Arrivals)
	assert.Empty(t, raw.Blocked)
}
