package normalizer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/poolplan/pkg/domain/entities"
)

func TestFoldKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Motor de Tracción", "motor_de_traccion"},
		{"  MÓDULO   DE potencia ", "modulo_de_potencia"},
		{"Suspensión-Trasera", "suspensiontrasera"},
		{"Cilindro\tde  Dirección", "cilindro_de_direccion"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FoldKey(tt.input), "FoldKey(%q)", tt.input)
	}
}

func TestNormalizer_Canonicalize(t *testing.T) {
	t.Parallel()

	n := New(DefaultRules(), nil)

	tests := []struct {
		name         string
		component    string
		subcomponent string
		expected     entities.ComponentCode
		expectedSub  string
	}{
		{"mapped component", "Motor de Tracción", "", entities.TractionMotor, ""},
		{"component becomes sub-component", "Alternador Principal", "", entities.PowerModule, "alternador_principal"},
		{"exact pair", "Módulo Potencia", "Alternador", entities.PowerModule, "alternador_principal"},
		{"component-only entry keeps sub-component", "Motor de Traccion", "Rotor", entities.TractionMotor, "rotor"},
		{"pass through", "Blower", "Parrilla", entities.Blower, "parrilla"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			component, sub := n.Canonicalize(tt.component, tt.subcomponent)
			assert.Equal(t, tt.expected, component)
			assert.Equal(t, tt.expectedSub, sub)
		})
	}
}

func TestNormalizer_Equipment(t *testing.T) {
	t.Parallel()

	n := New(DefaultRules(), nil)

	tests := []struct {
		raw      string
		model    string
		expected string
	}{
		{"Camión 12", "960E-1", "TK012"},
		{"TK-101", "960E-2", "TK101"},
		{"Pala 3", "PC8000", "CEX003"},
		{"7", "unknown", "TK007"},
		{"grua", "", "GRUA"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, n.Equipment(tt.raw, tt.model), "Equipment(%q, %q)", tt.raw, tt.model)
	}
	assert.Equal(t, "960E", n.CanonicalModel(" 960e-1 "))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	expected := entities.CivilDate(2024, time.September, 1)
	for _, input := range []string{"2024-09-01", "2024-09-01 13:45:00", "2024-09-01T07:00:00", " 2024-09-01 00:00:00.000 "} {
		got, err := ParseDate(input)
		require.NoError(t, err, input)
		assert.True(t, got.Equal(expected), "ParseDate(%q) = %s", input, got)
	}

	got, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseDate("01/09/2024")
	assert.True(t, errors.Is(err, entities.ErrMalformedDate))
}

func TestCleanSerialAndNumbers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MT-2231", CleanSerial("\t #MT-2231 \t"))
	assert.Equal(t, "SN1", CleanSerial("SN1"))

	tests := []struct {
		input    string
		expected int64
		ok       bool
	}{
		{"12450.0", 12450, true},
		{"12450.7", 12450, true},
		{"12,450", 12450, true},
		{"", MissingNumber, false},
		{"n/a", MissingNumber, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
	}

	assert.Equal(t, 3, ParseSlot("3.0"))
	assert.Equal(t, entities.NoSlot, ParseSlot("-1"))
	assert.Equal(t, entities.NoSlot, ParseSlot(""))
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	n := New(DefaultRules(), nil)
	raw := entities.RawTables{
		Changeouts: []entities.RawChangeout{
			{
				Equipment: "Camión 1", EquipmentModel: "960E-1",
				Component: "Motor de Tracción", Position: "LH",
				ComponentSerial: "#SN-1 ", ChangeoutDate: "2024-09-01 08:00:00",
				Type: "p", ComponentHours: "15000.0",
			},
			{Equipment: "Camión 2", Component: "Blower", ChangeoutDate: "not a date"},
			{Equipment: "Camión 3", Component: "Blower", ChangeoutDate: ""},
		},
		Baseline: []entities.RawBaselineRow{
			{
				Equipment: "TK001", Component: "motor traccion", ComponentSerial: "SN-0",
				ChangeoutDate: "2024-04-01", ArrivalDate: "2024-08-01", PoolSlot: "1.0",
			},
			{Equipment: "TK001", Component: "motor traccion", ChangeoutDate: ""},
		},
		Arrivals: []entities.RawArrival{
			{Component: "Motor de Tracción", ArrivalDate: "2024-11-10", ArrivalType: "REAL"},
			{Component: "Motor de Tracción", ArrivalDate: "bad", ArrivalType: "PROYECTADO"},
		},
		Blocked: []entities.RawBlockedLane{
			{Component: "Motor de Tracción", Equipment: "2", ChangeoutDate: "2024-09-05", PoolSlot: "2"},
		},
	}

	tables, report := n.Normalize(raw)

	require.Len(t, tables.Changeouts, 1)
	changeout := tables.Changeouts[0]
	assert.Equal(t, "TK001", changeout.Equipment)
	assert.Equal(t, entities.TractionMotor, changeout.Component)
	assert.Equal(t, "SN-1", changeout.ComponentSerial)
	assert.Equal(t, entities.Planned, changeout.Type)
	assert.Equal(t, int64(15000), changeout.ComponentHours)
	assert.Equal(t, entities.ISOWeek("2024-W35"), changeout.ChangeoutWeek)
	assert.True(t, changeout.ChangeoutDate.Equal(entities.CivilDate(2024, time.September, 1)))

	require.Len(t, tables.Baseline, 1)
	assert.Equal(t, 1, tables.Baseline[0].PoolSlot)
	assert.Equal(t, int64(-1), tables.Baseline[0].ComponentHours)
	assert.True(t, tables.Baseline[0].ArrivalDate.Equal(entities.CivilDate(2024, time.August, 1)))

	require.Len(t, tables.Arrivals, 2, "arrivals are never dropped")
	assert.Equal(t, entities.RealArrival, tables.Arrivals[0].Type)
	assert.Equal(t, entities.ProjectedArrival, tables.Arrivals[1].Type)
	assert.True(t, tables.Arrivals[1].ArrivalDate.IsZero())

	require.Len(t, tables.Blocked, 1)
	assert.Equal(t, "TK002", tables.Blocked[0].Equipment)
	assert.Equal(t, 2, tables.Blocked[0].PoolSlot)

	assert.Equal(t, 2, report.DroppedChangeouts)
	assert.Equal(t, 1, report.DroppedBaseline)
	assert.Equal(t, 2, report.MalformedDates)
}
