// Package tables maps header-named source rows onto raw pool records.
// CSV files and workbook sheets share these schemas.
package tables

import (
	"fmt"
	"strings"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/domain/services/normalizer"
)

// Source table names, used as CSV file stems and sheet names
const (
	Changeouts = "changeouts"
	Baseline   = "baseline"
	Arrivals   = "arrivals"
	Blocked    = "blocked"
)

// Names lists the source tables in load order
var Names = []string{Changeouts, Baseline, Arrivals, Blocked}

// Column is one named source column
type Column struct {
	Name     string
	Required bool
}

// Schema describes the columns a table is read with
type Schema struct {
	Table   string
	Columns []Column
}

var schemas = map[string]Schema{
	Changeouts: {Table: Changeouts, Columns: []Column{
		{Name: "equipment", Required: true},
		{Name: "equipment_model"},
		{Name: "component", Required: true},
		{Name: "subcomponent"},
		{Name: "position"},
		{Name: "component_serial"},
		{Name: "changeout_date", Required: true},
		{Name: "changeout_type"},
		{Name: "component_hours"},
	}},
	Baseline: {Table: Baseline, Columns: []Column{
		{Name: "equipment", Required: true},
		{Name: "equipment_model"},
		{Name: "component", Required: true},
		{Name: "subcomponent"},
		{Name: "position"},
		{Name: "component_serial"},
		{Name: "changeout_date", Required: true},
		{Name: "changeout_type"},
		{Name: "component_hours"},
		{Name: "arrival_date"},
		{Name: "pool_slot", Required: true},
	}},
	Arrivals: {Table: Arrivals, Columns: []Column{
		{Name: "component", Required: true},
		{Name: "subcomponent"},
		{Name: "arrival_date", Required: true},
		{Name: "arrival_type"},
		{Name: "pool_slot"},
	}},
	Blocked: {Table: Blocked, Columns: []Column{
		{Name: "component", Required: true},
		{Name: "subcomponent"},
		{Name: "equipment", Required: true},
		{Name: "equipment_model"},
		{Name: "changeout_date", Required: true},
		{Name: "pool_slot", Required: true},
	}},
}

// SchemaFor returns the schema of a source table
func SchemaFor(table string) (Schema, error) {
	schema, ok := schemas[table]
	if !ok {
		return Schema{}, fmt.Errorf("unknown source table: %s", table)
	}
	return schema, nil
}

// Header returns the canonical header of the schema
func (s Schema) Header() []string {
	header := make([]string, len(s.Columns))
	for i, column := range s.Columns {
		header[i] = column.Name
	}
	return header
}

// Binding maps schema columns to positions in one source header
type Binding struct {
	table string
	index map[string]int
}

// Bind matches a header against the schema. Names are compared after
// accent folding and lowercasing; unknown columns are ignored.
func (s Schema) Bind(header []string) (*Binding, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizer.FoldKey(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	b := &Binding{table: s.Table, index: make(map[string]int, len(s.Columns))}
	var missing []string
	for _, column := range s.Columns {
		position, ok := positions[column.Name]
		if !ok {
			if column.Required {
				missing = append(missing, column.Name)
			}
			continue
		}
		b.index[column.Name] = position
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s header is missing required columns %v, got %v", s.Table, missing, header)
	}
	return b, nil
}

// Get returns the trimmed value of a column; absent columns and short rows read as ""
func (b *Binding) Get(record []string, column string) string {
	position, ok := b.index[column]
	if !ok || position >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[position])
}

// Decode appends the data rows of one table to raw. rows[0] is the header.
// Blank rows are skipped.
func Decode(raw *entities.RawTables, table string, rows [][]string) error {
	schema, err := SchemaFor(table)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	b, err := schema.Bind(rows[0])
	if err != nil {
		return err
	}

	for _, record := range rows[1:] {
		if blank(record) {
			continue
		}
		switch table {
		case Changeouts:
			raw.Changeouts = append(raw.Changeouts, entities.RawChangeout{
				Equipment:       b.Get(record, "equipment"),
				EquipmentModel:  b.Get(record, "equipment_model"),
				Component:       b.Get(record, "component"),
				Subcomponent:    b.Get(record, "subcomponent"),
				Position:        b.Get(record, "position"),
				ComponentSerial: b.Get(record, "component_serial"),
				ChangeoutDate:   b.Get(record, "changeout_date"),
				Type:            b.Get(record, "changeout_type"),
				ComponentHours:  b.Get(record, "component_hours"),
			})
		case Baseline:
			raw.Baseline = append(raw.Baseline, entities.RawBaselineRow{
				Equipment:       b.Get(record, "equipment"),
				EquipmentModel:  b.Get(record, "equipment_model"),
				Component:       b.Get(record, "component"),
				Subcomponent:    b.Get(record, "subcomponent"),
				Position:        b.Get(record, "position"),
				ComponentSerial: b.Get(record, "component_serial"),
				ChangeoutDate:   b.Get(record, "changeout_date"),
				Type:            b.Get(record, "changeout_type"),
				ComponentHours:  b.Get(record, "component_hours"),
				ArrivalDate:     b.Get(record, "arrival_date"),
				PoolSlot:        b.Get(record, "pool_slot"),
			})
		case Arrivals:
			raw.Arrivals = append(raw.Arrivals, entities.RawArrival{
				Component:    b.Get(record, "component"),
				Subcomponent: b.Get(record, "subcomponent"),
				ArrivalDate:  b.Get(record, "arrival_date"),
				ArrivalType:  b.Get(record, "arrival_type"),
				PoolSlot:     b.Get(record, "pool_slot"),
			})
		case Blocked:
			raw.Blocked = append(raw.Blocked, entities.RawBlockedLane{
				Component:      b.Get(record, "component"),
				Subcomponent:   b.Get(record, "subcomponent"),
				Equipment:      b.Get(record, "equipment"),
				EquipmentModel: b.Get(record, "equipment_model"),
				ChangeoutDate:  b.Get(record, "changeout_date"),
				PoolSlot:       b.Get(record, "pool_slot"),
			})
		}
	}
	return nil
}

func blank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
