package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// Workbook sheet names
const (
	AllocationSheet = "allocation"
	LogSheet        = "log"
	ArrivalsSheet   = "arrivals"
)

// generateXLSXOutput writes allocation.xlsx
func generateXLSXOutput(result *dto.AllocationResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}

	filename, err := createFile(config.OutputDir, "allocation.xlsx")
	if err != nil {
		return err
	}
	if err := writeFile(filename, func(w io.Writer) error {
		return WriteWorkbook(w, result, config.Catalog)
	}); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Out, "Workbook saved to: %s\n", filename)
	}
	return nil
}

// WriteWorkbook renders the allocation table, the arrivals and the log as
// sheets of one workbook
func WriteWorkbook(w io.Writer, result *dto.AllocationResult, catalog *entities.Catalog) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(AllocationSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	allocation := make([][]interface{}, 0, len(result.Rows))
	for _, row := range result.Rows {
		allocation = append(allocation, allocationCells(row))
	}
	if err := writeSheet(f, AllocationSheet, AllocationHeader, allocation, headerStyle); err != nil {
		return err
	}

	if _, err := f.NewSheet(ArrivalsSheet); err != nil {
		return err
	}
	arrivals := make([][]interface{}, 0, len(result.Arrivals))
	for _, arrival := range result.Arrivals {
		arrivals = append(arrivals, stringCells(arrivalRecord(arrival)))
	}
	if err := writeSheet(f, ArrivalsSheet, ArrivalHeader, arrivals, headerStyle); err != nil {
		return err
	}

	if _, err := f.NewSheet(LogSheet); err != nil {
		return err
	}
	var entries [][]interface{}
	for _, code := range result.Log.Components(catalog) {
		for _, entry := range result.Log.Entries(code) {
			entries = append(entries, []interface{}{string(code), entry})
		}
	}
	if err := writeSheet(f, LogSheet, []string{"component", "entry"}, entries, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(LogSheet, "B", "B", 90); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// allocationCells is allocationRecord with the numeric columns typed
func allocationCells(row dto.AllocationRow) []interface{} {
	cells := stringCells(allocationRecord(row))
	cells[9] = row.ComponentHours
	if row.HasSlot() {
		cells[13] = row.PoolSlot
	}
	cells[14] = row.OverhaulDays
	cells[15] = row.New
	return cells
}

func stringCells(record []string) []interface{} {
	cells := make([]interface{}, len(record))
	for i, value := range record {
		cells[i] = value
	}
	return cells
}
