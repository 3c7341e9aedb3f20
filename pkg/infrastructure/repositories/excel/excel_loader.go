package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/domain/services/normalizer"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/tables"
)

// Loader reads pool source tables from one workbook with a sheet per table
type Loader struct{}

// NewLoader creates a new workbook loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadWorkbook opens an .xlsx file and reads its source sheets
func (l *Loader) LoadWorkbook(filename string) (*entities.RawTables, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", filename, err)
	}
	defer f.Close()

	return l.read(f)
}

// ReadWorkbook reads the source sheets of a workbook stream
func (l *Loader) ReadWorkbook(r io.Reader) (*entities.RawTables, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	return l.read(f)
}

// read matches sheets to tables by folded name. A missing sheet is an empty table.
func (l *Loader) read(f *excelize.File) (*entities.RawTables, error) {
	sheets := make(map[string]string)
	for _, name := range f.GetSheetList() {
		sheets[normalizer.FoldKey(name)] = name
	}

	raw := &entities.RawTables{}
	for _, table := range tables.Names {
		sheet, ok := sheets[table]
		if !ok {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if err := tables.Decode(raw, table, rows); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return raw, nil
}
