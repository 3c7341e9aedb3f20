package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/tables"
)

// Loader handles loading pool source tables from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDirectory reads changeouts.csv, baseline.csv, arrivals.csv and
// blocked.csv from dir. A missing file is an empty table.
func (l *Loader) LoadDirectory(dir string) (*entities.RawTables, error) {
	raw := &entities.RawTables{}
	for _, table := range tables.Names {
		filename := filepath.Join(dir, table+".csv")
		if err := l.LoadTable(raw, table, filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
	}
	return raw, nil
}

// LoadTable appends one CSV file to raw
func (l *Loader) LoadTable(raw *entities.RawTables, table, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open %s file %s: %w", table, filename, err)
	}
	defer file.Close()

	return l.ReadTable(raw, table, file)
}

// ReadTable appends the CSV rows read from r to raw
func (l *Loader) ReadTable(raw *entities.RawTables, table string, r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var records [][]string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s CSV row %d: %w", table, line, err)
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return fmt.Errorf("%s CSV must have a header row", table)
	}

	if err := tables.Decode(raw, table, records); err != nil {
		return fmt.Errorf("%s CSV: %w", table, err)
	}
	return nil
}
