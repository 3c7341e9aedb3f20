package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// generateCSVOutput writes allocation.csv, arrivals.csv and allocation_log.txt
func generateCSVOutput(result *dto.AllocationResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	allocationFile, err := createFile(config.OutputDir, "allocation.csv")
	if err != nil {
		return err
	}
	if err := writeFile(allocationFile, func(w io.Writer) error {
		return WriteAllocationCSV(w, result.Rows)
	}); err != nil {
		return fmt.Errorf("failed to write allocation CSV: %w", err)
	}

	arrivalsFile, err := createFile(config.OutputDir, "arrivals.csv")
	if err != nil {
		return err
	}
	if err := writeFile(arrivalsFile, func(w io.Writer) error {
		return WriteArrivalsCSV(w, result.Arrivals)
	}); err != nil {
		return fmt.Errorf("failed to write arrivals CSV: %w", err)
	}

	logFile, err := createFile(config.OutputDir, "allocation_log.txt")
	if err != nil {
		return err
	}
	if err := writeFile(logFile, func(w io.Writer) error {
		WriteLog(w, result, config.Catalog)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to write allocation log: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Out, "CSV results saved to:\n")
		fmt.Fprintf(config.Out, "  Allocation: %s\n", allocationFile)
		fmt.Fprintf(config.Out, "  Arrivals: %s\n", arrivalsFile)
		fmt.Fprintf(config.Out, "  Log: %s\n", logFile)
	}
	return nil
}

// WriteAllocationCSV writes the allocation table with a header row
func WriteAllocationCSV(w io.Writer, rows []dto.AllocationRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(AllocationHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(allocationRecord(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteArrivalsCSV writes the arrivals table with the slots stamped during allocation
func WriteArrivalsCSV(w io.Writer, arrivals []entities.Arrival) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ArrivalHeader); err != nil {
		return err
	}
	for _, arrival := range arrivals {
		if err := writer.Write(arrivalRecord(arrival)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeFile(filename string, write func(io.Writer) error) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return write(file)
}
