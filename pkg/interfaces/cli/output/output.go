package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/application/services/shared"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Elapsed   time.Duration
	Catalog   *entities.Catalog
	// Out receives console output; nil means stdout
	Out io.Writer
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv", "xlsx", "svg"}

// Generate creates output in the specified format
func Generate(result *dto.AllocationResult, config Config) error {
	if config.Catalog == nil {
		config.Catalog = entities.DefaultCatalog()
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}

	switch config.Format {
	case "text", "":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	case "xlsx":
		return generateXLSXOutput(result, config)
	case "svg":
		return generateSVGOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints the per-component summary and, when verbose,
// the allocation log. With an output directory the same text is saved.
func generateTextOutput(result *dto.AllocationResult, config Config) error {
	var text strings.Builder
	WriteSummary(&text, result, config.Catalog, config.Elapsed)
	if config.Verbose {
		text.WriteString("\n")
		WriteLog(&text, result, config.Catalog)
	}

	if _, err := io.WriteString(config.Out, text.String()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if config.OutputDir == "" {
		return nil
	}
	filename, err := createFile(config.OutputDir, "allocation_summary.txt")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(text.String()), 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.Out, "Summary saved to: %s\n", filename)
	}
	return nil
}

// WriteSummary renders the human-readable run summary
func WriteSummary(w io.Writer, result *dto.AllocationResult, catalog *entities.Catalog, elapsed time.Duration) {
	summaries := shared.Summarize(result, catalog)

	fmt.Fprintf(w, "Pool Allocation Summary\n")
	fmt.Fprintf(w, "=======================\n\n")
	fmt.Fprintf(w, "Epoch: %s\n", entities.FormatDate(result.Epoch))
	fmt.Fprintf(w, "Rows: %d\n", len(result.Rows))
	fmt.Fprintf(w, "Unallocated: %d\n", len(result.Unallocated))
	fmt.Fprintf(w, "Coverage: %.1f%%\n", shared.CoverageRatio(summaries)*100)
	if elapsed > 0 {
		fmt.Fprintf(w, "Allocation Time: %v\n", elapsed)
	}
	fmt.Fprintln(w)

	if len(summaries) > 0 {
		fmt.Fprintf(w, "%-28s %-6s %-7s %-8s %-9s %-8s %-10s %-12s\n",
			"Component", "Slots", "Placed", "Blocked", "Unplaced", "Matched", "Unmatched", "Next Free")
		fmt.Fprintf(w, "%-28s %-6s %-7s %-8s %-9s %-8s %-10s %-12s\n",
			strings.Repeat("-", 28), "------", "-------", "--------", "---------", "--------", "----------", "------------")
		for _, s := range summaries {
			nextFree := "-"
			if !s.NextFree.IsZero() {
				nextFree = fmt.Sprintf("%s #%d", entities.FormatDate(s.NextFree), s.NextFreeSlot)
			}
			fmt.Fprintf(w, "%-28s %-6d %-7d %-8d %-9d %-8d %-10d %-12s\n",
				s.DisplayName, s.Slots, s.Placed, s.Blocked, s.Unplaced,
				s.ArrivalsMatched, s.ArrivalsUnmatched, nextFree)
		}
		fmt.Fprintln(w)
	}

	if failures := result.Exhausted(); len(failures) > 0 {
		fmt.Fprintf(w, "Slot search exhausted:\n")
		for _, failure := range failures {
			fmt.Fprintf(w, "  %s week %s: %s %s serial %s (%d unplaced)\n",
				catalog.DisplayName(failure.Component),
				failure.Week,
				failure.Changeout.Equipment,
				entities.FormatDate(failure.Changeout.ChangeoutDate),
				failure.Changeout.ComponentSerial,
				failure.Unplaced)
		}
		fmt.Fprintln(w)
	}
}

// WriteLog renders the allocation log, one block per component
func WriteLog(w io.Writer, result *dto.AllocationResult, catalog *entities.Catalog) {
	for _, code := range result.Log.Components(catalog) {
		fmt.Fprintf(w, "# %s (%s)\n", catalog.DisplayName(code), code)
		fmt.Fprintln(w, result.Log.Text(code))
		fmt.Fprintln(w)
	}
}

// jsonResult is the wire shape of a run
type jsonResult struct {
	Epoch       string                              `json:"epoch"`
	Rows        []dto.AllocationRow                 `json:"rows"`
	Arrivals    []entities.Arrival                  `json:"arrivals"`
	Outcomes    []dto.ComponentOutcome              `json:"outcomes"`
	Unallocated []entities.Changeout                `json:"unallocated"`
	Log         map[entities.ComponentCode][]string `json:"log"`
}

func toJSON(result *dto.AllocationResult, catalog *entities.Catalog) jsonResult {
	out := jsonResult{
		Epoch:       entities.FormatDate(result.Epoch),
		Rows:        result.Rows,
		Arrivals:    result.Arrivals,
		Outcomes:    result.Outcomes,
		Unallocated: result.Unallocated,
		Log:         make(map[entities.ComponentCode][]string),
	}
	for _, code := range result.Log.Components(catalog) {
		out.Log[code] = result.Log.Entries(code)
	}
	return out
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.AllocationResult, config Config) error {
	jsonData, err := json.MarshalIndent(toJSON(result, config.Catalog), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err := fmt.Fprintln(config.Out, string(jsonData))
		return err
	}

	filename, err := createFile(config.OutputDir, "allocation.json")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.Out, "JSON results saved to: %s\n", filename)
	}
	return nil
}

// createFile makes sure dir exists and returns the path of name inside it
func createFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}
