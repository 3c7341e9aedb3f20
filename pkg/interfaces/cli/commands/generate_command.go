package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/tables"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Trucks     int     // Size of the haul truck fleet
	Components int     // Number of catalog components to generate, 0 for all
	Weeks      int     // Planning horizon after the epoch
	Rate       float64 // Expected changeouts per component per week
	Blocked    float64 // Share of changeouts that wait on a blocked lane
	Epoch      string  // First allocated date, YYYY-MM-DD
	OutputDir  string  // Output directory for generated files
	Seed       int64   // Random seed for reproducible generation
	Verbose    bool
	Out        io.Writer
}

// GenerateCommand writes a synthetic CSV scenario the allocate command can read
type GenerateCommand struct {
	config  GenerateConfig
	rand    *rand.Rand
	catalog *entities.Catalog
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}

	return &GenerateCommand{
		config:  config,
		rand:    rand.New(rand.NewSource(seed)),
		catalog: entities.DefaultCatalog(),
	}
}

// scenario holds the generated rows of every source table by column name
type scenario map[string][]map[string]string

func (s scenario) add(table string, row map[string]string) {
	s[table] = append(s[table], row)
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	epoch, err := time.Parse(time.DateOnly, cmd.config.Epoch)
	if err != nil {
		return fmt.Errorf("validation error: epoch %q: %w", cmd.config.Epoch, entities.ErrMalformedDate)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Out,
			"Generating scenario: %d trucks, %d weeks from %s, %.2f changeouts per component-week\n",
			cmd.config.Trucks, cmd.config.Weeks, cmd.config.Epoch, cmd.config.Rate)
		fmt.Fprintf(cmd.config.Out, "Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.config.Out, "Random seed: %d\n", cmd.config.Seed)
	}

	generated := cmd.buildScenario(epoch)

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, table := range tables.Names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cmd.writeTable(table, generated[table]); err != nil {
			return fmt.Errorf("failed to generate %s: %w", table, err)
		}
		if cmd.config.Verbose {
			fmt.Fprintf(cmd.config.Out, "  %s.csv: %d rows\n", table, len(generated[table]))
		}
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Out, "Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	switch {
	case cmd.config.OutputDir == "":
		return fmt.Errorf("output directory is required")
	case cmd.config.Trucks <= 0:
		return fmt.Errorf("trucks must be positive, got %d", cmd.config.Trucks)
	case cmd.config.Weeks <= 0:
		return fmt.Errorf("weeks must be positive, got %d", cmd.config.Weeks)
	case cmd.config.Rate < 0:
		return fmt.Errorf("rate cannot be negative, got %f", cmd.config.Rate)
	case cmd.config.Blocked < 0 || cmd.config.Blocked > 1:
		return fmt.Errorf("blocked share must be between 0 and 1, got %f", cmd.config.Blocked)
	}
	return nil
}

// buildScenario seeds every slot with a pre-epoch changeout, then draws the
// horizon's changeouts, their repair returns and the occasional blocked lane
func (cmd *GenerateCommand) buildScenario(epoch time.Time) scenario {
	generated := make(scenario)
	horizon := epoch.AddDate(0, 0, 7*cmd.config.Weeks)
	serial := 0
	nextSerial := func(code entities.ComponentCode) string {
		serial++
		return fmt.Sprintf("%s-%05d", serialPrefix(code), serial)
	}

	codes := cmd.catalog.Codes()
	if n := cmd.config.Components; n > 0 && n < len(codes) {
		codes = codes[:n]
	}

	for _, code := range codes {
		kind, _ := cmd.catalog.Lookup(code)
		budget := kind.BudgetFor("")
		slots := 2 + cmd.rand.Intn(3)
		seen := make(map[string]bool)

		for slot := 1; slot <= slots; slot++ {
			out := epoch.AddDate(0, 0, -(14 + cmd.rand.Intn(budget.PlannedDays*2)))
			back := out.AddDate(0, 0, budget.PlannedDays+cmd.rand.Intn(21)-10)
			arrival := ""
			if !back.After(epoch) {
				arrival = back.Format(time.DateOnly)
			}
			equipment := cmd.equipment()
			seen[equipment+out.Format(time.DateOnly)] = true
			row := map[string]string{
				"equipment":        equipment,
				"equipment_model":  "930E",
				"component":        string(code),
				"component_serial": nextSerial(code),
				"changeout_date":   out.Format(time.DateOnly),
				"changeout_type":   "P",
				"component_hours":  cmd.hours(),
				"arrival_date":     arrival,
				"pool_slot":        fmt.Sprintf("%d", slot),
			}
			generated.add(tables.Baseline, row)

			// the observed side of the seed changeout
			generated.add(tables.Changeouts, map[string]string{
				"equipment":        row["equipment"],
				"equipment_model":  row["equipment_model"],
				"component":        row["component"],
				"component_serial": row["component_serial"],
				"changeout_date":   row["changeout_date"],
				"changeout_type":   row["changeout_type"],
				"component_hours":  row["component_hours"],
			})
		}

		for week := 0; week < cmd.config.Weeks; week++ {
			count := int(cmd.config.Rate)
			if cmd.rand.Float64() < cmd.config.Rate-float64(count) {
				count++
			}

			for i := 0; i < count; i++ {
				date := epoch.AddDate(0, 0, 7*week+cmd.rand.Intn(7))
				equipment := cmd.equipment()
				key := equipment + date.Format(time.DateOnly)
				if seen[key] {
					continue
				}
				seen[key] = true

				changeoutType := cmd.changeoutType()
				generated.add(tables.Changeouts, map[string]string{
					"equipment":        equipment,
					"equipment_model":  "930E",
					"component":        string(code),
					"component_serial": nextSerial(code),
					"changeout_date":   date.Format(time.DateOnly),
					"changeout_type":   changeoutType.Code(),
					"component_hours":  cmd.hours(),
				})
				if changeoutType == entities.Excluded {
					continue
				}

				if cmd.rand.Float64() < cmd.config.Blocked {
					generated.add(tables.Blocked, map[string]string{
						"component":       string(code),
						"equipment":       equipment,
						"equipment_model": "930E",
						"changeout_date":  date.Format(time.DateOnly),
						"pool_slot":       fmt.Sprintf("%d", 1+cmd.rand.Intn(slots)),
					})
				}

				back := date.AddDate(0, 0, budget.Days(changeoutType)+cmd.rand.Intn(21)-10)
				if back.After(horizon) {
					continue
				}
				switch draw := cmd.rand.Float64(); {
				case draw < 0.6:
					generated.add(tables.Arrivals, map[string]string{
						"component":    string(code),
						"arrival_date": back.Format(time.DateOnly),
						"arrival_type": "REAL",
					})
				case draw < 0.75:
					generated.add(tables.Arrivals, map[string]string{
						"component":    string(code),
						"arrival_date": back.Format(time.DateOnly),
						"arrival_type": "PROJECTED",
					})
				}
			}
		}
	}
	return generated
}

func (cmd *GenerateCommand) equipment() string {
	return fmt.Sprintf("%d", 1+cmd.rand.Intn(cmd.config.Trucks))
}

func (cmd *GenerateCommand) hours() string {
	return fmt.Sprintf("%d.0", 8000+cmd.rand.Intn(17000))
}

// changeoutType draws mostly planned work with some failures and exclusions
func (cmd *GenerateCommand) changeoutType() entities.ChangeoutType {
	switch draw := cmd.rand.Float64(); {
	case draw < 0.80:
		return entities.Planned
	case draw < 0.95:
		return entities.Unplanned
	default:
		return entities.Excluded
	}
}

func serialPrefix(code entities.ComponentCode) string {
	prefix := string(code)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return strings.ToUpper(prefix)
}

func (cmd *GenerateCommand) writeTable(table string, rows []map[string]string) error {
	schema, err := tables.SchemaFor(table)
	if err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(cmd.config.OutputDir, table+".csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	header := schema.Header()
	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, column := range header {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
