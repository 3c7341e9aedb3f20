package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/config"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/poolplan/pkg/interfaces/cli/output"
)

// RunsConfig holds configuration for the run catalog command
type RunsConfig struct {
	ConfigFile string
	StorePath  string
	Limit      int
	// Show prints the stored table of one run
	Show string
	// Delete removes one run
	Delete  string
	Format  string // text or csv, for Show
	Verbose bool
	Out     io.Writer
}

// RunsCommand lists, shows and deletes recorded allocation runs
type RunsCommand struct {
	config RunsConfig
}

// NewRunsCommand creates a new runs command
func NewRunsCommand(config RunsConfig) *RunsCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &RunsCommand{config: config}
}

// Execute runs the runs command
func (c *RunsCommand) Execute(ctx context.Context) error {
	if c.config.Show != "" && c.config.Delete != "" {
		return fmt.Errorf("validation error: --show and --delete are exclusive")
	}

	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return err
	}
	path := cfg.Store.Path
	if c.config.StorePath != "" {
		path = c.config.StorePath
	}
	catalog, err := cfg.BuildCatalog()
	if err != nil {
		return err
	}

	store, err := sqlite.New(path)
	if err != nil {
		return fmt.Errorf("failed to open run catalog: %w", err)
	}
	defer store.Close()

	switch {
	case c.config.Delete != "":
		if err := store.DeleteRun(ctx, c.config.Delete); err != nil {
			return err
		}
		fmt.Fprintf(c.config.Out, "Deleted run %s\n", c.config.Delete)
		return nil
	case c.config.Show != "":
		return c.show(ctx, store, catalog)
	default:
		return c.list(ctx, store)
	}
}

func (c *RunsCommand) list(ctx context.Context, store *sqlite.Store) error {
	runs, err := store.ListRuns(ctx, c.config.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.config.Out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(c.config.Out, "%-36s %-20s %-10s %-6s %-7s %-8s %-12s %-9s %s\n",
		"Run", "Created", "Epoch", "Rows", "Placed", "Blocked", "Unallocated", "Exhausted", "Source")
	for _, run := range runs {
		fmt.Fprintf(c.config.Out, "%-36s %-20s %-10s %-6d %-7d %-8d %-12d %-9d %s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			entities.FormatDate(run.Epoch),
			run.Rows, run.Placed, run.Blocked, run.Unallocated, run.Exhausted,
			run.Source)
	}
	return nil
}

func (c *RunsCommand) show(ctx context.Context, store *sqlite.Store, catalog *entities.Catalog) error {
	rows, err := store.RunRows(ctx, c.config.Show)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run not found or empty: %s", c.config.Show)
	}

	if c.config.Format == "csv" {
		return output.WriteAllocationCSV(c.config.Out, rows)
	}

	fmt.Fprintf(c.config.Out, "%-26s %-8s %-12s %-10s %-4s %-5s %-10s %-12s\n",
		"Component", "Equip", "Serial", "Changeout", "Type", "Slot", "Arrival", "Status")
	for _, row := range rows {
		fmt.Fprintf(c.config.Out, "%-26s %-8s %-12s %-10s %-4s %-5d %-10s %-12s\n",
			row.DisplayName, row.Equipment, row.ComponentSerial,
			entities.FormatDate(row.ChangeoutDate), row.Type.Code(), row.PoolSlot,
			entities.FormatDate(row.ArrivalDate), row.ArrivalStatus)
	}

	if c.config.Verbose {
		log, err := store.RunLog(ctx, c.config.Show)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.config.Out)
		output.WriteLog(c.config.Out, &dto.AllocationResult{Rows: rows, Log: log}, catalog)
	}
	return nil
}
