package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/poolplan/pkg/application/services"
	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/config"
	"github.com/vsinha/poolplan/pkg/infrastructure/events"
	"github.com/vsinha/poolplan/pkg/infrastructure/logging"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/excel"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/poolplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the allocate command
type Config struct {
	ConfigFile string
	// InputDir holds changeouts.csv, baseline.csv, arrivals.csv and blocked.csv
	InputDir string
	// Workbook is an .xlsx file with one sheet per source table
	Workbook string
	// Epoch overrides the configured epoch when set
	Epoch     string
	OutputDir string
	Format    string
	Verbose   bool
	Parallel  bool
	// Record saves the run to the run catalog
	Record    bool
	StorePath string
	Out       io.Writer
}

// AllocateCommand loads the source tables, runs the allocation and renders it
type AllocateCommand struct {
	config Config
}

// NewAllocateCommand creates a new allocate command with the given configuration
func NewAllocateCommand(config Config) *AllocateCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &AllocateCommand{config: config}
}

// Execute runs the allocate command
func (c *AllocateCommand) Execute(ctx context.Context) error {
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	epoch, err := cfg.EpochDate()
	if err != nil {
		return err
	}
	if epoch.IsZero() {
		return fmt.Errorf("validation error: an epoch is required (--epoch or epoch in the config file)")
	}

	catalog, err := cfg.BuildCatalog()
	if err != nil {
		return err
	}

	source, raw, err := c.loadSource()
	if err != nil {
		return err
	}
	logger.Info("source tables loaded",
		zap.String("source", source),
		zap.Int("changeouts", len(raw.Changeouts)),
		zap.Int("baseline_rows", len(raw.Baseline)),
		zap.Int("arrivals", len(raw.Arrivals)),
		zap.Int("blocked_lanes", len(raw.Blocked)),
	)

	store := events.NewInMemoryEventStore()
	if c.config.Verbose {
		if err := store.Subscribe(events.AllEventTypes, eventLogger(logger.Named("events"))); err != nil {
			return fmt.Errorf("failed to subscribe to allocation events: %w", err)
		}
	}

	service := services.NewPoolServiceWithConfig(services.PoolConfig{
		Catalog:  catalog,
		Rules:    cfg.BuildRules(),
		Parallel: cfg.Allocation.Parallel,
	}, store, logger)

	repos := services.Repositories{
		Changeouts: memory.NewChangeoutRepository(len(raw.Changeouts)),
		Baseline:   memory.NewBaselineRepository(len(raw.Baseline)),
		Arrivals:   memory.NewArrivalRepository(),
		Blocked:    memory.NewBlockedLaneRepository(),
	}
	if _, err := service.Ingest(ctx, *raw, repos); err != nil {
		return fmt.Errorf("failed to ingest source tables: %w", err)
	}

	startTime := time.Now()
	result, err := service.Allocate(ctx, epoch, repos)
	elapsed := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running allocation: %w", err)
	}

	err = output.Generate(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Elapsed:   elapsed,
		Catalog:   catalog,
		Out:       c.config.Out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if cfg.Store.Enabled {
		runStore, err := sqlite.New(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open run catalog: %w", err)
		}
		defer runStore.Close()

		run, err := service.Record(ctx, runStore, source, result)
		if err != nil {
			return err
		}
		if c.config.Verbose {
			fmt.Fprintf(c.config.Out, "Run recorded: %s\n", run.ID)
		}
	}

	return nil
}

// validateInputs validates the command configuration
func (c *AllocateCommand) validateInputs() error {
	if (c.config.InputDir == "") == (c.config.Workbook == "") {
		return fmt.Errorf("specify exactly one of --input directory or --workbook file")
	}
	return nil
}

// applyOverrides lets flags win over the config file
func (c *AllocateCommand) applyOverrides(cfg *config.Config) {
	if c.config.Epoch != "" {
		cfg.Epoch = c.config.Epoch
	}
	if c.config.Parallel {
		cfg.Allocation.Parallel = true
	}
	if c.config.Record {
		cfg.Store.Enabled = true
	}
	if c.config.StorePath != "" {
		cfg.Store.Path = c.config.StorePath
	}
}

func (c *AllocateCommand) loadSource() (string, *entities.RawTables, error) {
	if c.config.Workbook != "" {
		raw, err := excel.NewLoader().LoadWorkbook(c.config.Workbook)
		if err != nil {
			return "", nil, fmt.Errorf("error loading workbook: %w", err)
		}
		return c.config.Workbook, raw, nil
	}

	if _, err := os.Stat(c.config.InputDir); err != nil {
		return "", nil, fmt.Errorf("input directory not found: %s", c.config.InputDir)
	}
	raw, err := csv.NewLoader().LoadDirectory(c.config.InputDir)
	if err != nil {
		return "", nil, fmt.Errorf("error loading CSV files: %w", err)
	}
	return c.config.InputDir, raw, nil
}

// eventLogger writes every allocation event as one structured log line
func eventLogger(logger *zap.Logger) events.EventHandler {
	return &events.HandlerFunc{
		Types: events.AllEventTypes,
		Fn: func(event events.Event) error {
			fields := []zap.Field{
				zap.String("component", event.StreamID()),
				zap.String("date", entities.FormatDate(event.Timestamp())),
			}
			switch data := event.Data().(type) {
			case events.ArrivalMatched:
				fields = append(fields,
					zap.String("equipment", data.Projection.Equipment),
					zap.Int("slot", data.Arrival.PoolSlot))
			case events.ChangeoutPlaced:
				fields = append(fields,
					zap.String("equipment", data.Changeout.Equipment),
					zap.Int("slot", data.Changeout.PoolSlot),
					zap.Int("idle_days", data.IdleDays))
			case events.ChangeoutBlocked:
				fields = append(fields,
					zap.String("equipment", data.Changeout.Equipment),
					zap.Int("slot", data.Changeout.PoolSlot))
			case events.SlotSearchExhausted:
				fields = append(fields,
					zap.String("week", string(data.Failure.Week)),
					zap.Int("unplaced", data.Failure.Unplaced))
			}
			logger.Info(event.Type(), fields...)
			return nil
		},
	}
}
