package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/application/services/pool"
	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/domain/repositories"
	"github.com/vsinha/poolplan/pkg/domain/services/normalizer"
	"github.com/vsinha/poolplan/pkg/infrastructure/events"
)

// PoolConfig holds the read-only configuration of the pool service
type PoolConfig struct {
	Catalog *entities.Catalog
	Rules   normalizer.Rules
	// Parallel runs component passes concurrently
	Parallel bool
}

// Repositories bundles the four source tables of an allocation
type Repositories struct {
	Changeouts repositories.ChangeoutRepository
	Baseline   repositories.BaselineRepository
	Arrivals   repositories.ArrivalRepository
	Blocked    repositories.BlockedLaneRepository
}

// RunRecorder persists finished runs
type RunRecorder interface {
	SaveRun(ctx context.Context, run dto.RunSummary, result *dto.AllocationResult, catalog *entities.Catalog) error
}

// PoolService loads source tables into repositories and allocates them
type PoolService struct {
	config     PoolConfig
	normalizer *normalizer.Normalizer
	events     events.EventStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewPoolService creates a pool service with the built-in catalog and rules
func NewPoolService(logger *zap.Logger) *PoolService {
	return NewPoolServiceWithConfig(PoolConfig{
		Catalog: entities.DefaultCatalog(),
		Rules:   normalizer.DefaultRules(),
	}, nil, logger)
}

// NewPoolServiceWithConfig creates a pool service; store may be nil
func NewPoolServiceWithConfig(config PoolConfig, store events.EventStore, logger *zap.Logger) *PoolService {
	if config.Catalog == nil {
		config.Catalog = entities.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolService{
		config:     config,
		normalizer: normalizer.New(config.Rules, logger.Named("normalizer")),
		events:     store,
		logger:     logger,
		now:        time.Now,
	}
}

// Catalog returns the catalog the service allocates with
func (s *PoolService) Catalog() *entities.Catalog {
	return s.config.Catalog
}

// Ingest normalizes raw tables and loads them into repos
func (s *PoolService) Ingest(ctx context.Context, raw entities.RawTables, repos Repositories) (normalizer.Report, error) {
	if err := ctx.Err(); err != nil {
		return normalizer.Report{}, err
	}

	tables, report := s.normalizer.Normalize(raw)

	if err := repos.Changeouts.LoadChangeouts(pointers(tables.Changeouts)); err != nil {
		return report, fmt.Errorf("failed to load changeouts: %w", err)
	}
	if err := repos.Baseline.LoadBaseline(pointers(tables.Baseline)); err != nil {
		return report, fmt.Errorf("failed to load baseline: %w", err)
	}
	if err := repos.Arrivals.LoadArrivals(pointers(tables.Arrivals)); err != nil {
		return report, fmt.Errorf("failed to load arrivals: %w", err)
	}
	if err := repos.Blocked.LoadBlockedLanes(pointers(tables.Blocked)); err != nil {
		return report, fmt.Errorf("failed to load blocked lanes: %w", err)
	}

	s.logger.Info("source tables ingested",
		zap.Int("changeouts", len(tables.Changeouts)),
		zap.Int("baseline_rows", len(tables.Baseline)),
		zap.Int("arrivals", len(tables.Arrivals)),
		zap.Int("blocked_lanes", len(tables.Blocked)),
		zap.Int("dropped_changeouts", report.DroppedChangeouts),
		zap.Int("dropped_baseline", report.DroppedBaseline),
		zap.Int("dropped_blocked", report.DroppedBlocked),
		zap.Int("malformed_dates", report.MalformedDates),
	)
	return report, nil
}

// Allocate reads the repositories and runs the allocation engine
func (s *PoolService) Allocate(ctx context.Context, epoch time.Time, repos Repositories) (*dto.AllocationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	changeouts, err := repos.Changeouts.GetChangeouts()
	if err != nil {
		return nil, fmt.Errorf("failed to read changeouts: %w", err)
	}
	baseline, err := repos.Baseline.GetBaseline()
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}
	arrivals, err := repos.Arrivals.GetArrivals()
	if err != nil {
		return nil, fmt.Errorf("failed to read arrivals: %w", err)
	}
	blocked, err := repos.Blocked.GetBlockedLanes()
	if err != nil {
		return nil, fmt.Errorf("failed to read blocked lanes: %w", err)
	}

	inputs := pool.Inputs{
		Changeouts: values(changeouts),
		Baseline:   values(baseline),
		Arrivals:   values(arrivals),
		Blocked:    values(blocked),
		Epoch:      entities.ToCivil(epoch),
	}

	return pool.Allocate(inputs, pool.Options{
		Catalog:  s.config.Catalog,
		Events:   s.events,
		Logger:   s.logger.Named("allocator"),
		Parallel: s.config.Parallel,
	})
}

// Record stores a finished run under a fresh identifier
func (s *PoolService) Record(ctx context.Context, recorder RunRecorder, source string, result *dto.AllocationResult) (dto.RunSummary, error) {
	run := dto.NewRunSummary(uuid.NewString(), s.now().UTC().Truncate(time.Second), source, result)
	if err := recorder.SaveRun(ctx, run, result, s.config.Catalog); err != nil {
		return dto.RunSummary{}, fmt.Errorf("failed to record run: %w", err)
	}
	s.logger.Info("run recorded", zap.String("run_id", run.ID), zap.Int("rows", run.Rows))
	return run, nil
}

func pointers[T any](in []T) []*T {
	out := make([]*T, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

func values[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
