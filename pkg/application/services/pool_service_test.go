package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/events"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/poolplan/pkg/infrastructure/testing"
)

type recordingStore struct {
	runs []dto.RunSummary
	err  error
}

func (r *recordingStore) SaveRun(_ context.Context, run dto.RunSummary, _ *dto.AllocationResult, _ *entities.Catalog) error {
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, run)
	return nil
}

func emptyRepositories() Repositories {
	return Repositories{
		Changeouts: memory.NewChangeoutRepository(0),
		Baseline:   memory.NewBaselineRepository(0),
		Arrivals:   memory.NewArrivalRepository(),
		Blocked:    memory.NewBlockedLaneRepository(),
	}
}

func fleetRepositories() Repositories {
	changeouts, baseline, arrivals, blocked := testhelpers.BuildFleetTestData()
	return Repositories{
		Changeouts: changeouts,
		Baseline:   baseline,
		Arrivals:   arrivals,
		Blocked:    blocked,
	}
}

func findRow(t *testing.T, rows []dto.AllocationRow, equipment string, component entities.ComponentCode) dto.AllocationRow {
	t.Helper()
	for _, row := range rows {
		if row.Equipment == equipment && row.Component == component {
			return row
		}
	}
	t.Fatalf("no row for %s %s", equipment, component)
	return dto.AllocationRow{}
}

func TestPoolService_IngestRawTables(t *testing.T) {
	service := NewPoolService(nil)
	repos := emptyRepositories()

	report, err := service.Ingest(context.Background(), testhelpers.BuildRawFleetTables(), repos)
	require.NoError(t, err)

	assert.Equal(t, 1, report.DroppedChangeouts)
	assert.Equal(t, 1, report.DroppedBaseline)
	assert.Equal(t, 1, report.DroppedBlocked)
	assert.Equal(t, 1, report.MalformedDates)

	changeouts, err := repos.Changeouts.GetChangeouts()
	require.NoError(t, err)
	assert.Len(t, changeouts, 4)

	motors, err := repos.Changeouts.GetChangeoutsByComponent(entities.TractionMotor)
	require.NoError(t, err)
	require.Len(t, motors, 2)
	assert.Equal(t, "TK001", motors[0].Equipment)
	assert.Equal(t, "mt-201", motors[0].ComponentSerial)
	assert.Equal(t, int64(12450), motors[0].ComponentHours)

	arrivals, err := repos.Arrivals.GetArrivals()
	require.NoError(t, err)
	assert.Len(t, arrivals, 3)

	lanes, err := repos.Blocked.GetBlockedLanes()
	require.NoError(t, err)
	require.Len(t, lanes, 1)
	assert.Equal(t, "TK033", lanes[0].Equipment)
	assert.Equal(t, entities.LiftCylinder, lanes[0].Component)
}

func TestPoolService_IngestThenAllocate(t *testing.T) {
	ctx := context.Background()
	service := NewPoolService(nil)
	repos := emptyRepositories()

	_, err := service.Ingest(ctx, testhelpers.BuildRawFleetTables(), repos)
	require.NoError(t, err)

	result, err := service.Allocate(ctx, testhelpers.FleetEpoch, repos)
	require.NoError(t, err)

	assert.Len(t, result.Rows, 9)
	assert.Empty(t, result.Exhausted())

	motor := findRow(t, result.Rows, "TK001", entities.TractionMotor)
	assert.Equal(t, entities.Confirmed, motor.ArrivalStatus)
	assert.Equal(t, entities.CivilDate(2024, 11, 12), motor.ArrivalDate)
	assert.Equal(t, 1, motor.PoolSlot)

	blower := findRow(t, result.Rows, "TK021", entities.Blower)
	assert.Equal(t, entities.Confirmed, blower.ArrivalStatus)
	assert.Equal(t, entities.CivilDate(2024, 10, 9), blower.ArrivalDate)

	lift := findRow(t, result.Rows, "TK033", entities.LiftCylinder)
	assert.Equal(t, entities.BlockedWaiting, lift.Type)
	assert.Equal(t, 2, lift.PoolSlot)
}

func TestPoolService_AllocateFleet(t *testing.T) {
	store := events.NewInMemoryEventStore()
	service := NewPoolServiceWithConfig(PoolConfig{
		Catalog:  entities.DefaultCatalog(),
		Parallel: true,
	}, store, nil)

	result, err := service.Allocate(context.Background(), testhelpers.FleetEpoch, fleetRepositories())
	require.NoError(t, err)

	assert.Len(t, result.Rows, 14)
	assert.Empty(t, result.Exhausted())
	assert.Empty(t, result.Unallocated)

	for _, row := range result.Rows {
		assert.NotEqual(t, entities.NoSlot, row.PoolSlot, "row %s has no slot", row.Equipment)
	}

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	placed := 0
	for _, event := range all {
		if event.Type() == events.ChangeoutPlacedEvent {
			placed++
		}
	}
	assert.Equal(t, 7, placed)
}

func TestPoolService_AllocateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewPoolService(nil)
	_, err := service.Allocate(ctx, testhelpers.FleetEpoch, fleetRepositories())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoolService_Record(t *testing.T) {
	ctx := context.Background()
	service := NewPoolService(nil)
	service.now = func() time.Time { return time.Date(2024, 8, 1, 9, 30, 15, 500, time.UTC) }

	result, err := service.Allocate(ctx, testhelpers.FleetEpoch, fleetRepositories())
	require.NoError(t, err)

	recorder := &recordingStore{}
	run, err := service.Record(ctx, recorder, "fixtures", result)
	require.NoError(t, err)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, run, recorder.runs[0])
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "fixtures", run.Source)
	assert.Equal(t, time.Date(2024, 8, 1, 9, 30, 15, 0, time.UTC), run.CreatedAt)
	assert.Equal(t, 14, run.Rows)
}

func TestPoolService_RecordFailure(t *testing.T) {
	ctx := context.Background()
	service := NewPoolService(nil)

	result, err := service.Allocate(ctx, testhelpers.FleetEpoch, fleetRepositories())
	require.NoError(t, err)

	boom := errors.New("disk full")
	_, err = service.Record(ctx, &recordingStore{err: boom}, "fixtures", result)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
