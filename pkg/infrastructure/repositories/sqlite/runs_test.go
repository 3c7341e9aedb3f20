package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "runs", "poolplan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult() *dto.AllocationResult {
	log := entities.NewAllocationLog()
	log.Append(entities.TractionMotor, "== traction week one ==")
	log.Append(entities.TractionMotor, "== traction week two ==")
	log.Append(entities.Blower, "== blower week ==")

	return &dto.AllocationResult{
		Epoch: entities.CivilDate(2024, 7, 29),
		Rows: []dto.AllocationRow{
			{
				Changeout: entities.Changeout{
					Equipment:             "TK010",
					Component:             entities.TractionMotor,
					ComponentSerial:       "SN-100",
					ChangeoutDate:         entities.CivilDate(2024, 4, 1),
					ChangeoutWeek:         "2024-W14",
					Type:                  entities.Planned,
					ComponentHours:        -1,
					ArrivalStatus:         entities.Historical,
					ArrivalDate:           entities.CivilDate(2024, 8, 1),
					ArrivalDateProjection: entities.CivilDate(2024, 6, 14),
					PoolSlot:              1,
				},
				DisplayName:  "Traction Motor",
				OverhaulDays: 74,
			},
			{
				Changeout: entities.Changeout{
					Equipment:             "TK001",
					Component:             entities.TractionMotor,
					ComponentSerial:       "SN-200",
					ChangeoutDate:         entities.CivilDate(2024, 9, 1),
					ChangeoutWeek:         "2024-W35",
					Type:                  entities.Planned,
					ComponentHours:        12450,
					ArrivalStatus:         entities.Unconfirmed,
					ArrivalDate:           entities.CivilDate(2024, 11, 14),
					ArrivalDateProjection: entities.CivilDate(2024, 11, 14),
					PoolSlot:              1,
					Allocated:             true,
				},
				DisplayName:  "Traction Motor",
				OverhaulDays: 74,
				New:          true,
			},
		},
		Log: log,
		Outcomes: []dto.ComponentOutcome{
			{Component: entities.TractionMotor, Placed: 1},
		},
	}
}

func TestStore_SaveAndReadRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	result := sampleResult()

	run := dto.NewRunSummary(uuid.NewString(), time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC), "testdata/fleet", result)
	require.NoError(t, store.SaveRun(ctx, run, result, entities.DefaultCatalog()))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run, runs[0])
	assert.Equal(t, 2, runs[0].Rows)
	assert.Equal(t, 1, runs[0].Placed)

	rows, err := store.RunRows(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Rows, rows)

	log, err := store.RunLog(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Log.Entries(entities.TractionMotor), log.Entries(entities.TractionMotor))
	assert.Equal(t, result.Log.Text(entities.Blower), log.Text(entities.Blower))
}

func TestStore_ListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	result := sampleResult()

	base := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := dto.NewRunSummary(uuid.NewString(), base.Add(time.Duration(i)*time.Hour), "fleet", result)
		require.NoError(t, store.SaveRun(ctx, run, result, entities.DefaultCatalog()))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, base.Add(2*time.Hour), runs[0].CreatedAt)
	assert.Equal(t, base.Add(time.Hour), runs[1].CreatedAt)
}

func TestStore_DeleteRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	result := sampleResult()

	run := dto.NewRunSummary(uuid.NewString(), time.Now().UTC().Truncate(time.Second), "fleet", result)
	require.NoError(t, store.SaveRun(ctx, run, result, entities.DefaultCatalog()))
	require.NoError(t, store.DeleteRun(ctx, run.ID))

	rows, err := store.RunRows(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	err = store.DeleteRun(ctx, run.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
