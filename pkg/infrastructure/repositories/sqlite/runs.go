package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// SaveRun stores a run summary together with its rows and log in one transaction
func (s *Store) SaveRun(ctx context.Context, run dto.RunSummary, result *dto.AllocationResult, catalog *entities.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, epoch, source, row_count, placed, blocked, unallocated, exhausted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC().Format(time.RFC3339), formatDate(run.Epoch), run.Source,
		run.Rows, run.Placed, run.Blocked, run.Unallocated, run.Exhausted)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	rowStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO allocation_rows (
			run_id, seq, component, display_name, equipment, subcomponent, position, component_serial,
			changeout_date, changeout_week, changeout_type, component_hours, arrival_status,
			arrival_date, arrival_date_projection, pool_slot, overhaul_days, is_new
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer rowStmt.Close()

	for i, row := range result.Rows {
		_, err := rowStmt.ExecContext(ctx,
			run.ID, i, string(row.Component), row.DisplayName, row.Equipment, row.Subcomponent, row.Position,
			row.ComponentSerial, formatDate(row.ChangeoutDate), string(row.ChangeoutWeek), row.Type.Code(),
			row.ComponentHours, row.ArrivalStatus.String(), formatDate(row.ArrivalDate),
			formatDate(row.ArrivalDateProjection), row.PoolSlot, row.OverhaulDays, row.New)
		if err != nil {
			return fmt.Errorf("failed to insert row %d of run %s: %w", i, run.ID, err)
		}
	}

	if result.Log != nil {
		for _, component := range result.Log.Components(catalog) {
			for seq, entry := range result.Log.Entries(component) {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO allocation_log (run_id, component, seq, entry) VALUES (?, ?, ?, ?)`,
					run.ID, string(component), seq, entry)
				if err != nil {
					return fmt.Errorf("failed to insert log entry of run %s: %w", run.ID, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first; limit <= 0 returns all
func (s *Store) ListRuns(ctx context.Context, limit int) ([]dto.RunSummary, error) {
	query := `
		SELECT id, created_at, epoch, source, row_count, placed, blocked, unallocated, exhausted
		FROM runs ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []dto.RunSummary
	for rows.Next() {
		var run dto.RunSummary
		var createdAt, epoch string
		if err := rows.Scan(&run.ID, &createdAt, &epoch, &run.Source, &run.Rows,
			&run.Placed, &run.Blocked, &run.Unallocated, &run.Exhausted); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("run %s: bad created_at %q: %w", run.ID, createdAt, err)
		}
		if run.Epoch, err = parseDate(epoch); err != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunRows returns the stored allocation table of a run in table order
func (s *Store) RunRows(ctx context.Context, runID string) ([]dto.AllocationRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT component, display_name, equipment, subcomponent, position, component_serial,
			changeout_date, changeout_week, changeout_type, component_hours, arrival_status,
			arrival_date, arrival_date_projection, pool_slot, overhaul_days, is_new
		FROM allocation_rows WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows of run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []dto.AllocationRow
	for rows.Next() {
		var row dto.AllocationRow
		var component, week, changeoutType, status string
		var changeoutDate, arrivalDate, projection string
		if err := rows.Scan(&component, &row.DisplayName, &row.Equipment, &row.Subcomponent, &row.Position,
			&row.ComponentSerial, &changeoutDate, &week, &changeoutType, &row.ComponentHours, &status,
			&arrivalDate, &projection, &row.PoolSlot, &row.OverhaulDays, &row.New); err != nil {
			return nil, fmt.Errorf("failed to scan row of run %s: %w", runID, err)
		}

		row.Component = entities.ComponentCode(component)
		row.ChangeoutWeek = entities.ISOWeek(week)
		row.Type = entities.ParseChangeoutType(changeoutType)
		row.ArrivalStatus = entities.ParseArrivalStatus(status)
		row.Allocated = row.New
		for _, field := range []struct {
			value string
			into  *time.Time
		}{
			{changeoutDate, &row.ChangeoutDate},
			{arrivalDate, &row.ArrivalDate},
			{projection, &row.ArrivalDateProjection},
		} {
			if *field.into, err = parseDate(field.value); err != nil {
				return nil, fmt.Errorf("run %s: %w", runID, err)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// RunLog returns the stored allocation log of a run
func (s *Store) RunLog(ctx context.Context, runID string) (*entities.AllocationLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT component, entry FROM allocation_log WHERE run_id = ? ORDER BY component, seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query log of run %s: %w", runID, err)
	}
	defer rows.Close()

	log := entities.NewAllocationLog()
	for rows.Next() {
		var component, entry string
		if err := rows.Scan(&component, &entry); err != nil {
			return nil, fmt.Errorf("failed to scan log entry of run %s: %w", runID, err)
		}
		log.Append(entities.ComponentCode(component), entry)
	}
	return log, rows.Err()
}

// DeleteRun removes a run and, through cascading keys, its rows and log
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("run not found: %s: %w", runID, sql.ErrNoRows)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad stored date %q: %w", s, err)
	}
	return t, nil
}
