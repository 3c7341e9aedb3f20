package dto

import (
	"time"

	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// AllocationRow is one frozen row of the final allocation table
type AllocationRow struct {
	entities.Changeout
	DisplayName  string `json:"display_name"`
	OverhaulDays int    `json:"overhaul_days"`
	// New marks rows absorbed by the allocator rather than seeded from the baseline
	New bool `json:"new"`
}

// ComponentOutcome summarises one component pass
type ComponentOutcome struct {
	Component         entities.ComponentCode `json:"component"`
	Weeks             int                    `json:"weeks"`
	Placed            int                    `json:"placed"`
	Blocked           int                    `json:"blocked"`
	Unplaced          int                    `json:"unplaced"`
	ArrivalsMatched   int                    `json:"arrivals_matched"`
	ArrivalsUnmatched int                    `json:"arrivals_unmatched"`
	// Exhausted is set when slot search stopped the pass
	Exhausted *entities.SlotSearchExhaustedError `json:"exhausted,omitempty"`
}

// AllocationResult contains the complete output of an allocation run
type AllocationResult struct {
	Epoch    time.Time
	Rows     []AllocationRow
	Arrivals []entities.Arrival
	Log      *entities.AllocationLog
	Outcomes []ComponentOutcome
	// Unallocated holds changeouts a stopped pass never placed
	Unallocated []entities.Changeout
}

// Exhausted returns the slot-search failures of all components
func (r *AllocationResult) Exhausted() []*entities.SlotSearchExhaustedError {
	var failures []*entities.SlotSearchExhaustedError
	for _, outcome := range r.Outcomes {
		if outcome.Exhausted != nil {
			failures = append(failures, outcome.Exhausted)
		}
	}
	return failures
}

// RowsFor returns the rows of one component in table order
func (r *AllocationResult) RowsFor(component entities.ComponentCode) []AllocationRow {
	var rows []AllocationRow
	for _, row := range r.Rows {
		if row.Component == component {
			rows = append(rows, row)
		}
	}
	return rows
}
