package shared

import (
	"time"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// ComponentSummary is the per-component view of an allocation run
type ComponentSummary struct {
	dto.ComponentOutcome
	DisplayName string
	Slots       int
	Rows        int
	// NextFree is when the first slot of the component becomes available
	NextFree     time.Time
	NextFreeSlot int
}

// Demand counts every changeout the pass was asked to absorb
func (s ComponentSummary) Demand() int {
	return s.Placed + s.Blocked + s.Unplaced
}

// CoverageRatio returns the share of demand that received a slot (0.0 to 1.0)
func (s ComponentSummary) CoverageRatio() float64 {
	if s.Demand() == 0 {
		return 0.0
	}
	return float64(s.Placed+s.Blocked) / float64(s.Demand())
}

// Summarize builds one summary per component that has rows or outcomes, in catalog order
func Summarize(result *dto.AllocationResult, catalog *entities.Catalog) []ComponentSummary {
	slots := NewSlotMapFromResult(result)

	outcomes := make(map[entities.ComponentCode]dto.ComponentOutcome, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		outcomes[outcome.Component] = outcome
	}

	var summaries []ComponentSummary
	for _, code := range catalog.Codes() {
		outcome, ok := outcomes[code]
		if !ok {
			outcome = dto.ComponentOutcome{Component: code}
		}
		rows := len(result.RowsFor(code))
		if rows == 0 && outcome.Weeks == 0 {
			continue
		}

		summary := ComponentSummary{
			ComponentOutcome: outcome,
			DisplayName:      catalog.DisplayName(code),
			Slots:            len(slots.Slots(code)),
			Rows:             rows,
		}
		if slot, date, found := slots.EarliestFree(code); found {
			summary.NextFreeSlot = slot
			summary.NextFree = date
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// CoverageRatio returns the overall share of demand that received a slot
func CoverageRatio(summaries []ComponentSummary) float64 {
	served, demand := 0, 0
	for _, s := range summaries {
		served += s.Placed + s.Blocked
		demand += s.Demand()
	}
	if demand == 0 {
		return 0.0
	}
	return float64(served) / float64(demand)
}
