package dto

import "time"

// RunSummary describes one stored allocation run
type RunSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Epoch     time.Time `json:"epoch"`
	// Source is the input directory or workbook the run read
	Source      string `json:"source"`
	Rows        int    `json:"rows"`
	Placed      int    `json:"placed"`
	Blocked     int    `json:"blocked"`
	Unallocated int    `json:"unallocated"`
	Exhausted   int    `json:"exhausted"`
}

// NewRunSummary tallies a result for the run catalog
func NewRunSummary(id string, createdAt time.Time, source string, result *AllocationResult) RunSummary {
	summary := RunSummary{
		ID:          id,
		CreatedAt:   createdAt,
		Epoch:       result.Epoch,
		Source:      source,
		Rows:        len(result.Rows),
		Unallocated: len(result.Unallocated),
		Exhausted:   len(result.Exhausted()),
	}
	for _, outcome := range result.Outcomes {
		summary.Placed += outcome.Placed
		summary.Blocked += outcome.Blocked
	}
	return summary
}
