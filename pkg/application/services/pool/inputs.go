// Package pool assigns component changeouts to spare-component pool slots.
//
// Allocate is a pure function over in-memory tables: the baseline projection
// seeds a slot timeline per component kind, changeouts missing from the
// baseline are resolved against blocked lanes, and a weekly state machine per
// component matches real arrivals to outstanding projections before placing
// each new changeout in the slot that has been idle the longest.
package pool

import (
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/events"
)

// Inputs are the canonical tables an allocation runs over.
// Any table may be empty.
type Inputs struct {
	Changeouts []entities.Changeout
	Baseline   []entities.BaselineRow
	Arrivals   []entities.Arrival
	Blocked    []entities.BlockedLane
	// Epoch is the first date the allocator is responsible for
	Epoch time.Time
}

// Options carry the read-only collaborators of a run
type Options struct {
	// Catalog defaults to entities.DefaultCatalog()
	Catalog *entities.Catalog
	// Events receives one event per decision when set
	Events events.EventStore
	Logger *zap.Logger
	// Parallel runs component passes concurrently; output is identical either way
	Parallel bool
}

func (o Options) withDefaults() Options {
	if o.Catalog == nil {
		o.Catalog = entities.DefaultCatalog()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// project stamps the projected arrival of a row from its overhaul budget
func project(catalog *entities.Catalog, row *entities.Changeout) error {
	days, err := catalog.OverhaulDays(row.Component, row.Subcomponent, row.Type)
	if err != nil {
		return err
	}
	row.ArrivalDateProjection = entities.AddDays(row.ChangeoutDate, days)
	return nil
}
