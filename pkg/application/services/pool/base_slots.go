package pool

import (
	"fmt"

	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// BuildBaseSlots seeds the slot timeline from the baseline projection.
//
// Every baseline row of a catalog kind yields one row. When an observed
// changeout shares its (equipment, component, serial, week) key, the observed
// date, type and missing details win. Rows with a known arrival are
// historical; the rest are unconfirmed projections.
func BuildBaseSlots(
	baseline []entities.BaselineRow,
	observed []entities.Changeout,
	catalog *entities.Catalog,
) ([]entities.Changeout, error) {
	index := make(map[entities.ChangeoutKey]entities.Changeout, len(observed))
	for _, changeout := range observed {
		if _, seen := index[changeout.Key()]; !seen {
			index[changeout.Key()] = changeout
		}
	}

	rows := make([]entities.Changeout, 0, len(baseline))
	for _, seed := range baseline {
		if !catalog.Contains(seed.Component) {
			continue
		}

		row := entities.Changeout{
			Equipment:       seed.Equipment,
			Component:       seed.Component,
			Subcomponent:    seed.Subcomponent,
			Position:        seed.Position,
			ComponentSerial: seed.ComponentSerial,
			ChangeoutDate:   seed.ChangeoutDate,
			Type:            seed.Type,
			ComponentHours:  seed.ComponentHours,
			ArrivalDate:     seed.ArrivalDate,
			PoolSlot:        seed.PoolSlot,
		}

		if match, ok := index[seed.Key()]; ok {
			if !match.ChangeoutDate.IsZero() {
				row.ChangeoutDate = match.ChangeoutDate
			}
			if match.Type != entities.UnknownType {
				row.Type = match.Type
			}
			if row.Subcomponent == "" {
				row.Subcomponent = match.Subcomponent
			}
			if row.Position == "" {
				row.Position = match.Position
			}
			if row.ComponentHours < 0 {
				row.ComponentHours = match.ComponentHours
			}
		}

		row.ChangeoutWeek = entities.WeekOf(row.ChangeoutDate)
		if row.HasArrival() {
			row.ArrivalStatus = entities.Historical
		} else {
			row.ArrivalStatus = entities.Unconfirmed
		}
		if err := project(catalog, &row); err != nil {
			return nil, fmt.Errorf("baseline row %s: %w", row, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}
