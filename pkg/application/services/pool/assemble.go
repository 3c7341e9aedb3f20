package pool

import (
	"fmt"
	"sort"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// assemble freezes the timelines into the final table. Rows still waiting on
// a component take their projection as the effective arrival.
func assemble(passes []*componentPass, catalog *entities.Catalog) ([]dto.AllocationRow, error) {
	var rows []dto.AllocationRow
	for _, p := range passes {
		for _, entry := range p.timeline {
			row, err := freeze(entry, catalog)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ci, cj := catalog.Index(rows[i].Component), catalog.Index(rows[j].Component)
		if ci != cj {
			return ci < cj
		}
		return rows[i].ChangeoutDate.Before(rows[j].ChangeoutDate)
	})
	return rows, nil
}

func freeze(entry timelineEntry, catalog *entities.Catalog) (dto.AllocationRow, error) {
	row := entry.row
	days, err := catalog.OverhaulDays(row.Component, row.Subcomponent, row.Type)
	if err != nil {
		return dto.AllocationRow{}, fmt.Errorf("assemble %s: %w", row, err)
	}
	if row.ArrivalDate.IsZero() {
		row.ArrivalDate = row.ArrivalDateProjection
	}
	return dto.AllocationRow{
		Changeout:    row,
		DisplayName:  catalog.DisplayName(row.Component),
		OverhaulDays: days,
		New:          entry.fresh,
	}, nil
}
