package pool

import (
	"fmt"
	"sort"
	"time"

	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// ResolveMissingWork returns the changeouts the allocator must place: those on
// or after the epoch, not excluded, of a catalog kind and absent from the
// baseline. Blocked lanes are overlaid on (component, equipment, date); every
// row that takes its slot from a lane becomes type E, and lanes without a
// matching changeout become rows of their own.
//
// The result is ordered by component (catalog order) and changeout date and
// always holds exactly one type-E row per blocked lane.
func ResolveMissingWork(
	observed []entities.Changeout,
	baseline []entities.BaselineRow,
	blocked []entities.BlockedLane,
	epoch time.Time,
	catalog *entities.Catalog,
) ([]entities.Changeout, error) {
	represented := make(map[entities.ChangeoutKey]bool, len(baseline))
	for _, seed := range baseline {
		represented[seed.Key()] = true
	}

	lanes := make(map[entities.LaneKey]entities.BlockedLane, len(blocked))
	for _, lane := range blocked {
		if !catalog.Contains(lane.Component) {
			return nil, fmt.Errorf("blocked lane %s on %s: %w: %q",
				lane.Equipment, entities.FormatDate(lane.ChangeoutDate), entities.ErrUnknownComponentKind, lane.Component)
		}
		if lane.PoolSlot <= 0 {
			return nil, fmt.Errorf("%w: %s %s on %s has no pool slot",
				entities.ErrInvalidBlockedLane, lane.Component, lane.Equipment, entities.FormatDate(lane.ChangeoutDate))
		}
		if _, dup := lanes[lane.LaneKey()]; dup {
			return nil, fmt.Errorf("%w: duplicate lane for %s %s on %s",
				entities.ErrInvalidBlockedLane, lane.Component, lane.Equipment, entities.FormatDate(lane.ChangeoutDate))
		}
		lanes[lane.LaneKey()] = lane
	}

	var pending []entities.Changeout
	for _, changeout := range observed {
		if changeout.ChangeoutDate.Before(epoch) || changeout.Type == entities.Excluded {
			continue
		}
		if !catalog.Contains(changeout.Component) || represented[changeout.Key()] {
			continue
		}

		changeout.ChangeoutWeek = entities.WeekOf(changeout.ChangeoutDate)
		changeout.ArrivalStatus = entities.Unconfirmed
		changeout.ArrivalDate = time.Time{}
		changeout.PoolSlot = entities.NoSlot
		changeout.Allocated = false
		if changeout.Type == entities.UnknownType {
			changeout.Type = entities.Planned
		}
		pending = append(pending, changeout)
	}

	used := make(map[entities.LaneKey]bool, len(lanes))
	for i := range pending {
		lane, ok := lanes[pending[i].LaneKey()]
		if !ok {
			continue
		}
		pending[i].PoolSlot = lane.PoolSlot
		pending[i].Type = entities.BlockedWaiting
		used[lane.LaneKey()] = true
	}

	for _, lane := range blocked {
		if used[lane.LaneKey()] {
			continue
		}
		pending = append(pending, entities.Changeout{
			Equipment:      lane.Equipment,
			Component:      lane.Component,
			ChangeoutDate:  lane.ChangeoutDate,
			ChangeoutWeek:  entities.WeekOf(lane.ChangeoutDate),
			Type:           entities.BlockedWaiting,
			ComponentHours: -1,
			ArrivalStatus:  entities.Unconfirmed,
			PoolSlot:       lane.PoolSlot,
		})
	}

	sort.SliceStable(pending, func(i, j int) bool {
		ci, cj := catalog.Index(pending[i].Component), catalog.Index(pending[j].Component)
		if ci != cj {
			return ci < cj
		}
		return pending[i].ChangeoutDate.Before(pending[j].ChangeoutDate)
	})

	waiting := 0
	for _, changeout := range pending {
		if changeout.Type == entities.BlockedWaiting {
			waiting++
		}
	}
	if waiting != len(blocked) {
		return nil, fmt.Errorf("%w: %d type-E rows for %d blocked lanes",
			entities.ErrBlockedLaneCountMismatch, waiting, len(blocked))
	}

	return pending, nil
}
