package pool

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/events"
)

// timelineEntry is one row of a component's slot timeline
type timelineEntry struct {
	row   entities.Changeout
	fresh bool
}

// componentPass is the weekly state machine of one component kind.
// It owns its timeline and log; the only shared data it touches are the
// arrival elements whose indices it was given.
type componentPass struct {
	component entities.ComponentCode
	catalog   *entities.Catalog
	events    events.EventStore
	logger    *zap.Logger

	timeline []timelineEntry
	arrivals []entities.Arrival // shared backing array, see arrivalsByWeek
	pending  []entities.Changeout

	arrivalsByWeek   map[entities.ISOWeek][]int
	changeoutsByWeek map[entities.ISOWeek][]int

	log     *entities.AllocationLog
	outcome dto.ComponentOutcome
	emitted []events.Event
}

func newComponentPass(
	component entities.ComponentCode,
	base []entities.Changeout,
	pending []entities.Changeout,
	arrivals []entities.Arrival,
	opts Options,
) *componentPass {
	p := &componentPass{
		component:        component,
		catalog:          opts.Catalog,
		events:           opts.Events,
		logger:           opts.Logger.With(zap.String("component", string(component))),
		arrivals:         arrivals,
		arrivalsByWeek:   make(map[entities.ISOWeek][]int),
		changeoutsByWeek: make(map[entities.ISOWeek][]int),
		log:              entities.NewAllocationLog(),
		outcome:          dto.ComponentOutcome{Component: component},
	}

	for _, row := range base {
		if row.Component == component {
			p.timeline = append(p.timeline, timelineEntry{row: row})
		}
	}
	p.sortTimeline()

	for _, changeout := range pending {
		if changeout.Component != component {
			continue
		}
		week := entities.WeekOf(changeout.ChangeoutDate)
		p.changeoutsByWeek[week] = append(p.changeoutsByWeek[week], len(p.pending))
		p.pending = append(p.pending, changeout)
	}

	for i, arrival := range arrivals {
		if arrival.Component != component || arrival.Type != entities.RealArrival || arrival.ArrivalDate.IsZero() {
			continue
		}
		week := arrival.ArrivalWeek
		if week == "" {
			week = entities.WeekOf(arrival.ArrivalDate)
		}
		p.arrivalsByWeek[week] = append(p.arrivalsByWeek[week], i)
	}
	for week, indices := range p.arrivalsByWeek {
		sort.SliceStable(indices, func(a, b int) bool {
			return p.arrivals[indices[a]].ArrivalDate.Before(p.arrivals[indices[b]].ArrivalDate)
		})
		p.arrivalsByWeek[week] = indices
	}

	return p
}

// weeks merges both partitions into ascending ISO weeks
func (p *componentPass) weeks() []entities.ISOWeek {
	seen := make(map[entities.ISOWeek]bool)
	var weeks []entities.ISOWeek
	for week := range p.arrivalsByWeek {
		if !seen[week] {
			seen[week] = true
			weeks = append(weeks, week)
		}
	}
	for week := range p.changeoutsByWeek {
		if !seen[week] {
			seen[week] = true
			weeks = append(weeks, week)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })
	return weeks
}

// run walks the weeks in order until they run out or slot search fails
func (p *componentPass) run() error {
	for _, week := range p.weeks() {
		p.outcome.Weeks++

		var block strings.Builder
		fmt.Fprintf(&block, "== %s %s ==\n", p.component, week)

		p.matchArrivals(p.arrivalsByWeek[week], &block)

		failure, err := p.absorbChangeouts(week, p.changeoutsByWeek[week], &block)
		if err != nil {
			return err
		}

		p.log.Append(p.component, strings.TrimRight(block.String(), "\n"))

		if failure != nil {
			if err := p.keepBlockedLanes(); err != nil {
				return err
			}
			failure.Unplaced = p.countUnplaced()
			p.outcome.Exhausted = failure
			p.outcome.Unplaced = failure.Unplaced
			p.publish(events.NewSlotSearchExhaustedEvent(*failure))
			p.logger.Warn("slot search exhausted, component pass stopped",
				zap.String("week", string(week)),
				zap.String("changeout", failure.Changeout.String()),
				zap.Int("unplaced", failure.Unplaced),
			)
			break
		}
	}

	p.logger.Info("component pass finished",
		zap.Int("weeks", p.outcome.Weeks),
		zap.Int("placed", p.outcome.Placed),
		zap.Int("blocked", p.outcome.Blocked),
		zap.Int("unplaced", p.outcome.Unplaced),
		zap.Int("arrivals_matched", p.outcome.ArrivalsMatched),
		zap.Int("arrivals_unmatched", p.outcome.ArrivalsUnmatched),
	)
	return nil
}

// matchArrivals confirms outstanding projections with this week's real
// arrivals. The closest (arrival, projection) pair is linked first, so each
// projection goes to the arrival nearest to it and a losing arrival falls
// through to the next closest projection, or stays unmatched. Only rows that
// hold a slot can be confirmed.
func (p *componentPass) matchArrivals(indices []int, block *strings.Builder) {
	if len(indices) == 0 {
		block.WriteString("arrivals: none this week\n")
		return
	}
	block.WriteString("arrivals:\n")

	open := make([]int, len(indices))
	copy(open, indices)

	var candidates []int
	for i, entry := range p.timeline {
		if entry.row.ArrivalStatus == entities.Unconfirmed && entry.row.HasSlot() {
			candidates = append(candidates, i)
		}
	}

	for len(open) > 0 && len(candidates) > 0 {
		bestA, bestC := 0, 0
		for a := range open {
			for c := range candidates {
				if p.closer(open[a], candidates[c], open[bestA], candidates[bestC]) {
					bestA, bestC = a, c
				}
			}
		}

		arrival := &p.arrivals[open[bestA]]
		entry := &p.timeline[candidates[bestC]]
		projected := entry.row.ArrivalDateProjection

		entry.row.ArrivalDate = arrival.ArrivalDate
		entry.row.ArrivalStatus = entities.Confirmed
		arrival.PoolSlot = entry.row.PoolSlot
		p.outcome.ArrivalsMatched++

		fmt.Fprintf(block, "  %s matched projection %s (%s serial %s) -> slot %d\n",
			entities.FormatDate(arrival.ArrivalDate), entities.FormatDate(projected),
			entry.row.Equipment, serialLabel(entry.row.ComponentSerial), entry.row.PoolSlot)
		p.publish(events.NewArrivalMatchedEvent(*arrival, entry.row))

		open = append(open[:bestA], open[bestA+1:]...)
		candidates = append(candidates[:bestC], candidates[bestC+1:]...)
	}

	for _, idx := range open {
		arrival := p.arrivals[idx]
		p.outcome.ArrivalsUnmatched++
		fmt.Fprintf(block, "  %s unmatched: no unconfirmed projection left\n", entities.FormatDate(arrival.ArrivalDate))
		p.publish(events.NewArrivalUnmatchedEvent(arrival))
	}
}

// closer orders (arrival, timeline row) pairs by distance between the real and
// projected dates, then by arrival date, projection date, slot and position.
func (p *componentPass) closer(a, c, bestA, bestC int) bool {
	if a == bestA && c == bestC {
		return false
	}
	arrival, best := p.arrivals[a].ArrivalDate, p.arrivals[bestA].ArrivalDate
	row, bestRow := p.timeline[c].row, p.timeline[bestC].row

	d, bestD := absDays(arrival, row.ArrivalDateProjection), absDays(best, bestRow.ArrivalDateProjection)
	if d != bestD {
		return d < bestD
	}
	if !arrival.Equal(best) {
		return arrival.Before(best)
	}
	if !row.ArrivalDateProjection.Equal(bestRow.ArrivalDateProjection) {
		return row.ArrivalDateProjection.Before(bestRow.ArrivalDateProjection)
	}
	if row.PoolSlot != bestRow.PoolSlot {
		return row.PoolSlot < bestRow.PoolSlot
	}
	if a != bestA {
		return a < bestA
	}
	return c < bestC
}

// absorbChangeouts places this week's changeouts in canonical order. It
// returns a failure when slot search runs dry; changeouts after it are left
// unplaced, except blocked lanes, which keepBlockedLanes absorbs.
func (p *componentPass) absorbChangeouts(
	week entities.ISOWeek,
	indices []int,
	block *strings.Builder,
) (*entities.SlotSearchExhaustedError, error) {
	if len(indices) == 0 {
		block.WriteString("changeouts: none this week\n")
		return nil, nil
	}
	block.WriteString("changeouts:\n")

	for k, idx := range indices {
		row := p.pending[idx]
		row.ArrivalStatus = entities.Unconfirmed
		row.ArrivalDate = time.Time{}

		if row.Type == entities.BlockedWaiting {
			if err := p.append(&row); err != nil {
				return nil, err
			}
			p.pending[idx].Allocated = true
			p.outcome.Blocked++
			fmt.Fprintf(block, "  %s %s serial %s blocked lane -> slot %d (no search)\n",
				entities.FormatDate(row.ChangeoutDate), row.Equipment, serialLabel(row.ComponentSerial), row.PoolSlot)
			p.publish(events.NewChangeoutBlockedEvent(row))
			continue
		}

		slot, idle, ok := p.searchSlot(row.ChangeoutDate)
		if !ok {
			for _, rest := range indices[k:] {
				c := p.pending[rest]
				if c.Type == entities.BlockedWaiting {
					continue
				}
				fmt.Fprintf(block, "  %s %s serial %s could not place: no slot available\n",
					entities.FormatDate(c.ChangeoutDate), c.Equipment, serialLabel(c.ComponentSerial))
			}
			return &entities.SlotSearchExhaustedError{
				Component: p.component,
				Week:      week,
				Changeout: p.pending[idx],
			}, nil
		}

		row.PoolSlot = slot
		if err := p.append(&row); err != nil {
			return nil, err
		}
		p.pending[idx].Allocated = true
		p.pending[idx].PoolSlot = slot
		p.outcome.Placed++
		fmt.Fprintf(block, "  %s %s serial %s placed -> slot %d (idle %d days)\n",
			entities.FormatDate(row.ChangeoutDate), row.Equipment, serialLabel(row.ComponentSerial), slot, idle)
		p.publish(events.NewChangeoutPlacedEvent(row, idle))
	}

	return nil, nil
}

// keepBlockedLanes absorbs the blocked lanes a stopped pass never reached.
// They hold their slot without a search, so exhaustion does not drop them.
func (p *componentPass) keepBlockedLanes() error {
	var block strings.Builder
	fmt.Fprintf(&block, "== %s stopped ==\n", p.component)
	block.WriteString("blocked lanes kept:\n")

	kept := 0
	for idx := range p.pending {
		if p.pending[idx].Allocated || p.pending[idx].Type != entities.BlockedWaiting {
			continue
		}
		row := p.pending[idx]
		row.ArrivalStatus = entities.Unconfirmed
		row.ArrivalDate = time.Time{}
		if err := p.append(&row); err != nil {
			return err
		}
		p.pending[idx].Allocated = true
		p.outcome.Blocked++
		kept++
		fmt.Fprintf(&block, "  %s %s serial %s blocked lane -> slot %d (no search)\n",
			entities.FormatDate(row.ChangeoutDate), row.Equipment, serialLabel(row.ComponentSerial), row.PoolSlot)
		p.publish(events.NewChangeoutBlockedEvent(row))
	}
	if kept == 0 {
		block.WriteString("  none\n")
	}

	p.log.Append(p.component, strings.TrimRight(block.String(), "\n"))
	return nil
}

// searchSlot picks, among slots whose latest row has already arrived by date,
// the one idle the longest. Ties go to the lower slot number.
func (p *componentPass) searchSlot(date time.Time) (slot, idle int, ok bool) {
	latest := make(map[int]entities.Changeout)
	for _, entry := range p.timeline {
		if entry.row.HasSlot() {
			latest[entry.row.PoolSlot] = entry.row
		}
	}

	slots := make([]int, 0, len(latest))
	for s := range latest {
		slots = append(slots, s)
	}
	sort.Ints(slots)

	for _, s := range slots {
		row := latest[s]
		if !row.HasArrival() || row.ArrivalDate.After(date) {
			continue
		}
		gap := entities.DaysBetween(row.ArrivalDate, date)
		if !ok || gap > idle {
			slot, idle, ok = s, gap, true
		}
	}
	return slot, idle, ok
}

func (p *componentPass) append(row *entities.Changeout) error {
	if err := project(p.catalog, row); err != nil {
		return fmt.Errorf("changeout %s: %w", row, err)
	}
	row.Allocated = true
	p.timeline = append(p.timeline, timelineEntry{row: *row, fresh: true})
	p.sortTimeline()
	return nil
}

func (p *componentPass) sortTimeline() {
	sort.SliceStable(p.timeline, func(i, j int) bool {
		return p.timeline[i].row.ChangeoutDate.Before(p.timeline[j].row.ChangeoutDate)
	})
}

func (p *componentPass) countUnplaced() int {
	unplaced := 0
	for _, changeout := range p.pending {
		if !changeout.Allocated {
			unplaced++
		}
	}
	return unplaced
}

func (p *componentPass) unplaced() []entities.Changeout {
	var out []entities.Changeout
	for _, changeout := range p.pending {
		if !changeout.Allocated {
			out = append(out, changeout)
		}
	}
	return out
}

// publish buffers an event until flush, so the store sees passes in catalog
// order even when they ran concurrently
func (p *componentPass) publish(event events.Event) {
	if p.events != nil {
		p.emitted = append(p.emitted, event)
	}
}

func (p *componentPass) flush() {
	for _, event := range p.emitted {
		if err := p.events.AppendEvent(string(p.component), event); err != nil {
			p.logger.Warn("allocation event handler failed", zap.String("event", event.Type()), zap.Error(err))
		}
	}
	p.emitted = nil
}

func absDays(a, b time.Time) int {
	d := entities.DaysBetween(a, b)
	if d < 0 {
		return -d
	}
	return d
}

func serialLabel(serial string) string {
	if serial == "" {
		return "-"
	}
	return serial
}
