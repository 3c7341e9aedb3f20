package pool

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// Allocate runs a full allocation over the given tables.
//
// Structural problems (unknown component kinds in blocked lanes, invalid
// lanes, a blocked-lane count mismatch) are returned as errors. A component
// whose slot search runs dry is reported in the result, not as an error, and
// does not affect the other components.
func Allocate(inputs Inputs, opts Options) (*dto.AllocationResult, error) {
	opts = opts.withDefaults()
	catalog := opts.Catalog
	in := inputs.clone()

	base, err := BuildBaseSlots(in.Baseline, in.Changeouts, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build base slots: %w", err)
	}

	pending, err := ResolveMissingWork(in.Changeouts, in.Baseline, in.Blocked, in.Epoch, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve missing work: %w", err)
	}

	opts.Logger.Info("allocation started",
		zap.String("epoch", entities.FormatDate(in.Epoch)),
		zap.Int("baseline_rows", len(base)),
		zap.Int("pending_changeouts", len(pending)),
		zap.Int("arrivals", len(in.Arrivals)),
		zap.Int("blocked_lanes", len(in.Blocked)),
		zap.Bool("parallel", opts.Parallel),
	)

	codes := catalog.Codes()
	passes := make([]*componentPass, len(codes))
	for i, code := range codes {
		passes[i] = newComponentPass(code, base, pending, in.Arrivals, opts)
	}

	if err := runPasses(passes, opts.Parallel); err != nil {
		return nil, err
	}

	log := entities.NewAllocationLog()
	result := &dto.AllocationResult{
		Epoch:    in.Epoch,
		Arrivals: in.Arrivals,
		Log:      log,
	}
	for _, p := range passes {
		p.flush()
		log.Merge(p.log)
		result.Outcomes = append(result.Outcomes, p.outcome)
		result.Unallocated = append(result.Unallocated, p.unplaced()...)
	}

	rows, err := assemble(passes, catalog)
	if err != nil {
		return nil, err
	}
	result.Rows = rows

	opts.Logger.Info("allocation finished",
		zap.Int("rows", len(result.Rows)),
		zap.Int("unallocated", len(result.Unallocated)),
		zap.Int("exhausted_components", len(result.Exhausted())),
	)
	return result, nil
}

// runPasses drives every component pass. Passes share no timeline state, and
// each only writes the arrival elements of its own component.
func runPasses(passes []*componentPass, parallel bool) error {
	if !parallel {
		for _, p := range passes {
			if err := p.run(); err != nil {
				return fmt.Errorf("component %s: %w", p.component, err)
			}
		}
		return nil
	}

	var g errgroup.Group
	for _, p := range passes {
		p := p
		g.Go(func() error {
			if err := p.run(); err != nil {
				return fmt.Errorf("component %s: %w", p.component, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// clone copies the input tables so a run never mutates caller data
func (in Inputs) clone() Inputs {
	out := Inputs{Epoch: in.Epoch}
	out.Changeouts = append([]entities.Changeout(nil), in.Changeouts...)
	out.Baseline = append([]entities.BaselineRow(nil), in.Baseline...)
	out.Arrivals = append([]entities.Arrival(nil), in.Arrivals...)
	out.Blocked = append([]entities.BlockedLane(nil), in.Blocked...)
	return out
}
