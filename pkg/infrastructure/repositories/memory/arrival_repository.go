package memory

import (
	"fmt"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/domain/repositories"
)

// ArrivalRepository provides in-memory arrival storage
type ArrivalRepository struct {
	arrivals []entities.Arrival
}

// NewArrivalRepository creates a new in-memory arrival repository
func NewArrivalRepository() *ArrivalRepository {
	return &ArrivalRepository{arrivals: []entities.Arrival{}}
}

// Verify interface compliance
var _ repositories.ArrivalRepository = (*ArrivalRepository)(nil)

// LoadArrivals loads arrivals into the repository
func (r *ArrivalRepository) LoadArrivals(arrivals []*entities.Arrival) error {
	for _, arrival := range arrivals {
		r.arrivals = append(r.arrivals, *arrival)
	}
	return nil
}

// GetArrivals returns all arrivals in load order
func (r *ArrivalRepository) GetArrivals() ([]*entities.Arrival, error) {
	arrivals := make([]*entities.Arrival, 0, len(r.arrivals))
	for i := range r.arrivals {
		arrivals = append(arrivals, &r.arrivals[i])
	}
	return arrivals, nil
}

// BlockedLaneRepository provides in-memory blocked lane storage.
// A lane key may only be loaded once.
type BlockedLaneRepository struct {
	lanes []entities.BlockedLane
	keys  map[entities.LaneKey]bool
}

// NewBlockedLaneRepository creates a new in-memory blocked lane repository
func NewBlockedLaneRepository() *BlockedLaneRepository {
	return &BlockedLaneRepository{
		lanes: []entities.BlockedLane{},
		keys:  make(map[entities.LaneKey]bool),
	}
}

// Verify interface compliance
var _ repositories.BlockedLaneRepository = (*BlockedLaneRepository)(nil)

// LoadBlockedLanes loads lanes into the repository
func (r *BlockedLaneRepository) LoadBlockedLanes(lanes []*entities.BlockedLane) error {
	for _, lane := range lanes {
		if r.keys[lane.LaneKey()] {
			return fmt.Errorf("%w: duplicate lane for %s %s on %s", entities.ErrInvalidBlockedLane,
				lane.Component, lane.Equipment, entities.FormatDate(lane.ChangeoutDate))
		}
		r.keys[lane.LaneKey()] = true
		r.lanes = append(r.lanes, *lane)
	}
	return nil
}

// GetBlockedLanes returns all lanes in load order
func (r *BlockedLaneRepository) GetBlockedLanes() ([]*entities.BlockedLane, error) {
	lanes := make([]*entities.BlockedLane, 0, len(r.lanes))
	for i := range r.lanes {
		lanes = append(lanes, &r.lanes[i])
	}
	return lanes, nil
}
