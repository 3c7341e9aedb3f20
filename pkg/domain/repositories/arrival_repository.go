package repositories

import "github.com/vsinha/poolplan/pkg/domain/entities"

// ArrivalRepository provides access to component returns
type ArrivalRepository interface {
	GetArrivals() ([]*entities.Arrival, error)
	LoadArrivals(arrivals []*entities.Arrival) error
}

// BlockedLaneRepository provides access to lanes pending approval
type BlockedLaneRepository interface {
	GetBlockedLanes() ([]*entities.BlockedLane, error)
	LoadBlockedLanes(lanes []*entities.BlockedLane) error
}
