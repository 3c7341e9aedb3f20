package entities

import (
	"fmt"
	"strings"
	"time"
)

// ArrivalType distinguishes observed arrivals from projected ones
type ArrivalType int

const (
	RealArrival ArrivalType = iota
	ProjectedArrival
)

// String method for ArrivalType enum
func (t ArrivalType) String() string {
	switch t {
	case RealArrival:
		return "REAL"
	case ProjectedArrival:
		return "PROJECTED"
	default:
		return "Unknown"
	}
}

// ParseArrivalType reads an arrival type; anything that is not REAL counts as projected
func ParseArrivalType(s string) ArrivalType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REAL", "":
		return RealArrival
	default:
		return ProjectedArrival
	}
}

// Arrival is a confirmed return of a repaired component to the pool
type Arrival struct {
	Component    ComponentCode `json:"component"`
	Subcomponent string        `json:"subcomponent"`
	ArrivalDate  time.Time     `json:"arrival_date"`
	ArrivalWeek  ISOWeek       `json:"arrival_week"`
	Type         ArrivalType   `json:"type"`
	// PoolSlot is stamped by the allocator once the arrival is matched
	PoolSlot int `json:"pool_slot"`
}

// NewArrival creates a validated real Arrival
func NewArrival(component ComponentCode, arrivalDate time.Time) (*Arrival, error) {
	if string(component) == "" {
		return nil, fmt.Errorf("component cannot be empty")
	}
	if arrivalDate.IsZero() {
		return nil, fmt.Errorf("arrival date cannot be empty")
	}
	date := ToCivil(arrivalDate)
	return &Arrival{
		Component:   component,
		ArrivalDate: date,
		ArrivalWeek: WeekOf(date),
		Type:        RealArrival,
	}, nil
}

// Matched reports whether the allocator linked the arrival to a slot
func (a Arrival) Matched() bool {
	return a.PoolSlot != NoSlot
}

// BlockedLane is a slot pre-committed to a changeout pending approval
type BlockedLane struct {
	Component     ComponentCode
	Equipment     string
	ChangeoutDate time.Time
	PoolSlot      int
}

// NewBlockedLane creates a validated BlockedLane
func NewBlockedLane(component ComponentCode, equipment string, changeoutDate time.Time, poolSlot int) (*BlockedLane, error) {
	if string(component) == "" {
		return nil, fmt.Errorf("component cannot be empty")
	}
	if equipment == "" {
		return nil, fmt.Errorf("equipment cannot be empty")
	}
	if changeoutDate.IsZero() {
		return nil, fmt.Errorf("changeout date cannot be empty")
	}
	if poolSlot <= 0 {
		return nil, fmt.Errorf("pool slot must be positive, got %d", poolSlot)
	}
	return &BlockedLane{
		Component:     component,
		Equipment:     equipment,
		ChangeoutDate: ToCivil(changeoutDate),
		PoolSlot:      poolSlot,
	}, nil
}

// LaneKey returns the key the lane is merged on
func (b BlockedLane) LaneKey() LaneKey {
	return LaneKey{Component: b.Component, Equipment: b.Equipment, Date: b.ChangeoutDate}
}
