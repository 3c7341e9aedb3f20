package events

import (
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

const (
	ArrivalMatchedEvent   = "arrival.matched"
	ArrivalUnmatchedEvent = "arrival.unmatched"

	ChangeoutPlacedEvent  = "changeout.placed"
	ChangeoutBlockedEvent = "changeout.blocked"

	SlotSearchExhaustedEvent = "slot.search.exhausted"
)

// AllEventTypes lists every allocation event type
var AllEventTypes = []string{
	ArrivalMatchedEvent,
	ArrivalUnmatchedEvent,
	ChangeoutPlacedEvent,
	ChangeoutBlockedEvent,
	SlotSearchExhaustedEvent,
}

type ArrivalMatched struct {
	Arrival    entities.Arrival   `json:"arrival"`
	Projection entities.Changeout `json:"projection"`
}

type ArrivalUnmatched struct {
	Arrival entities.Arrival `json:"arrival"`
}

type ChangeoutPlaced struct {
	Changeout entities.Changeout `json:"changeout"`
	IdleDays  int                `json:"idle_days"`
}

type ChangeoutBlocked struct {
	Changeout entities.Changeout `json:"changeout"`
}

type SlotSearchExhausted struct {
	Failure entities.SlotSearchExhaustedError `json:"failure"`
}

func NewArrivalMatchedEvent(arrival entities.Arrival, projection entities.Changeout) Event {
	return NewEvent(ArrivalMatchedEvent, string(arrival.Component),
		ArrivalMatched{Arrival: arrival, Projection: projection}, arrival.ArrivalDate)
}

func NewArrivalUnmatchedEvent(arrival entities.Arrival) Event {
	return NewEvent(ArrivalUnmatchedEvent, string(arrival.Component),
		ArrivalUnmatched{Arrival: arrival}, arrival.ArrivalDate)
}

func NewChangeoutPlacedEvent(changeout entities.Changeout, idleDays int) Event {
	return NewEvent(ChangeoutPlacedEvent, string(changeout.Component),
		ChangeoutPlaced{Changeout: changeout, IdleDays: idleDays}, changeout.ChangeoutDate)
}

func NewChangeoutBlockedEvent(changeout entities.Changeout) Event {
	return NewEvent(ChangeoutBlockedEvent, string(changeout.Component),
		ChangeoutBlocked{Changeout: changeout}, changeout.ChangeoutDate)
}

func NewSlotSearchExhaustedEvent(failure entities.SlotSearchExhaustedError) Event {
	return NewEvent(SlotSearchExhaustedEvent, string(failure.Component),
		SlotSearchExhausted{Failure: failure}, failure.Changeout.ChangeoutDate)
}
