package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownComponentKind signals a component code outside the catalog.
	ErrUnknownComponentKind = errors.New("pool: unknown component kind")
	// ErrMalformedDate signals a date that could not be parsed.
	ErrMalformedDate = errors.New("pool: malformed date")
	// ErrBlockedLaneCountMismatch signals that blocked lanes and type-E rows disagree.
	ErrBlockedLaneCountMismatch = errors.New("pool: blocked lane count mismatch")
	// ErrInvalidBlockedLane signals a blocked lane without a slot or a duplicated lane key.
	ErrInvalidBlockedLane = errors.New("pool: invalid blocked lane")
	// ErrSlotSearchExhausted signals that no pool slot could absorb a changeout.
	ErrSlotSearchExhausted = errors.New("pool: slot search exhausted")
)

// SlotSearchExhaustedError records where a component pass stopped.
// It is reported in the allocation result, never returned.
type SlotSearchExhaustedError struct {
	Component ComponentCode
	Week      ISOWeek
	Changeout Changeout
	// Unplaced counts the changeouts left without a slot, the failing one included
	Unplaced int
}

func (e *SlotSearchExhaustedError) Error() string {
	return fmt.Sprintf("%s: component %s week %s: no slot for %s (%d changeouts unplaced)",
		ErrSlotSearchExhausted, e.Component, e.Week, e.Changeout, e.Unplaced)
}

func (e *SlotSearchExhaustedError) Unwrap() error {
	return ErrSlotSearchExhausted
}
