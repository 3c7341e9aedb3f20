package entities

import (
	"fmt"
	"strings"
	"time"
)

// ChangeoutType classifies how a changeout enters the pool
type ChangeoutType int

const (
	UnknownType ChangeoutType = iota
	Planned
	Unplanned
	BlockedWaiting
	ReadyToFloor
	AheadOfSchedule
	Excluded
)

// String method for ChangeoutType enum
func (t ChangeoutType) String() string {
	switch t {
	case Planned:
		return "Planned"
	case Unplanned:
		return "Unplanned"
	case BlockedWaiting:
		return "BlockedWaiting"
	case ReadyToFloor:
		return "ReadyToFloor"
	case AheadOfSchedule:
		return "AheadOfSchedule"
	case Excluded:
		return "Excluded"
	default:
		return "Unknown"
	}
}

// Code returns the single-letter pool code (P, I, E, R, A, N)
func (t ChangeoutType) Code() string {
	switch t {
	case Planned:
		return "P"
	case Unplanned:
		return "I"
	case BlockedWaiting:
		return "E"
	case ReadyToFloor:
		return "R"
	case AheadOfSchedule:
		return "A"
	case Excluded:
		return "N"
	default:
		return ""
	}
}

// ParseChangeoutType reads a pool code or its spelled-out name.
// Unrecognised values map to UnknownType.
func ParseChangeoutType(s string) ChangeoutType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P", "PLANNED", "PLANIFICADO":
		return Planned
	case "I", "UNPLANNED", "IMPREVISTO":
		return Unplanned
	case "E", "BLOCKEDWAITING", "ESPERA":
		return BlockedWaiting
	case "R", "READYTOFLOOR":
		return ReadyToFloor
	case "A", "AHEADOFSCHEDULE", "ADELANTADO":
		return AheadOfSchedule
	case "N", "EXCLUDED":
		return Excluded
	default:
		return UnknownType
	}
}

// ArrivalStatus tracks how trustworthy a row's arrival date is
type ArrivalStatus int

const (
	Unconfirmed ArrivalStatus = iota
	Historical
	Confirmed
)

// String method for ArrivalStatus enum
func (s ArrivalStatus) String() string {
	switch s {
	case Unconfirmed:
		return "unconfirmed"
	case Historical:
		return "historical"
	case Confirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// ParseArrivalStatus reads the lowercase status name; anything else is unconfirmed
func ParseArrivalStatus(s string) ArrivalStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "historical":
		return Historical
	case "confirmed":
		return Confirmed
	default:
		return Unconfirmed
	}
}

// MarshalText renders the status by name
func (s ArrivalStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name
func (s *ArrivalStatus) UnmarshalText(text []byte) error {
	*s = ParseArrivalStatus(string(text))
	return nil
}

// MarshalText renders the type as its pool code
func (t ChangeoutType) MarshalText() ([]byte, error) {
	return []byte(t.Code()), nil
}

// UnmarshalText parses a pool code or name
func (t *ChangeoutType) UnmarshalText(text []byte) error {
	*t = ParseChangeoutType(string(text))
	return nil
}

// NoSlot marks a changeout that has not been placed in the pool
const NoSlot = 0

// Changeout is one physical swap that happened or is projected to happen
type Changeout struct {
	Equipment       string        `json:"equipment"`
	Component       ComponentCode `json:"component"`
	Subcomponent    string        `json:"subcomponent"`
	Position        string        `json:"position"`
	ComponentSerial string        `json:"component_serial"`
	ChangeoutDate   time.Time     `json:"changeout_date"`
	ChangeoutWeek   ISOWeek       `json:"changeout_week"`
	Type            ChangeoutType `json:"type"`
	// ComponentHours is -1 when the source value was missing or unreadable
	ComponentHours        int64         `json:"component_hours"`
	ArrivalStatus         ArrivalStatus `json:"arrival_status"`
	ArrivalDate           time.Time     `json:"arrival_date"`            // zero when unknown
	ArrivalDateProjection time.Time     `json:"arrival_date_projection"`
	PoolSlot              int           `json:"pool_slot"`
	Allocated             bool          `json:"allocated"`
}

// HasArrival reports whether the arrival date is known
func (c Changeout) HasArrival() bool {
	return !c.ArrivalDate.IsZero()
}

// HasSlot reports whether the changeout sits in a pool slot
func (c Changeout) HasSlot() bool {
	return c.PoolSlot != NoSlot
}

// Key returns the join key shared by baseline rows and observed changeouts.
// The week is derived from the changeout date, not read from ChangeoutWeek.
func (c Changeout) Key() ChangeoutKey {
	return ChangeoutKey{
		Equipment: c.Equipment,
		Component: c.Component,
		Serial:    c.ComponentSerial,
		Week:      keyWeek(c.ChangeoutDate, c.ChangeoutWeek),
	}
}

// LaneKey returns the key blocked lanes are merged on
func (c Changeout) LaneKey() LaneKey {
	return LaneKey{Component: c.Component, Equipment: c.Equipment, Date: c.ChangeoutDate}
}

// String returns a compact description for logs
func (c Changeout) String() string {
	return fmt.Sprintf("%s %s %s serial=%s type=%s",
		c.Component, FormatDate(c.ChangeoutDate), c.Equipment, c.ComponentSerial, c.Type.Code())
}

// ChangeoutKey joins the baseline projection to observed changeouts
type ChangeoutKey struct {
	Equipment string
	Component ComponentCode
	Serial    string
	Week      ISOWeek
}

// LaneKey joins blocked lanes to changeouts
type LaneKey struct {
	Component ComponentCode
	Equipment string
	Date      time.Time
}

// BaselineRow is a seed entry from the curated pool projection
type BaselineRow struct {
	Equipment       string
	Component       ComponentCode
	Subcomponent    string
	Position        string
	ComponentSerial string
	ChangeoutDate   time.Time
	ChangeoutWeek   ISOWeek
	Type            ChangeoutType
	ComponentHours  int64
	ArrivalDate     time.Time
	PoolSlot        int
}

// Key returns the join key of the baseline row
func (b BaselineRow) Key() ChangeoutKey {
	return ChangeoutKey{
		Equipment: b.Equipment,
		Component: b.Component,
		Serial:    b.ComponentSerial,
		Week:      keyWeek(b.ChangeoutDate, b.ChangeoutWeek),
	}
}

// keyWeek falls back to the stored week only when the date is absent
func keyWeek(date time.Time, stored ISOWeek) ISOWeek {
	if date.IsZero() {
		return stored
	}
	return WeekOf(date)
}
