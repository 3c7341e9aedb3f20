package shared

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// SlotContext holds the allocation state of one pool slot
type SlotContext struct {
	Rows    int
	NewRows int
	// NextFree is the effective arrival of the slot's latest row
	NextFree time.Time
	// Waiting is set when the latest row's arrival is still a projection
	Waiting bool
}

// SlotMap manages slot context by component and slot
type SlotMap map[string]*SlotContext

// NewSlotMap creates a new empty slot map
func NewSlotMap() SlotMap {
	return make(SlotMap)
}

// NewSlotMapFromResult folds the allocation table into per-slot context.
// Rows are visited in table order, so the last row seen per slot is its latest.
func NewSlotMapFromResult(result *dto.AllocationResult) SlotMap {
	slots := make(SlotMap)
	for _, row := range result.Rows {
		if !row.HasSlot() {
			continue
		}
		context := slots.Get(row.Component, row.PoolSlot)
		if context == nil {
			context = &SlotContext{}
			slots.Set(row.Component, row.PoolSlot, context)
		}
		context.Rows++
		if row.New {
			context.NewRows++
		}
		context.NextFree = row.ArrivalDate
		context.Waiting = row.ArrivalStatus == entities.Unconfirmed
	}
	return slots
}

// Get retrieves slot context for a component and slot
func (sm SlotMap) Get(component entities.ComponentCode, slot int) *SlotContext {
	return sm[sm.makeKey(component, slot)]
}

// Set stores slot context for a component and slot
func (sm SlotMap) Set(component entities.ComponentCode, slot int, context *SlotContext) {
	sm[sm.makeKey(component, slot)] = context
}

// Has checks if slot context exists for a component and slot
func (sm SlotMap) Has(component entities.ComponentCode, slot int) bool {
	_, exists := sm[sm.makeKey(component, slot)]
	return exists
}

// Clear removes all slot contexts
func (sm SlotMap) Clear() {
	for key := range sm {
		delete(sm, key)
	}
}

// Size returns the number of slot contexts stored
func (sm SlotMap) Size() int {
	return len(sm)
}

// Slots returns the slot numbers of one component in ascending order
func (sm SlotMap) Slots(component entities.ComponentCode) []int {
	var slots []int
	for key := range sm {
		if c, slot, found := sm.parseKey(key); found && c == component {
			slots = append(slots, slot)
		}
	}
	sort.Ints(slots)
	return slots
}

// EarliestFree returns the slot of a component that frees up first, ties to the lower slot
func (sm SlotMap) EarliestFree(component entities.ComponentCode) (int, time.Time, bool) {
	best, bestDate, found := 0, time.Time{}, false
	for _, slot := range sm.Slots(component) {
		context := sm.Get(component, slot)
		if !found || context.NextFree.Before(bestDate) {
			best, bestDate, found = slot, context.NextFree, true
		}
	}
	return best, bestDate, found
}

// makeKey creates a consistent key for component and slot
func (sm SlotMap) makeKey(component entities.ComponentCode, slot int) string {
	return fmt.Sprintf("%s|%d", component, slot)
}

// parseKey extracts component and slot from a key
func (sm SlotMap) parseKey(key string) (entities.ComponentCode, int, bool) {
	i := strings.LastIndexByte(key, '|')
	if i < 0 {
		return "", 0, false
	}
	slot, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return "", 0, false
	}
	return entities.ComponentCode(key[:i]), slot, true
}

// String returns a string representation of the slot map for debugging
func (sm SlotMap) String() string {
	if len(sm) == 0 {
		return "SlotMap{empty}"
	}

	keys := make([]string, 0, len(sm))
	for key := range sm {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "SlotMap{%d entries:\n", len(sm))
	for _, key := range keys {
		context := sm[key]
		fmt.Fprintf(&b, "  %s: rows=%d, new=%d, nextFree=%s, waiting=%t\n",
			key, context.Rows, context.NewRows, entities.FormatDate(context.NextFree), context.Waiting)
	}
	b.WriteString("}")
	return b.String()
}
