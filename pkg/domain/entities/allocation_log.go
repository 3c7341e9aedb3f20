package entities

import "strings"

// AllocationLog is the append-only, component-scoped trace of weekly decisions
type AllocationLog struct {
	entries map[ComponentCode][]string
}

// NewAllocationLog creates an empty log
func NewAllocationLog() *AllocationLog {
	return &AllocationLog{entries: make(map[ComponentCode][]string)}
}

// Append adds one entry to a component's trace
func (l *AllocationLog) Append(component ComponentCode, entry string) {
	l.entries[component] = append(l.entries[component], entry)
}

// Merge appends all entries of other, component by component
func (l *AllocationLog) Merge(other *AllocationLog) {
	if other == nil {
		return
	}
	for component, entries := range other.entries {
		l.entries[component] = append(l.entries[component], entries...)
	}
}

// Entries returns a copy of a component's trace
func (l *AllocationLog) Entries(component ComponentCode) []string {
	entries := l.entries[component]
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}

// Components returns the components that have at least one entry, in catalog order
func (l *AllocationLog) Components(catalog *Catalog) []ComponentCode {
	codes := make([]ComponentCode, 0, len(l.entries))
	for code := range l.entries {
		codes = append(codes, code)
	}
	catalog.SortCodes(codes)
	return codes
}

// Text renders a component's trace as one block
func (l *AllocationLog) Text(component ComponentCode) string {
	return strings.Join(l.entries[component], "\n")
}

// Contains reports whether any entry of the component contains substr
func (l *AllocationLog) Contains(component ComponentCode, substr string) bool {
	for _, entry := range l.entries[component] {
		if strings.Contains(entry, substr) {
			return true
		}
	}
	return false
}
