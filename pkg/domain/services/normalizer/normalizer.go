// Package normalizer canonicalises raw source tables into pool entities.
//
// Rules run in a fixed order because later rules join on keys produced by
// earlier ones: component keys, compatibility mapping, equipment names,
// dates, serials, numeric coercion and finally ISO weeks. A bad value never
// fails the table; it degrades to the absent value and is logged at debug.
// Rows without a changeout date are the only rows dropped.
package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// MissingNumber is substituted for numeric values that are absent or unreadable
const MissingNumber int64 = -1

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	nonAlnum       = regexp.MustCompile(`[^a-z0-9_]`)
	trailingDigits = regexp.MustCompile(`(\d+)\s*$`)

	dateLayouts = []string{
		time.DateOnly,
		time.DateTime,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		time.RFC3339,
	}
)

// Tables holds the canonical form of the four source tables
type Tables struct {
	Changeouts []entities.Changeout
	Baseline   []entities.BaselineRow
	Arrivals   []entities.Arrival
	Blocked    []entities.BlockedLane
}

// Report counts what the normalizer degraded or dropped
type Report struct {
	DroppedChangeouts int
	DroppedBaseline   int
	DroppedBlocked    int
	MalformedDates    int
	MissingNumbers    int
}

// Normalizer applies Rules to raw tables
type Normalizer struct {
	rules  Rules
	logger *zap.Logger
}

// New creates a normalizer; a nil logger discards output
func New(rules Rules, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{rules: rules, logger: logger}
}

// FoldKey accent-folds, lowercases, joins whitespace with "_" and strips
// everything that is not alphanumeric.
func FoldKey(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	folded = whitespaceRun.ReplaceAllString(folded, "_")
	return nonAlnum.ReplaceAllString(folded, "")
}

// Canonicalize folds a (component, sub-component) pair and translates it
// through the compatibility table. Unmapped pairs pass through folded.
func (n *Normalizer) Canonicalize(component, subcomponent string) (entities.ComponentCode, string) {
	pair := ComponentPair{Component: FoldKey(component), Subcomponent: FoldKey(subcomponent)}
	if mapped, ok := n.rules.Compatibility[pair]; ok {
		return entities.ComponentCode(mapped.Component), mapped.Subcomponent
	}
	// a component-only entry also covers rows that carry no sub-component mapping
	if mapped, ok := n.rules.Compatibility[ComponentPair{Component: pair.Component}]; ok {
		sub := mapped.Subcomponent
		if sub == "" {
			sub = pair.Subcomponent
		}
		return entities.ComponentCode(mapped.Component), sub
	}
	return entities.ComponentCode(pair.Component), pair.Subcomponent
}

// CanonicalModel collapses model variants such as 960E-1 into 960E
func (n *Normalizer) CanonicalModel(model string) string {
	model = strings.ToUpper(strings.TrimSpace(model))
	if alias, ok := n.rules.ModelAliases[model]; ok {
		return alias
	}
	return model
}

// Equipment builds the canonical equipment name from its trailing digits and
// the prefix of its model. Names without digits are returned upper-cased.
func (n *Normalizer) Equipment(raw, model string) string {
	raw = strings.TrimSpace(raw)
	match := trailingDigits.FindStringSubmatch(raw)
	if match == nil {
		return strings.ToUpper(raw)
	}
	number, err := strconv.Atoi(match[1])
	if err != nil {
		return strings.ToUpper(raw)
	}

	prefix, ok := n.rules.EquipmentPrefixes[n.CanonicalModel(model)]
	if !ok {
		prefix = n.rules.DefaultPrefix
	}
	return fmt.Sprintf("%s%0*d", prefix, n.rules.EquipmentDigits, number)
}

// ParseDate reads YYYY-MM-DD with an optional time of day and returns the
// civil date. Values whose first ten characters form a date are accepted.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return entities.ToCivil(t), nil
		}
	}
	if len(s) > 10 {
		if t, err := time.Parse(time.DateOnly, s[:10]); err == nil {
			return entities.ToCivil(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", entities.ErrMalformedDate, s)
}

// CleanSerial trims spaces and tabs and strips a leading '#'
func CleanSerial(s string) string {
	s = strings.Trim(s, " \t\r\n")
	return strings.TrimSpace(strings.TrimPrefix(s, "#"))
}

// ParseNumber reads an integer that may have arrived as a decimal string.
// Absent or unreadable values become MissingNumber.
func ParseNumber(s string) (int64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSuffix(s, ".0")
	if s == "" {
		return MissingNumber, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return MissingNumber, false
	}
	return d.IntPart(), true
}

// ParseSlot reads a pool slot; non-positive or unreadable values mean no slot
func ParseSlot(s string) int {
	n, ok := ParseNumber(s)
	if !ok || n <= 0 {
		return entities.NoSlot
	}
	return int(n)
}

// Normalize converts raw tables into canonical tables
func (n *Normalizer) Normalize(raw entities.RawTables) (*Tables, Report) {
	var report Report
	tables := &Tables{
		Changeouts: make([]entities.Changeout, 0, len(raw.Changeouts)),
		Baseline:   make([]entities.BaselineRow, 0, len(raw.Baseline)),
		Arrivals:   make([]entities.Arrival, 0, len(raw.Arrivals)),
		Blocked:    make([]entities.BlockedLane, 0, len(raw.Blocked)),
	}

	for i, row := range raw.Changeouts {
		changeout, ok := n.changeout(i, row, &report)
		if !ok {
			report.DroppedChangeouts++
			continue
		}
		tables.Changeouts = append(tables.Changeouts, changeout)
	}

	for i, row := range raw.Baseline {
		baseline, ok := n.baselineRow(i, row, &report)
		if !ok {
			report.DroppedBaseline++
			continue
		}
		tables.Baseline = append(tables.Baseline, baseline)
	}

	for i, row := range raw.Arrivals {
		tables.Arrivals = append(tables.Arrivals, n.arrival(i, row, &report))
	}

	for i, row := range raw.Blocked {
		lane, ok := n.blockedLane(i, row, &report)
		if !ok {
			report.DroppedBlocked++
			continue
		}
		tables.Blocked = append(tables.Blocked, lane)
	}

	n.logger.Debug("normalized source tables",
		zap.Int("changeouts", len(tables.Changeouts)),
		zap.Int("baseline", len(tables.Baseline)),
		zap.Int("arrivals", len(tables.Arrivals)),
		zap.Int("blocked", len(tables.Blocked)),
		zap.Int("dropped_changeouts", report.DroppedChangeouts),
		zap.Int("malformed_dates", report.MalformedDates),
	)
	return tables, report
}

func (n *Normalizer) changeout(row int, raw entities.RawChangeout, report *Report) (entities.Changeout, bool) {
	date := n.date("changeouts", row, "changeout_date", raw.ChangeoutDate, report)
	if date.IsZero() {
		return entities.Changeout{}, false
	}
	component, sub := n.Canonicalize(raw.Component, raw.Subcomponent)
	return entities.Changeout{
		Equipment:       n.Equipment(raw.Equipment, raw.EquipmentModel),
		Component:       component,
		Subcomponent:    sub,
		Position:        strings.TrimSpace(raw.Position),
		ComponentSerial: CleanSerial(raw.ComponentSerial),
		ChangeoutDate:   date,
		ChangeoutWeek:   entities.WeekOf(date),
		Type:            entities.ParseChangeoutType(raw.Type),
		ComponentHours:  n.number(raw.ComponentHours, report),
	}, true
}

func (n *Normalizer) baselineRow(row int, raw entities.RawBaselineRow, report *Report) (entities.BaselineRow, bool) {
	date := n.date("baseline", row, "changeout_date", raw.ChangeoutDate, report)
	if date.IsZero() {
		return entities.BaselineRow{}, false
	}
	component, sub := n.Canonicalize(raw.Component, raw.Subcomponent)
	return entities.BaselineRow{
		Equipment:       n.Equipment(raw.Equipment, raw.EquipmentModel),
		Component:       component,
		Subcomponent:    sub,
		Position:        strings.TrimSpace(raw.Position),
		ComponentSerial: CleanSerial(raw.ComponentSerial),
		ChangeoutDate:   date,
		ChangeoutWeek:   entities.WeekOf(date),
		Type:            entities.ParseChangeoutType(raw.Type),
		ComponentHours:  n.number(raw.ComponentHours, report),
		ArrivalDate:     n.date("baseline", row, "arrival_date", raw.ArrivalDate, report),
		PoolSlot:        ParseSlot(raw.PoolSlot),
	}, true
}

func (n *Normalizer) arrival(row int, raw entities.RawArrival, report *Report) entities.Arrival {
	date := n.date("arrivals", row, "arrival_date", raw.ArrivalDate, report)
	component, sub := n.Canonicalize(raw.Component, raw.Subcomponent)
	return entities.Arrival{
		Component:    component,
		Subcomponent: sub,
		ArrivalDate:  date,
		ArrivalWeek:  entities.WeekOf(date),
		Type:         entities.ParseArrivalType(raw.ArrivalType),
		PoolSlot:     ParseSlot(raw.PoolSlot),
	}
}

func (n *Normalizer) blockedLane(row int, raw entities.RawBlockedLane, report *Report) (entities.BlockedLane, bool) {
	date := n.date("blocked", row, "changeout_date", raw.ChangeoutDate, report)
	if date.IsZero() {
		return entities.BlockedLane{}, false
	}
	component, _ := n.Canonicalize(raw.Component, raw.Subcomponent)
	return entities.BlockedLane{
		Component:     component,
		Equipment:     n.Equipment(raw.Equipment, raw.EquipmentModel),
		ChangeoutDate: date,
		PoolSlot:      ParseSlot(raw.PoolSlot),
	}, true
}

func (n *Normalizer) date(table string, row int, column, value string, report *Report) time.Time {
	date, err := ParseDate(value)
	if err != nil {
		report.MalformedDates++
		n.logger.Debug("unreadable date degraded to null",
			zap.String("table", table),
			zap.Int("row", row),
			zap.String("column", column),
			zap.Error(err),
		)
		return time.Time{}
	}
	return date
}

func (n *Normalizer) number(value string, report *Report) int64 {
	number, ok := ParseNumber(value)
	if !ok {
		report.MissingNumbers++
	}
	return number
}
