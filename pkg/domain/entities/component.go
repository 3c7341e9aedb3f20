package entities

import (
	"fmt"
	"sort"
)

// ComponentCode is the canonical identifier of a component kind
type ComponentCode string

// Canonical component codes of the default fleet catalog
const (
	PowerModule        ComponentCode = "modulo_potencia"
	TractionMotor      ComponentCode = "motor_traccion"
	RearSuspension     ComponentCode = "suspension_trasera"
	FrontHubSuspension ComponentCode = "conjunto_masa_suspension"
	LiftCylinder       ComponentCode = "cilindro_levante"
	SteeringCylinder   ComponentCode = "cilindro_direccion"
	Blower             ComponentCode = "blower"
)

// OverhaulBudget holds the planned and unplanned repair durations in days
type OverhaulBudget struct {
	PlannedDays   int
	UnplannedDays int
}

// Days returns the budget matching the changeout type.
// Only unplanned changeouts use the unplanned budget.
func (b OverhaulBudget) Days(changeoutType ChangeoutType) int {
	if changeoutType == Unplanned {
		return b.UnplannedDays
	}
	return b.PlannedDays
}

func (b OverhaulBudget) validate() error {
	if b.PlannedDays <= 0 {
		return fmt.Errorf("planned overhaul days must be positive, got %d", b.PlannedDays)
	}
	if b.UnplannedDays <= b.PlannedDays {
		return fmt.Errorf("unplanned overhaul days (%d) must exceed planned (%d)", b.UnplannedDays, b.PlannedDays)
	}
	return nil
}

// ComponentKind is an immutable catalog entry
type ComponentKind struct {
	Code        ComponentCode
	DisplayName string
	Budget      OverhaulBudget
	// Overrides replace Budget for specific sub-components
	Overrides map[string]OverhaulBudget
}

// NewComponentKind creates a validated ComponentKind
func NewComponentKind(
	code ComponentCode,
	displayName string,
	plannedDays, unplannedDays int,
	overrides map[string]OverhaulBudget,
) (*ComponentKind, error) {
	if string(code) == "" {
		return nil, fmt.Errorf("component code cannot be empty")
	}
	if displayName == "" {
		return nil, fmt.Errorf("display name cannot be empty")
	}
	budget := OverhaulBudget{PlannedDays: plannedDays, UnplannedDays: unplannedDays}
	if err := budget.validate(); err != nil {
		return nil, fmt.Errorf("component %s: %w", code, err)
	}

	copied := make(map[string]OverhaulBudget, len(overrides))
	for sub, override := range overrides {
		if err := override.validate(); err != nil {
			return nil, fmt.Errorf("component %s sub-component %s: %w", code, sub, err)
		}
		copied[sub] = override
	}

	return &ComponentKind{
		Code:        code,
		DisplayName: displayName,
		Budget:      budget,
		Overrides:   copied,
	}, nil
}

// BudgetFor returns the budget for a sub-component, falling back to the kind default
func (k ComponentKind) BudgetFor(subcomponent string) OverhaulBudget {
	if override, ok := k.Overrides[subcomponent]; ok {
		return override
	}
	return k.Budget
}

// Catalog is the closed set of component kinds known to the allocator.
// It is read-only once built.
type Catalog struct {
	kinds map[ComponentCode]ComponentKind
	order []ComponentCode
}

// NewCatalog builds a catalog; kinds keep the order they are given in
func NewCatalog(kinds ...ComponentKind) (*Catalog, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one component kind")
	}

	c := &Catalog{
		kinds: make(map[ComponentCode]ComponentKind, len(kinds)),
		order: make([]ComponentCode, 0, len(kinds)),
	}
	for _, kind := range kinds {
		if _, exists := c.kinds[kind.Code]; exists {
			return nil, fmt.Errorf("duplicate component kind in catalog: %s", kind.Code)
		}
		c.kinds[kind.Code] = kind
		c.order = append(c.order, kind.Code)
	}
	return c, nil
}

// DefaultCatalog returns the fleet catalog used when no configuration overrides it
func DefaultCatalog() *Catalog {
	kinds := []ComponentKind{
		mustKind(PowerModule, "Power Module", 90, 150, map[string]OverhaulBudget{
			"alternador_principal": {PlannedDays: 45, UnplannedDays: 75},
			"radiador":             {PlannedDays: 30, UnplannedDays: 50},
		}),
		mustKind(TractionMotor, "Traction Motor", 74, 134, nil),
		mustKind(RearSuspension, "Rear Suspension", 60, 100, nil),
		mustKind(FrontHubSuspension, "Front Hub-Suspension Assembly", 75, 120, nil),
		mustKind(LiftCylinder, "Lift Cylinder", 45, 75, nil),
		mustKind(SteeringCylinder, "Steering Cylinder", 45, 75, nil),
		mustKind(Blower, "Blower", 30, 60, nil),
	}
	catalog, err := NewCatalog(kinds...)
	if err != nil {
		panic(err)
	}
	return catalog
}

func mustKind(code ComponentCode, name string, planned, unplanned int, overrides map[string]OverhaulBudget) ComponentKind {
	kind, err := NewComponentKind(code, name, planned, unplanned, overrides)
	if err != nil {
		panic(err)
	}
	return *kind
}

// Lookup returns the kind for a code
func (c *Catalog) Lookup(code ComponentCode) (ComponentKind, error) {
	kind, ok := c.kinds[code]
	if !ok {
		return ComponentKind{}, fmt.Errorf("%w: %q", ErrUnknownComponentKind, code)
	}
	return kind, nil
}

// Contains reports whether the code belongs to the catalog
func (c *Catalog) Contains(code ComponentCode) bool {
	_, ok := c.kinds[code]
	return ok
}

// Codes returns the component codes in catalog order
func (c *Catalog) Codes() []ComponentCode {
	codes := make([]ComponentCode, len(c.order))
	copy(codes, c.order)
	return codes
}

// Index returns the catalog position of a code, or len(catalog) when unknown
func (c *Catalog) Index(code ComponentCode) int {
	for i, candidate := range c.order {
		if candidate == code {
			return i
		}
	}
	return len(c.order)
}

// OverhaulDays answers how many days a component spends in repair.
// A sub-component override wins over the kind default; the changeout type
// then selects planned or unplanned.
func (c *Catalog) OverhaulDays(code ComponentCode, subcomponent string, changeoutType ChangeoutType) (int, error) {
	kind, err := c.Lookup(code)
	if err != nil {
		return 0, err
	}
	return kind.BudgetFor(subcomponent).Days(changeoutType), nil
}

// DisplayName returns the human label for a code, or the code itself when unknown
func (c *Catalog) DisplayName(code ComponentCode) string {
	if kind, ok := c.kinds[code]; ok {
		return kind.DisplayName
	}
	return string(code)
}

// SortCodes orders codes by catalog position, unknown codes last and alphabetical
func (c *Catalog) SortCodes(codes []ComponentCode) {
	sort.SliceStable(codes, func(i, j int) bool {
		ii, jj := c.Index(codes[i]), c.Index(codes[j])
		if ii != jj {
			return ii < jj
		}
		return codes[i] < codes[j]
	})
}
