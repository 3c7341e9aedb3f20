package entities

// Raw records carry source values exactly as read from spreadsheets or CSV
// files. The normalizer turns them into canonical entities.

// RawChangeout is an observed changeout row
type RawChangeout struct {
	Equipment       string
	EquipmentModel  string
	Component       string
	Subcomponent    string
	Position        string
	ComponentSerial string
	ChangeoutDate   string
	Type            string
	ComponentHours  string
}

// RawBaselineRow is a row of the curated pool projection
type RawBaselineRow struct {
	Equipment       string
	EquipmentModel  string
	Component       string
	Subcomponent    string
	Position        string
	ComponentSerial string
	ChangeoutDate   string
	Type            string
	ComponentHours  string
	ArrivalDate     string
	PoolSlot        string
}

// RawArrival is a component return reported by the repair shop
type RawArrival struct {
	Component    string
	Subcomponent string
	ArrivalDate  string
	ArrivalType  string
	PoolSlot     string
}

// RawBlockedLane is a lane pre-committed pending approval
type RawBlockedLane struct {
	Component      string
	Subcomponent   string
	Equipment      string
	EquipmentModel string
	ChangeoutDate  string
	PoolSlot       string
}

// RawTables bundles the four source tables
type RawTables struct {
	Changeouts []RawChangeout
	Baseline   []RawBaselineRow
	Arrivals   []RawArrival
	Blocked    []RawBlockedLane
}
