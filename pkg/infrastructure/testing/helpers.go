package testing

import (
	"time"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/infrastructure/repositories/memory"
)

// FleetEpoch is the allocation epoch of the fleet scenario
var FleetEpoch = entities.CivilDate(2024, 7, 29)

func date(year int, month time.Month, day int) time.Time {
	return entities.CivilDate(year, month, day)
}

// mustCreateArrival is a helper for tests - panics on validation error
func mustCreateArrival(component entities.ComponentCode, arrival time.Time) *entities.Arrival {
	a, err := entities.NewArrival(component, arrival)
	if err != nil {
		panic(err)
	}
	return a
}

// mustCreateBlockedLane is a helper for tests - panics on validation error
func mustCreateBlockedLane(component entities.ComponentCode, equipment string, changeout time.Time, slot int) *entities.BlockedLane {
	lane, err := entities.NewBlockedLane(component, equipment, changeout, slot)
	if err != nil {
		panic(err)
	}
	return lane
}

func baselineRow(component entities.ComponentCode, equipment, serial string, slot int, changeout, arrival time.Time) *entities.BaselineRow {
	return &entities.BaselineRow{
		Equipment:       equipment,
		Component:       component,
		ComponentSerial: serial,
		ChangeoutDate:   changeout,
		ChangeoutWeek:   entities.WeekOf(changeout),
		Type:            entities.Planned,
		ComponentHours:  -1,
		ArrivalDate:     arrival,
		PoolSlot:        slot,
	}
}

func changeout(component entities.ComponentCode, equipment, serial string, on time.Time, changeoutType entities.ChangeoutType) *entities.Changeout {
	return &entities.Changeout{
		Equipment:       equipment,
		Component:       component,
		ComponentSerial: serial,
		ChangeoutDate:   on,
		ChangeoutWeek:   entities.WeekOf(on),
		Type:            changeoutType,
		ComponentHours:  -1,
	}
}

// BuildFleetTestData builds a small haul-truck fleet: traction motors with
// three slots, a blower with one and a lift cylinder pair with a blocked lane.
// Every changeout can be placed.
func BuildFleetTestData() (*memory.ChangeoutRepository, *memory.BaselineRepository, *memory.ArrivalRepository, *memory.BlockedLaneRepository) {
	changeoutRepo := memory.NewChangeoutRepository(8)
	baselineRepo := memory.NewBaselineRepository(6)
	arrivalRepo := memory.NewArrivalRepository()
	blockedRepo := memory.NewBlockedLaneRepository()

	baseline := []*entities.BaselineRow{
		baselineRow(entities.TractionMotor, "TK010", "MT-100", 1, date(2024, 3, 1), date(2024, 6, 1)),
		baselineRow(entities.TractionMotor, "TK011", "MT-101", 2, date(2024, 4, 1), date(2024, 7, 1)),
		baselineRow(entities.TractionMotor, "TK012", "MT-102", 3, date(2024, 8, 28), time.Time{}),
		baselineRow(entities.Blower, "TK020", "BL-100", 1, date(2024, 5, 1), date(2024, 6, 15)),
		baselineRow(entities.LiftCylinder, "TK030", "LC-100", 1, date(2024, 7, 1), date(2024, 8, 10)),
		baselineRow(entities.LiftCylinder, "TK031", "LC-101", 2, date(2024, 7, 5), date(2024, 8, 10)),
	}

	changeouts := []*entities.Changeout{
		changeout(entities.TractionMotor, "TK001", "MT-201", date(2024, 9, 2), entities.Planned),
		changeout(entities.TractionMotor, "TK002", "MT-202", date(2024, 9, 5), entities.Unplanned),
		changeout(entities.TractionMotor, "TK003", "MT-203", date(2024, 11, 20), entities.Planned),
		changeout(entities.TractionMotor, "TK004", "MT-204", date(2024, 12, 30), entities.Planned),
		changeout(entities.Blower, "TK021", "BL-201", date(2024, 9, 10), entities.Planned),
		changeout(entities.Blower, "TK022", "BL-202", date(2024, 10, 20), entities.Planned),
		changeout(entities.LiftCylinder, "TK032", "LC-201", date(2024, 9, 1), entities.Planned),
		changeout(entities.LiftCylinder, "TK033", "LC-202", date(2024, 9, 20), entities.Planned),
	}

	arrivals := []*entities.Arrival{
		mustCreateArrival(entities.TractionMotor, date(2024, 11, 12)),
		mustCreateArrival(entities.TractionMotor, date(2024, 11, 14)),
		mustCreateArrival(entities.Blower, date(2024, 10, 9)),
		mustCreateArrival(entities.LiftCylinder, date(2024, 10, 15)),
	}

	blocked := []*entities.BlockedLane{
		mustCreateBlockedLane(entities.LiftCylinder, "TK033", date(2024, 9, 20), 2),
	}

	if err := baselineRepo.LoadBaseline(baseline); err != nil {
		panic(err)
	}
	if err := changeoutRepo.LoadChangeouts(changeouts); err != nil {
		panic(err)
	}
	if err := arrivalRepo.LoadArrivals(arrivals); err != nil {
		panic(err)
	}
	if err := blockedRepo.LoadBlockedLanes(blocked); err != nil {
		panic(err)
	}

	return changeoutRepo, baselineRepo, arrivalRepo, blockedRepo
}

// BuildRawFleetTables returns source rows as they arrive from the planning
// spreadsheets: accented names, bare equipment numbers, model variants and
// one unusable row per table.
func BuildRawFleetTables() entities.RawTables {
	return entities.RawTables{
		Changeouts: []entities.RawChangeout{
			{Equipment: "1", EquipmentModel: "960E-1", Component: "Motor de Tracción", ComponentSerial: " mt-201 ", ChangeoutDate: "2024-09-02", Type: "P", ComponentHours: "12,450.0"},
			{Equipment: "TK 2", EquipmentModel: "960E", Component: "motor_traccion", ComponentSerial: "MT-202", ChangeoutDate: "2024-09-05 08:30:00", Type: "I"},
			{Equipment: "21", EquipmentModel: "930E", Component: "Blower Parrilla", ComponentSerial: "BL-201", ChangeoutDate: "2024-09-10"},
			{Equipment: "33", EquipmentModel: "930E", Component: "Cilindro de Levante", ComponentSerial: "LC-202", ChangeoutDate: "2024-09-20", Type: "P"},
			{Equipment: "99", Component: "motor_traccion", ChangeoutDate: "not a date"},
		},
		Baseline: []entities.RawBaselineRow{
			{Equipment: "10", EquipmentModel: "960E", Component: "motor_traccion", ComponentSerial: "MT-100", ChangeoutDate: "2024-03-01", Type: "P", ArrivalDate: "2024-06-01", PoolSlot: "1"},
			{Equipment: "11", EquipmentModel: "960E", Component: "motor_traccion", ComponentSerial: "MT-101", ChangeoutDate: "2024-04-01", Type: "P", ArrivalDate: "2024-07-01", PoolSlot: "2.0"},
			{Equipment: "20", EquipmentModel: "930E", Component: "blower", ComponentSerial: "BL-100", ChangeoutDate: "2024-05-01", ArrivalDate: "2024-06-15", PoolSlot: "1"},
			{Equipment: "30", EquipmentModel: "930E", Component: "cilindro_levante", ComponentSerial: "LC-100", ChangeoutDate: "2024-07-01", ArrivalDate: "2024-08-10", PoolSlot: "1"},
			{Equipment: "31", EquipmentModel: "930E", Component: "cilindro_levante", ComponentSerial: "LC-101", ChangeoutDate: "2024-07-05", ArrivalDate: "2024-08-10", PoolSlot: "2"},
			{Equipment: "12", Component: "motor_traccion", PoolSlot: "3"},
		},
		Arrivals: []entities.RawArrival{
			{Component: "Motor de Tracción", ArrivalDate: "2024-11-12", ArrivalType: "REAL"},
			{Component: "blower", ArrivalDate: "2024-10-09"},
			{Component: "motor_traccion", ArrivalDate: "2024-12-01", ArrivalType: "PROYECTADO"},
		},
		Blocked: []entities.RawBlockedLane{
			{Component: "Cilindro de Levante", Equipment: "33", EquipmentModel: "930E", ChangeoutDate: "2024-09-20", PoolSlot: "2"},
			{Component: "blower", Equipment: "22", ChangeoutDate: "", PoolSlot: "1"},
		},
	}
}
