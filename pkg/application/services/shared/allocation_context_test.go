package shared

import (
	"testing"
	"time"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

func row(component entities.ComponentCode, slot int, changeout, arrival time.Time, status entities.ArrivalStatus, isNew bool) dto.AllocationRow {
	return dto.AllocationRow{
		Changeout: entities.Changeout{
			Component:     component,
			PoolSlot:      slot,
			ChangeoutDate: changeout,
			ArrivalDate:   arrival,
			ArrivalStatus: status,
		},
		New: isNew,
	}
}

func sampleResult() *dto.AllocationResult {
	return &dto.AllocationResult{
		Rows: []dto.AllocationRow{
			row(entities.TractionMotor, 1, entities.CivilDate(2024, 4, 1), entities.CivilDate(2024, 8, 1), entities.Historical, false),
			row(entities.TractionMotor, 2, entities.CivilDate(2024, 5, 1), entities.CivilDate(2024, 7, 1), entities.Historical, false),
			row(entities.TractionMotor, 1, entities.CivilDate(2024, 9, 1), entities.CivilDate(2024, 11, 14), entities.Unconfirmed, true),
			row(entities.Blower, 1, entities.CivilDate(2024, 9, 10), entities.CivilDate(2024, 10, 10), entities.Unconfirmed, true),
		},
		Outcomes: []dto.ComponentOutcome{
			{Component: entities.TractionMotor, Weeks: 2, Placed: 1, Blocked: 1, Unplaced: 2},
			{Component: entities.Blower, Weeks: 1, Placed: 1},
			{Component: entities.LiftCylinder},
		},
	}
}

func TestSlotMap_BasicOperations(t *testing.T) {
	slots := NewSlotMap()
	if slots.Size() != 0 {
		t.Errorf("Expected empty map, got size %d", slots.Size())
	}

	context := &SlotContext{Rows: 2, NewRows: 1, NextFree: entities.CivilDate(2024, 11, 14), Waiting: true}
	slots.Set(entities.TractionMotor, 3, context)

	retrieved := slots.Get(entities.TractionMotor, 3)
	if retrieved == nil {
		t.Fatal("Expected to find slot context")
	}
	if retrieved.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", retrieved.Rows)
	}

	if !slots.Has(entities.TractionMotor, 3) {
		t.Error("Expected Has to return true")
	}
	if slots.Has(entities.TractionMotor, 4) {
		t.Error("Expected Has to return false for unknown slot")
	}

	slots.Clear()
	if slots.Size() != 0 {
		t.Errorf("Expected map to be empty after clear, got size %d", slots.Size())
	}
}

func TestSlotMap_FromResult(t *testing.T) {
	slots := NewSlotMapFromResult(sampleResult())

	if slots.Size() != 3 {
		t.Fatalf("Expected 3 slots, got %d", slots.Size())
	}

	motorSlot := slots.Get(entities.TractionMotor, 1)
	if motorSlot.Rows != 2 || motorSlot.NewRows != 1 {
		t.Errorf("Expected 2 rows with 1 new, got %d and %d", motorSlot.Rows, motorSlot.NewRows)
	}
	if !motorSlot.Waiting {
		t.Error("Expected slot 1 to be waiting on a projection")
	}
	if !motorSlot.NextFree.Equal(entities.CivilDate(2024, 11, 14)) {
		t.Errorf("Expected slot 1 free on 2024-11-14, got %s", entities.FormatDate(motorSlot.NextFree))
	}

	slot, date, found := slots.EarliestFree(entities.TractionMotor)
	if !found || slot != 2 || !date.Equal(entities.CivilDate(2024, 7, 1)) {
		t.Errorf("Expected slot 2 free first on 2024-07-01, got slot %d on %s", slot, entities.FormatDate(date))
	}

	if got := slots.Slots(entities.TractionMotor); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected slots [1 2], got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(sampleResult(), entities.DefaultCatalog())

	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Component != entities.TractionMotor || summaries[1].Component != entities.Blower {
		t.Errorf("Expected catalog order, got %s then %s", summaries[0].Component, summaries[1].Component)
	}

	motor := summaries[0]
	if motor.DisplayName != "Traction Motor" {
		t.Errorf("Expected display name Traction Motor, got %s", motor.DisplayName)
	}
	if motor.Slots != 2 || motor.Rows != 3 {
		t.Errorf("Expected 2 slots and 3 rows, got %d and %d", motor.Slots, motor.Rows)
	}
	if motor.Demand() != 4 {
		t.Errorf("Expected demand 4, got %d", motor.Demand())
	}
	if ratio := motor.CoverageRatio(); ratio != 0.5 {
		t.Errorf("Expected coverage 0.5, got %.3f", ratio)
	}

	overall := CoverageRatio(summaries)
	expected := 3.0 / 5.0
	if overall < expected-0.001 || overall > expected+0.001 {
		t.Errorf("Expected overall coverage ~%.3f, got %.3f", expected, overall)
	}
}
