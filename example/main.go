package main

import (
	"fmt"
	"time"

	"github.com/vsinha/poolplan/pkg/application/services/pool"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

func main() {
	epoch := entities.CivilDate(2024, 7, 29)

	// Two traction motor slots, both back in the pool before the epoch
	baseline := []entities.BaselineRow{
		seedRow("TK010", "MT-100", 1, entities.CivilDate(2024, 3, 1), entities.CivilDate(2024, 6, 1)),
		seedRow("TK011", "MT-101", 2, entities.CivilDate(2024, 4, 1), entities.CivilDate(2024, 7, 1)),
	}

	// Three motors come out in September; the third finds no free slot
	changeouts := []entities.Changeout{
		observed("TK001", "MT-201", entities.CivilDate(2024, 9, 2), entities.Planned),
		observed("TK002", "MT-202", entities.CivilDate(2024, 9, 3), entities.Unplanned),
		observed("TK003", "MT-203", entities.CivilDate(2024, 9, 4), entities.Planned),
	}

	arrival, err := entities.NewArrival(entities.TractionMotor, entities.CivilDate(2024, 11, 12))
	if err != nil {
		fmt.Printf("Invalid arrival: %v\n", err)
		return
	}

	fmt.Println("Allocating traction motor changeouts...")
	fmt.Printf("Epoch: %s\n\n", entities.FormatDate(epoch))

	result, err := pool.Allocate(pool.Inputs{
		Changeouts: changeouts,
		Baseline:   baseline,
		Arrivals:   []entities.Arrival{*arrival},
		Epoch:      epoch,
	}, pool.Options{})
	if err != nil {
		fmt.Printf("Allocation failed: %v\n", err)
		return
	}

	fmt.Println("Allocation table:")
	for _, row := range result.RowsFor(entities.TractionMotor) {
		fmt.Printf("  %s %s out %s slot %d, back %s (%s)\n",
			row.Equipment,
			row.ComponentSerial,
			entities.FormatDate(row.ChangeoutDate),
			row.PoolSlot,
			entities.FormatDate(row.ArrivalDate),
			row.ArrivalStatus)
	}
	fmt.Println()

	for _, failure := range result.Exhausted() {
		fmt.Printf("Pool exhausted in week %s: %d changeouts left without a slot\n",
			failure.Week, failure.Unplaced)
	}
	fmt.Println()

	fmt.Println("Allocation log:")
	fmt.Println(result.Log.Text(entities.TractionMotor))
}

func seedRow(equipment, serial string, slot int, changeout, arrival time.Time) entities.BaselineRow {
	return entities.BaselineRow{
		Equipment:       equipment,
		Component:       entities.TractionMotor,
		ComponentSerial: serial,
		ChangeoutDate:   changeout,
		ChangeoutWeek:   entities.WeekOf(changeout),
		Type:            entities.Planned,
		ComponentHours:  -1,
		ArrivalDate:     arrival,
		PoolSlot:        slot,
	}
}

func observed(equipment, serial string, changeout time.Time, changeoutType entities.ChangeoutType) entities.Changeout {
	return entities.Changeout{
		Equipment:       equipment,
		Component:       entities.TractionMotor,
		ComponentSerial: serial,
		ChangeoutDate:   changeout,
		ChangeoutWeek:   entities.WeekOf(changeout),
		Type:            changeoutType,
		ComponentHours:  -1,
	}
}
