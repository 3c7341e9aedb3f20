package output

import (
	"strconv"
	"time"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// AllocationHeader is the column order of the allocation table exports
var AllocationHeader = []string{
	"component",
	"display_name",
	"equipment",
	"subcomponent",
	"position",
	"component_serial",
	"changeout_date",
	"changeout_week",
	"changeout_type",
	"component_hours",
	"arrival_status",
	"arrival_date",
	"arrival_date_projection",
	"pool_slot",
	"overhaul_days",
	"new",
}

// ArrivalHeader is the column order of the arrivals export
var ArrivalHeader = []string{
	"component",
	"subcomponent",
	"arrival_date",
	"arrival_week",
	"arrival_type",
	"pool_slot",
}

func allocationRecord(row dto.AllocationRow) []string {
	return []string{
		string(row.Component),
		row.DisplayName,
		row.Equipment,
		row.Subcomponent,
		row.Position,
		row.ComponentSerial,
		dateCell(row.ChangeoutDate),
		string(row.ChangeoutWeek),
		row.Type.Code(),
		strconv.FormatInt(row.ComponentHours, 10),
		row.ArrivalStatus.String(),
		dateCell(row.ArrivalDate),
		dateCell(row.ArrivalDateProjection),
		slotCell(row.PoolSlot),
		strconv.Itoa(row.OverhaulDays),
		strconv.FormatBool(row.New),
	}
}

func arrivalRecord(arrival entities.Arrival) []string {
	return []string{
		string(arrival.Component),
		arrival.Subcomponent,
		dateCell(arrival.ArrivalDate),
		string(arrival.ArrivalWeek),
		arrival.Type.String(),
		slotCell(arrival.PoolSlot),
	}
}

// dateCell leaves absent dates empty rather than "-"
func dateCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return entities.FormatDate(t)
}

func slotCell(slot int) string {
	if slot == entities.NoSlot {
		return ""
	}
	return strconv.Itoa(slot)
}
