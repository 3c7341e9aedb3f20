package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vsinha/poolplan/pkg/domain/entities"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func motorCatalog(t *testing.T) *entities.Catalog {
	t.Helper()
	motor, err := entities.NewComponentKind(entities.TractionMotor, "Traction Motor", 74, 134, nil)
	require.NoError(t, err)
	catalog, err := entities.NewCatalog(*motor)
	require.NoError(t, err)
	return catalog
}

func motorAndBlowerCatalog(t *testing.T) *entities.Catalog {
	t.Helper()
	motor, err := entities.NewComponentKind(entities.TractionMotor, "Traction Motor", 74, 134, nil)
	require.NoError(t, err)
	blower, err := entities.NewComponentKind(entities.Blower, "Blower", 30, 60, nil)
	require.NoError(t, err)
	catalog, err := entities.NewCatalog(*motor, *blower)
	require.NoError(t, err)
	return catalog
}

// seed builds a baseline row; an empty arrival leaves the row unconfirmed
func seed(component entities.ComponentCode, equipment, serial string, slot int, changeout, arrival string) entities.BaselineRow {
	row := entities.BaselineRow{
		Equipment:       equipment,
		Component:       component,
		ComponentSerial: serial,
		ChangeoutDate:   date(changeout),
		ChangeoutWeek:   entities.WeekOf(date(changeout)),
		Type:            entities.Planned,
		ComponentHours:  -1,
		PoolSlot:        slot,
	}
	if arrival != "" {
		row.ArrivalDate = date(arrival)
	}
	return row
}

func observed(component entities.ComponentCode, equipment, serial, changeout string, changeoutType entities.ChangeoutType) entities.Changeout {
	return entities.Changeout{
		Equipment:       equipment,
		Component:       component,
		ComponentSerial: serial,
		ChangeoutDate:   date(changeout),
		ChangeoutWeek:   entities.WeekOf(date(changeout)),
		Type:            changeoutType,
		ComponentHours:  -1,
	}
}

func realArrival(t *testing.T, component entities.ComponentCode, arrival string) entities.Arrival {
	t.Helper()
	a, err := entities.NewArrival(component, date(arrival))
	require.NoError(t, err)
	return *a
}

func lane(t *testing.T, component entities.ComponentCode, equipment, changeout string, slot int) entities.BlockedLane {
	t.Helper()
	l, err := entities.NewBlockedLane(component, equipment, date(changeout), slot)
	require.NoError(t, err)
	return *l
}
