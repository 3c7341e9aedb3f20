package memory

import (
	"sort"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/domain/repositories"
)

type slotKey struct {
	component entities.ComponentCode
	slot      int
}

// BaselineRepository provides in-memory storage of the pool projection
type BaselineRepository struct {
	rows   []entities.BaselineRow
	bySlot map[slotKey][]int
}

// NewBaselineRepository creates a new in-memory baseline repository
func NewBaselineRepository(expected int) *BaselineRepository {
	return &BaselineRepository{
		rows:   make([]entities.BaselineRow, 0, expected),
		bySlot: make(map[slotKey][]int),
	}
}

// Verify interface compliance
var _ repositories.BaselineRepository = (*BaselineRepository)(nil)

// LoadBaseline loads baseline rows into the repository
func (r *BaselineRepository) LoadBaseline(rows []*entities.BaselineRow) error {
	for _, row := range rows {
		r.AddRow(*row)
	}
	return nil
}

// AddRow adds a baseline row to the repository
func (r *BaselineRepository) AddRow(row entities.BaselineRow) {
	key := slotKey{component: row.Component, slot: row.PoolSlot}
	r.bySlot[key] = append(r.bySlot[key], len(r.rows))
	r.rows = append(r.rows, row)
}

// GetBaseline returns all baseline rows in load order
func (r *BaselineRepository) GetBaseline() ([]*entities.BaselineRow, error) {
	rows := make([]*entities.BaselineRow, 0, len(r.rows))
	for i := range r.rows {
		rows = append(rows, &r.rows[i])
	}
	return rows, nil
}

// GetSlotHistory returns the rows of one slot ordered by changeout date
func (r *BaselineRepository) GetSlotHistory(component entities.ComponentCode, slot int) ([]*entities.BaselineRow, error) {
	var rows []*entities.BaselineRow
	for _, index := range r.bySlot[slotKey{component: component, slot: slot}] {
		rows = append(rows, &r.rows[index])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ChangeoutDate.Before(rows[j].ChangeoutDate)
	})
	return rows, nil
}
