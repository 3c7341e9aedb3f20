package repositories

import "github.com/vsinha/poolplan/pkg/domain/entities"

// BaselineRepository provides access to the curated pool projection
type BaselineRepository interface {
	GetBaseline() ([]*entities.BaselineRow, error)
	// GetSlotHistory returns the rows of one slot ordered by changeout date
	GetSlotHistory(component entities.ComponentCode, slot int) ([]*entities.BaselineRow, error)
	LoadBaseline(rows []*entities.BaselineRow) error
}
