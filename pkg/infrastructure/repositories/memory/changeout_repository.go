package memory

import (
	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/domain/repositories"
)

// ChangeoutRepository provides in-memory changeout storage
type ChangeoutRepository struct {
	changeouts  []entities.Changeout
	byComponent map[entities.ComponentCode][]int
}

// NewChangeoutRepository creates a new in-memory changeout repository
func NewChangeoutRepository(expected int) *ChangeoutRepository {
	return &ChangeoutRepository{
		changeouts:  make([]entities.Changeout, 0, expected),
		byComponent: make(map[entities.ComponentCode][]int),
	}
}

// Verify interface compliance
var _ repositories.ChangeoutRepository = (*ChangeoutRepository)(nil)

// LoadChangeouts loads changeouts into the repository
func (r *ChangeoutRepository) LoadChangeouts(changeouts []*entities.Changeout) error {
	for _, changeout := range changeouts {
		r.AddChangeout(*changeout)
	}
	return nil
}

// AddChangeout adds a changeout to the repository
func (r *ChangeoutRepository) AddChangeout(changeout entities.Changeout) {
	r.byComponent[changeout.Component] = append(r.byComponent[changeout.Component], len(r.changeouts))
	r.changeouts = append(r.changeouts, changeout)
}

// GetChangeouts returns all changeouts in load order
func (r *ChangeoutRepository) GetChangeouts() ([]*entities.Changeout, error) {
	changeouts := make([]*entities.Changeout, 0, len(r.changeouts))
	for i := range r.changeouts {
		changeouts = append(changeouts, &r.changeouts[i])
	}
	return changeouts, nil
}

// GetChangeoutsByComponent returns the changeouts of one component kind
func (r *ChangeoutRepository) GetChangeoutsByComponent(component entities.ComponentCode) ([]*entities.Changeout, error) {
	var changeouts []*entities.Changeout
	for _, index := range r.byComponent[component] {
		changeouts = append(changeouts, &r.changeouts[index])
	}
	return changeouts, nil
}
