package repositories

import "github.com/vsinha/poolplan/pkg/domain/entities"

// ChangeoutRepository provides access to observed changeouts
type ChangeoutRepository interface {
	GetChangeouts() ([]*entities.Changeout, error)
	GetChangeoutsByComponent(component entities.ComponentCode) ([]*entities.Changeout, error)
	LoadChangeouts(changeouts []*entities.Changeout) error
}
