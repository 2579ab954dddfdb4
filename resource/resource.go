package resource

import (
	"fmt"

	"tuneup/lib/ftypes"
)

type Type uint8

/*
Resource represents any external resource that needs
to be initialized/closed with some dependency management.
The way to define any new resource is to create a struct that
implements Config interface. Using that config, materialize the
resource. Any initialization/setup should be done during this
materialization.

*/

const (
	DBConnection Type = 1
)

type Config interface {
	Materialize(scope Scope) (Resource, error)
}

type Resource interface {
	Close() error
	Type() Type
}

// Scope namespaces resource names so several garages can share the same
// backing infrastructure without colliding.
type Scope interface {
	ID() ftypes.GarageID
	PrefixedName(string) string
}

var _ Scope = GarageScope{}

type GarageScope struct {
	garageID ftypes.GarageID
}

func NewGarageScope(garageID ftypes.GarageID) GarageScope {
	return GarageScope{
		garageID: garageID,
	}
}

func (g GarageScope) ID() ftypes.GarageID {
	return g.garageID
}

func (g GarageScope) PrefixedName(name string) string {
	return fmt.Sprintf("g_%d_%s", g.garageID, name)
}
