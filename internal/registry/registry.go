package registry

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/model"
)

// Factory builds the function of a constraint of a registered type. size is
// the configuration size of the robot; joints are the resolved joints the
// task file names, in order.
type Factory func(name string, size int, joints []model.Joint, value []float64) (constraint.Function, error)

// Module is the interface that constraint libraries implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps the constraint type names used in task files to factories.
type Registry struct {
	factories map[string]Factory
}

// New creates a registry holding the built-in constraint types and those of
// modules.
func New(modules ...Module) *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	Builtins{}.Register(r)
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterFactory registers f under kind. Registering a kind twice is a
// programmer error and panics.
func (r *Registry) RegisterFactory(kind string, f Factory) {
	if _, exists := r.factories[kind]; exists {
		panic(fmt.Sprintf("constraint factory with name '%s' already registered", kind))
	}
	r.factories[kind] = f
}

// Factory returns the factory registered under kind.
func (r *Registry) Factory(kind string) (Factory, bool) {
	f, ok := r.factories[kind]
	return f, ok
}

// Kinds lists the registered constraint types, sorted.
func (r *Registry) Kinds() []string {
	return slices.Sorted(maps.Keys(r.factories))
}
