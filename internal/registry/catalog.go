package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/manigraph/internal/config"
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/specialistvlad/manigraph/internal/model"
)

var (
	ErrUnknownType       = errors.New("unknown constraint type")
	ErrUnknownConstraint = errors.New("unknown constraint")
	ErrUnknownLock       = errors.New("unknown lock")
)

// Catalog holds the named constraints and locks of one task, instantiated
// on a robot. Every name maps to a single instance shared by all the states
// and transitions referring to it.
type Catalog struct {
	constraints map[string]*constraint.Numerical
	locks       map[string]*constraint.LockedJoint
}

// Instantiate builds every constraint and lock declared in m.
func (r *Registry) Instantiate(ctx context.Context, m *config.Model, robot model.Device) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	c := &Catalog{
		constraints: make(map[string]*constraint.Numerical, len(m.Constraints)),
		locks:       make(map[string]*constraint.LockedJoint, len(m.Locks)),
	}

	for _, def := range m.Constraints {
		f, ok := r.factories[def.Type]
		if !ok {
			return nil, fmt.Errorf("%w: %q used by constraint %q", ErrUnknownType, def.Type, def.Name)
		}
		joints, err := resolveJoints(robot, def.Joints)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", def.Name, err)
		}
		fn, err := f(def.Name, robot.ConfigSize(), joints, def.Value)
		if err != nil {
			return nil, err
		}
		if def.Parametric {
			c.constraints[def.Name] = constraint.NewParametric(fn)
		} else {
			c.constraints[def.Name] = constraint.NewNumerical(fn)
		}
	}

	for _, def := range m.Locks {
		j, err := robot.Joint(def.Joint)
		if err != nil {
			return nil, fmt.Errorf("lock %q: %w", def.Name, err)
		}
		value := def.Value
		if len(value) == 0 {
			value = make([]float64, j.Size)
		}
		if len(value) != j.Size {
			return nil, fmt.Errorf("%w: lock %q of joint %q expects a value of size %d, got %d", ErrArguments, def.Name, j.Name, j.Size, len(value))
		}
		lj := constraint.NewLockedJoint(def.Name, j.Rank, value)
		if def.Parametric {
			lj.SetComparison(constraint.Parametric)
		}
		c.locks[def.Name] = lj
	}

	logger.Debug("Task constraints instantiated.", "constraints", len(c.constraints), "locks", len(c.locks))
	return c, nil
}

func resolveJoints(robot model.Device, names []string) ([]model.Joint, error) {
	joints := make([]model.Joint, 0, len(names))
	for _, name := range names {
		j, err := robot.Joint(name)
		if err != nil {
			return nil, err
		}
		joints = append(joints, j)
	}
	return joints, nil
}

// Constraints returns the constraints called names, in order.
func (c *Catalog) Constraints(names []string) ([]*constraint.Numerical, error) {
	out := make([]*constraint.Numerical, 0, len(names))
	for _, name := range names {
		nc, ok := c.constraints[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, name)
		}
		out = append(out, nc)
	}
	return out, nil
}

// Locks returns the locks called names, in order.
func (c *Catalog) Locks(names []string) ([]*constraint.LockedJoint, error) {
	out := make([]*constraint.LockedJoint, 0, len(names))
	for _, name := range names {
		lj, ok := c.locks[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLock, name)
		}
		out = append(out, lj)
	}
	return out, nil
}
