package model

import (
	"errors"
	"fmt"
)

// ErrJointNotFound is returned when a joint name is not part of a Device.
var ErrJointNotFound = errors.New("joint not found")

// Device is the kinematic model contract used by the constraint graph.
type Device interface {
	Name() string
	// ConfigSize is the length of a configuration vector.
	ConfigSize() int
	Joint(name string) (Joint, error)
}

// Joint is a named, contiguous slice [Rank, Rank+Size) of a configuration.
type Joint struct {
	Name string
	Rank int
	Size int
}

// Robot is a Device built from an ordered list of joints.
type Robot struct {
	name   string
	joints []Joint
	index  map[string]int
	size   int
}

// NewRobot returns an empty robot.
func NewRobot(name string) *Robot {
	return &Robot{
		name:  name,
		index: make(map[string]int),
	}
}

// AddJoint appends a joint of the given size at the end of the configuration.
func (r *Robot) AddJoint(name string, size int) (Joint, error) {
	if size <= 0 {
		return Joint{}, fmt.Errorf("joint %q: size must be positive, got %d", name, size)
	}
	if _, exists := r.index[name]; exists {
		return Joint{}, fmt.Errorf("joint %q declared twice on robot %q", name, r.name)
	}
	j := Joint{Name: name, Rank: r.size, Size: size}
	r.index[name] = len(r.joints)
	r.joints = append(r.joints, j)
	r.size += size
	return j, nil
}

// Name implements Device.
func (r *Robot) Name() string { return r.name }

// ConfigSize implements Device.
func (r *Robot) ConfigSize() int { return r.size }

// Joint implements Device.
func (r *Robot) Joint(name string) (Joint, error) {
	i, ok := r.index[name]
	if !ok {
		return Joint{}, fmt.Errorf("%w: %q on robot %q", ErrJointNotFound, name, r.name)
	}
	return r.joints[i], nil
}

// Joints returns the joints in configuration order.
func (r *Robot) Joints() []Joint {
	out := make([]Joint, len(r.joints))
	copy(out, r.joints)
	return out
}

// NeutralConfiguration returns the all-zero configuration.
func (r *Robot) NeutralConfiguration() []float64 {
	return make([]float64, r.size)
}
