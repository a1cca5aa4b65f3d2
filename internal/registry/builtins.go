package registry

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/model"
	"gonum.org/v1/gonum/mat"
)

// ErrArguments is returned when a constraint is given joints or a value it
// cannot use.
var ErrArguments = errors.New("invalid constraint arguments")

// Built-in constraint types.
const (
	// JointValue is q[j] = value.
	JointValue = "joint_value"
	// JointOffset is q[a] - q[b] = value: joint a follows joint b.
	JointOffset = "joint_offset"
)

// Builtins is the module of constraint types every registry knows.
type Builtins struct{}

func (Builtins) Register(r *Registry) {
	r.RegisterFactory(JointValue, jointValue)
	r.RegisterFactory(JointOffset, jointOffset)
}

func jointValue(name string, size int, joints []model.Joint, value []float64) (constraint.Function, error) {
	if len(joints) != 1 {
		return nil, fmt.Errorf("%w: %s %q takes 1 joint, got %d", ErrArguments, JointValue, name, len(joints))
	}
	j := joints[0]
	b, err := offset(name, j.Size, value)
	if err != nil {
		return nil, err
	}
	a := mat.NewDense(j.Size, size, nil)
	for i := range j.Size {
		a.Set(i, j.Rank+i, 1)
	}
	return constraint.NewAffine(name, a, b), nil
}

func jointOffset(name string, size int, joints []model.Joint, value []float64) (constraint.Function, error) {
	if len(joints) != 2 {
		return nil, fmt.Errorf("%w: %s %q takes 2 joints, got %d", ErrArguments, JointOffset, name, len(joints))
	}
	ja, jb := joints[0], joints[1]
	if ja.Size != jb.Size {
		return nil, fmt.Errorf("%w: %s %q relates joints of sizes %d and %d", ErrArguments, JointOffset, name, ja.Size, jb.Size)
	}
	b, err := offset(name, ja.Size, value)
	if err != nil {
		return nil, err
	}
	a := mat.NewDense(ja.Size, size, nil)
	for i := range ja.Size {
		a.Set(i, ja.Rank+i, 1)
		a.Set(i, jb.Rank+i, -1)
	}
	return constraint.NewAffine(name, a, b), nil
}

// offset turns a target value into the constant term of an affine
// function. An empty value means zero.
func offset(name string, n int, value []float64) ([]float64, error) {
	b := make([]float64, n)
	if len(value) == 0 {
		return b, nil
	}
	if len(value) != n {
		return nil, fmt.Errorf("%w: %q expects a value of size %d, got %d", ErrArguments, name, n, len(value))
	}
	for i, v := range value {
		b[i] = -v
	}
	return b, nil
}
