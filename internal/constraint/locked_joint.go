package constraint

import (
	"fmt"
	"math"

	"github.com/specialistvlad/manigraph/internal/model"
)

// LockedJoint pins the configuration slice of one joint to a value.
type LockedJoint struct {
	name       string
	rank       int
	value      []float64
	comparison Comparison
}

// NewLockedJoint locks q[rank:rank+len(value)] to value. The lock is Fixed;
// see SetComparison.
func NewLockedJoint(name string, rank int, value []float64) *LockedJoint {
	return &LockedJoint{name: name, rank: rank, value: append([]float64(nil), value...)}
}

// LockJoint locks joint j of a model to value.
func LockJoint(j model.Joint, value []float64) (*LockedJoint, error) {
	if len(value) != j.Size {
		return nil, fmt.Errorf("lock of joint %q: value has size %d, joint has size %d", j.Name, len(value), j.Size)
	}
	return NewLockedJoint(j.Name, j.Rank, value), nil
}

func (l *LockedJoint) Name() string { return l.name }
func (l *LockedJoint) Rank() int    { return l.rank }
func (l *LockedJoint) Size() int    { return len(l.value) }

// Value returns a copy of the locked value.
func (l *LockedJoint) Value() []float64 {
	return append([]float64(nil), l.value...)
}

func (l *LockedJoint) Comparison() Comparison { return l.comparison }

// SetComparison makes the lock Fixed or Parametric. A Parametric lock keeps
// the joint where the offset configuration has it.
func (l *LockedJoint) SetComparison(c Comparison) { l.comparison = c }

func (l *LockedJoint) SetValue(v []float64) {
	if len(v) != len(l.value) {
		panic(fmt.Sprintf("constraint: lock %q expects a value of size %d, got %d", l.name, len(l.value), len(v)))
	}
	copy(l.value, v)
}

// RightHandSideFromConfig locks the joint at its value in q.
func (l *LockedJoint) RightHandSideFromConfig(q Configuration) {
	l.SetValue(q[l.rank : l.rank+len(l.value)])
}

func imposeLock(q Configuration, rank int, value []float64) {
	copy(q[rank:rank+len(value)], value)
}

func lockSatisfied(q Configuration, rank int, value []float64, threshold float64) bool {
	for i, v := range value {
		if math.Abs(q[rank+i]-v) > threshold {
			return false
		}
	}
	return true
}
