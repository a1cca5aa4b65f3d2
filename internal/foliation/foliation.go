// Package foliation partitions a constrained region of the configuration
// space into leaves and keeps a histogram of the roadmap nodes found on each
// leaf.
//
// A foliation is described by two groups of constraints. The condition
// selects the region being foliated: a configuration belongs to the
// foliation when it satisfies the condition. The parametrizer tells leaves
// apart: two configurations of the region lie on the same leaf when the
// parametrizer takes the same value on both.
package foliation

import (
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/roadmap"
)

// Histogram gives access to the leaves reached so far.
type Histogram interface {
	// DistribOutOfConnectedComponent returns the leaves that hold no node
	// of component cc, weighted by how many nodes they hold.
	DistribOutOfConnectedComponent(cc roadmap.ComponentID) *Distribution
}

// Foliation groups condition and parametrizer constraints.
type Foliation struct {
	condition  *constraint.Projector
	paramTerms []constraint.Term
	paramLocks []*constraint.LockedJoint
}

// New returns an empty foliation; threshold is the tolerance of the
// condition test.
func New(name string, threshold float64) *Foliation {
	return &Foliation{condition: constraint.NewProjector(name+"_condition", threshold, 1)}
}

func (f *Foliation) AddCondition(nc *constraint.Numerical, passive constraint.Intervals) {
	f.condition.Add(nc, passive)
}

func (f *Foliation) AddConditionLock(lj *constraint.LockedJoint) {
	f.condition.AddLockedJoint(lj)
}

func (f *Foliation) AddParametrizer(nc *constraint.Numerical) {
	f.paramTerms = append(f.paramTerms, constraint.Term{Numerical: nc})
}

func (f *Foliation) AddParametrizerLock(lj *constraint.LockedJoint) {
	f.paramLocks = append(f.paramLocks, lj)
}

// Contains reports whether q satisfies the condition.
func (f *Foliation) Contains(q constraint.Configuration) bool {
	return f.condition.IsSatisfied(q)
}

// Parameter returns the leaf coordinates of q.
func (f *Foliation) Parameter(q constraint.Configuration) []float64 {
	var p []float64
	for _, t := range f.paramTerms {
		p = append(p, t.Numerical.Function().Value(q)...)
	}
	for _, lj := range f.paramLocks {
		p = append(p, q[lj.Rank():lj.Rank()+lj.Size()]...)
	}
	return p
}
