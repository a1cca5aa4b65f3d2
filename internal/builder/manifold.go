package builder

import (
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/graph"
)

// FoliatedManifold bundles the constraints of one role (grasp, placement,
// ...) of a transition.
type FoliatedManifold struct {
	// NC and LJ define the manifold at rest.
	NC []constraint.Term
	LJ []*constraint.LockedJoint
	// NCPath holds along paths on the manifold.
	NCPath []constraint.Term
	// NCFol and LJFol parametrize the leaves of the foliation.
	NCFol []constraint.Term
	LJFol []*constraint.LockedJoint
}

// AddToNode attaches the at-rest and in-path constraints to n.
func (m FoliatedManifold) AddToNode(n *graph.Node) {
	for _, t := range m.NC {
		n.AddNumericalConstraint(t.Numerical, t.Passive)
	}
	for _, lj := range m.LJ {
		n.AddLockedJointConstraint(lj)
	}
	for _, t := range m.NCPath {
		n.AddNumericalConstraintForPath(t.Numerical, t.Passive)
	}
}

// AddToEdge attaches the foliation parametrizers to e, so that paths along
// e stay on one leaf.
func (m FoliatedManifold) AddToEdge(e *graph.Edge) {
	for _, t := range m.NCFol {
		e.AddNumericalConstraint(t.Numerical, t.Passive)
	}
	for _, lj := range m.LJFol {
		e.AddLockedJointConstraint(lj)
	}
}

// SpecifyFoliation describes the foliation to a level-set edge: the
// manifold constraints become its condition and the parametrizers select
// the leaf.
func (m FoliatedManifold) SpecifyFoliation(e *graph.Edge) {
	for _, t := range m.NC {
		e.InsertConditionConstraint(t.Numerical, t.Passive)
	}
	for _, lj := range m.LJ {
		e.InsertConditionLock(lj)
	}
	for _, t := range m.NCFol {
		e.InsertParamConstraint(t.Numerical, t.Passive)
	}
	for _, lj := range m.LJFol {
		e.InsertParamLock(lj)
	}
}

// IsFoliated reports whether the manifold has leaf parametrizers.
func (m FoliatedManifold) IsFoliated() bool {
	return len(m.NCFol) > 0 || len(m.LJFol) > 0
}

// Empty reports whether the manifold carries no constraint at all.
func (m FoliatedManifold) Empty() bool {
	return len(m.NC) == 0 && len(m.LJ) == 0 && len(m.NCPath) == 0 && !m.IsFoliated()
}

// Merge returns the union of m and others, in order.
func (m FoliatedManifold) Merge(others ...FoliatedManifold) FoliatedManifold {
	out := FoliatedManifold{
		NC:     append([]constraint.Term(nil), m.NC...),
		LJ:     append([]*constraint.LockedJoint(nil), m.LJ...),
		NCPath: append([]constraint.Term(nil), m.NCPath...),
		NCFol:  append([]constraint.Term(nil), m.NCFol...),
		LJFol:  append([]*constraint.LockedJoint(nil), m.LJFol...),
	}
	for _, o := range others {
		out.NC = append(out.NC, o.NC...)
		out.LJ = append(out.LJ, o.LJ...)
		out.NCPath = append(out.NCPath, o.NCPath...)
		out.NCFol = append(out.NCFol, o.NCFol...)
		out.LJFol = append(out.LJFol, o.LJFol...)
	}
	return out
}
