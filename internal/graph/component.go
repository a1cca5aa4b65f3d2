package graph

import "github.com/specialistvlad/manigraph/internal/constraint"

// component is the part shared by Graph, Node and Edge: identity and the
// constraints attached to the element.
type component struct {
	name  string
	id    int
	graph *Graph
	terms []constraint.Term
	locks []*constraint.LockedJoint
}

func (c *component) Name() string { return c.name }

// ID is the insertion rank of the component in its graph. The graph itself
// is 0.
func (c *component) ID() int { return c.id }

// Graph returns the graph owning the component.
func (c *component) Graph() *Graph { return c.graph }

// AddNumericalConstraint attaches nc, leaving the passive intervals
// untouched during projection.
func (c *component) AddNumericalConstraint(nc *constraint.Numerical, passive constraint.Intervals) {
	c.terms = append(c.terms, constraint.Term{Numerical: nc, Passive: passive})
	c.changed()
}

// AddLockedJointConstraint attaches lj.
func (c *component) AddLockedJointConstraint(lj *constraint.LockedJoint) {
	c.locks = append(c.locks, lj)
	c.changed()
}

// NumericalConstraints returns a copy of the attached numerical constraints.
func (c *component) NumericalConstraints() []constraint.Term {
	return append([]constraint.Term(nil), c.terms...)
}

// LockedJoints returns a copy of the attached locked joints.
func (c *component) LockedJoints() []*constraint.LockedJoint {
	return append([]*constraint.LockedJoint(nil), c.locks...)
}

func (c *component) insertNumericalConstraints(p *constraint.Projector) {
	for _, t := range c.terms {
		p.Add(t.Numerical, t.Passive)
	}
}

func (c *component) insertLockedJoints(p *constraint.Projector) {
	for _, lj := range c.locks {
		p.AddLockedJoint(lj)
	}
}

func (c *component) changed() {
	if c.graph != nil {
		c.graph.invalidateCaches()
	}
}

// constraintNames lists what the component contributes, for printing.
func (c *component) constraintNames() []string {
	var names []string
	for _, t := range c.terms {
		names = append(names, t.Numerical.Name())
	}
	for _, lj := range c.locks {
		names = append(names, lj.Name())
	}
	return names
}
