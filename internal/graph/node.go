package graph

import (
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/roadmap"
)

type neighbor struct {
	edge   int
	weight int
}

// Neighbor is a visible outgoing edge and its selection weight.
type Neighbor struct {
	Edge   *Edge
	Weight int
}

// Node is a mode of the task: a sub-manifold of the configuration space.
type Node struct {
	component

	index     int
	waypoint  bool
	pathTerms []constraint.Term
	neighbors []neighbor

	configConstraint lazy[*constraint.Set]
}

// IsWaypoint reports whether n is an intermediate node of a waypoint edge.
func (n *Node) IsWaypoint() bool { return n.waypoint }

// AddNumericalConstraintForPath attaches a constraint that holds along
// paths governed by n, without being part of its at-rest definition.
func (n *Node) AddNumericalConstraintForPath(nc *constraint.Numerical, passive constraint.Intervals) {
	n.pathTerms = append(n.pathTerms, constraint.Term{Numerical: nc, Passive: passive})
	n.changed()
}

func (n *Node) NumericalConstraintsForPath() []constraint.Term {
	return append([]constraint.Term(nil), n.pathTerms...)
}

func (n *Node) insertNumericalConstraintsForPath(p *constraint.Projector) {
	for _, t := range n.pathTerms {
		p.Add(t.Numerical, t.Passive)
	}
}

// LinkTo creates an edge of the given kind from n to to. A negative weight
// hides the edge: it exists in the graph but is neither chosen nor used by
// the steering method. Waypoint sub-edges are created this way.
func (n *Node) LinkTo(name string, to *Node, weight int, kind EdgeKind) *Edge {
	e := n.graph.addEdge(name, n, to, kind)
	if weight >= 0 {
		n.neighbors = append(n.neighbors, neighbor{edge: e.index, weight: weight})
	}
	return e
}

// Neighbors returns the visible outgoing edges in creation order.
func (n *Node) Neighbors() []Neighbor {
	out := make([]Neighbor, len(n.neighbors))
	for i, nb := range n.neighbors {
		out[i] = Neighbor{Edge: n.graph.edges[nb.edge], Weight: nb.weight}
	}
	return out
}

// ConfigConstraint returns the cached set of graph and node at-rest
// constraints.
func (n *Node) ConfigConstraint() *constraint.Set {
	return n.configConstraint.get(n.buildConfigConstraint)
}

func (n *Node) buildConfigConstraint() *constraint.Set {
	g := n.graph
	set := constraint.NewSet(n.name)
	proj := g.newProjector(n.name)
	g.insertNumericalConstraints(proj)
	n.insertNumericalConstraints(proj)
	g.insertLockedJoints(proj)
	n.insertLockedJoints(proj)
	set.AddConstraint(proj)
	return set
}

// Contains reports whether q lies in the mode.
func (n *Node) Contains(q constraint.Configuration) bool {
	return n.ConfigConstraint().IsSatisfied(q)
}

// ContainsRoadmapNode reports whether the configuration of rn lies in the
// mode.
func (n *Node) ContainsRoadmapNode(rn *roadmap.Node) bool {
	return n.Contains(rn.Configuration())
}
