package graph

import (
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/steering"
)

// SteeringMethod plans between two configurations by finding their nodes
// and building a path along a connecting edge.
type SteeringMethod struct {
	graph       *Graph
	constraints *constraint.Set
}

// NewSteeringMethod returns a steering method over g.
func NewSteeringMethod(g *Graph) *SteeringMethod {
	return &SteeringMethod{graph: g}
}

func (s *SteeringMethod) Graph() *Graph { return s.graph }

// Copy returns a steering method over the same graph.
func (s *SteeringMethod) Copy() steering.Method {
	return &SteeringMethod{graph: s.graph, constraints: s.constraints}
}

// SetConstraints is kept for the steering.Method contract. Paths produced by
// the graph carry the constraints of the edge they were built on.
func (s *SteeringMethod) SetConstraints(c *constraint.Set) { s.constraints = c }
func (s *SteeringMethod) Constraints() *constraint.Set     { return s.constraints }

// Compute tries the visible edges between the nodes of q1 and q2 in creation
// order and returns the first path built.
func (s *SteeringMethod) Compute(q1, q2 constraint.Configuration) (steering.Path, bool) {
	g := s.graph
	if g.selector == nil {
		g.logger.Warn("Steering method used on a graph without node selector.")
		return nil, false
	}
	from, err := g.selector.Select(q1)
	if err != nil {
		g.logger.Debug("No node for start configuration.", "error", err)
		return nil, false
	}
	to, err := g.selector.Select(q2)
	if err != nil {
		g.logger.Debug("No node for goal configuration.", "error", err)
		return nil, false
	}
	for _, e := range g.EdgesBetween(from, to) {
		if path, ok := e.Build(q1, q2); ok {
			return path, true
		}
	}
	g.logger.Debug("No edge could connect configurations.", "from", from.name, "to", to.name)
	return nil, false
}
