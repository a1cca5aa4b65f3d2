package graph

import (
	"fmt"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/roadmap"
)

// NodeSelector maps configurations to nodes. Nodes are tested in creation
// order; waypoint nodes are never selected.
type NodeSelector struct {
	name    string
	graph   *Graph
	ordered []int
}

func (s *NodeSelector) Name() string { return s.name }

// CreateNode adds a node to the graph. Unless waypoint is set the node also
// joins the selection order, after every node created before it.
func (s *NodeSelector) CreateNode(name string, waypoint bool) *Node {
	n := s.graph.addNode(name, waypoint)
	if !waypoint {
		s.ordered = append(s.ordered, n.index)
	}
	s.graph.logger.Debug("Node created.", "node", name, "id", n.id, "waypoint", waypoint)
	return n
}

// Nodes returns the selectable nodes in selection order.
func (s *NodeSelector) Nodes() []*Node {
	out := make([]*Node, len(s.ordered))
	for i, idx := range s.ordered {
		out[i] = s.graph.nodes[idx]
	}
	return out
}

// Select returns the first node containing q.
func (s *NodeSelector) Select(q constraint.Configuration) (*Node, error) {
	for _, idx := range s.ordered {
		n := s.graph.nodes[idx]
		if n.Contains(q) {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: selector %q", ErrNoMatchingNode, s.name)
}

// SelectRoadmapNode is Select on the configuration of rn.
func (s *NodeSelector) SelectRoadmapNode(rn *roadmap.Node) (*Node, error) {
	return s.Select(rn.Configuration())
}
