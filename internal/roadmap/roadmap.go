// Package roadmap records visited configurations and the connected
// components they form. Level-set edges use it to aim at foliation leaves
// that the current component has not reached yet.
package roadmap

import "github.com/specialistvlad/manigraph/internal/constraint"

// ComponentID identifies a connected component. IDs are only stable until
// the next Connect call.
type ComponentID uint32

// Node is a configuration stored in a Roadmap.
type Node struct {
	index uint32
	q     constraint.Configuration
	rm    *Roadmap
}

// Index is the insertion rank of the node in its roadmap.
func (n *Node) Index() int { return int(n.index) }

// Configuration returns a copy of the node configuration.
func (n *Node) Configuration() constraint.Configuration { return n.q.Clone() }

// ConnectedComponent returns the current component of n.
func (n *Node) ConnectedComponent() ComponentID {
	return ComponentID(n.rm.uf.find(n.index))
}

// Roadmap is a set of nodes partitioned into connected components. It is
// not safe for concurrent use.
type Roadmap struct {
	nodes []*Node
	uf    unionFind
}

// New returns an empty roadmap.
func New() *Roadmap {
	return &Roadmap{}
}

// AddNode stores a copy of q in a new singleton component.
func (r *Roadmap) AddNode(q constraint.Configuration) *Node {
	n := &Node{index: r.uf.add(), q: q.Clone(), rm: r}
	r.nodes = append(r.nodes, n)
	return n
}

// Connect merges the components of a and b. It reports false when they
// already were connected.
func (r *Roadmap) Connect(a, b *Node) bool {
	return r.uf.union(a.index, b.index)
}

// Nodes returns the nodes in insertion order.
func (r *Roadmap) Nodes() []*Node {
	return append([]*Node(nil), r.nodes...)
}

// NumComponents counts the distinct connected components.
func (r *Roadmap) NumComponents() int {
	n := 0
	for i := range r.nodes {
		if r.uf.find(uint32(i)) == uint32(i) {
			n++
		}
	}
	return n
}

// ComponentNodes returns the nodes of component id in insertion order.
func (r *Roadmap) ComponentNodes(id ComponentID) []*Node {
	var out []*Node
	for _, n := range r.nodes {
		if n.ConnectedComponent() == id {
			out = append(out, n)
		}
	}
	return out
}
