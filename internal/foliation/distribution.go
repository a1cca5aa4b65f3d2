package foliation

import (
	"math/rand/v2"

	"github.com/specialistvlad/manigraph/internal/roadmap"
)

// Distribution is a discrete weighted distribution over roadmap nodes.
type Distribution struct {
	nodes   []*roadmap.Node
	weights []int
	total   int
}

// Insert adds n with a positive weight. Non-positive weights are ignored.
func (d *Distribution) Insert(n *roadmap.Node, weight int) {
	if weight <= 0 {
		return
	}
	d.nodes = append(d.nodes, n)
	d.weights = append(d.weights, weight)
	d.total += weight
}

// Size is the number of entries. A nil distribution is empty.
func (d *Distribution) Size() int {
	if d == nil {
		return 0
	}
	return len(d.nodes)
}

// Sample draws a node with probability proportional to its weight. It
// returns nil on an empty distribution.
func (d *Distribution) Sample(rng *rand.Rand) *roadmap.Node {
	if d.Size() == 0 {
		return nil
	}
	x := rng.IntN(d.total)
	for i, w := range d.weights {
		if x < w {
			return d.nodes[i]
		}
		x -= w
	}
	return d.nodes[len(d.nodes)-1]
}
