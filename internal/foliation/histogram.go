package foliation

import (
	"math"

	"github.com/specialistvlad/manigraph/internal/roadmap"
)

type bin struct {
	value []float64
	nodes []*roadmap.Node
}

func (b *bin) matches(p []float64, threshold float64) bool {
	for i := range p {
		if math.Abs(p[i]-b.value[i]) > threshold {
			return false
		}
	}
	return true
}

func (b *bin) hasComponent(cc roadmap.ComponentID) bool {
	for _, n := range b.nodes {
		if n.ConnectedComponent() == cc {
			return true
		}
	}
	return false
}

// LeafHistogram bins roadmap nodes by the leaf they lie on. Two nodes share a
// bin when their parameters differ by at most the threshold in every
// coordinate.
type LeafHistogram struct {
	foliation *Foliation
	threshold float64
	bins      []*bin
}

// NewLeafHistogram returns an empty histogram over f.
func NewLeafHistogram(f *Foliation, threshold float64) *LeafHistogram {
	return &LeafHistogram{foliation: f, threshold: threshold}
}

func (h *LeafHistogram) Foliation() *Foliation { return h.foliation }

// NumBins is the number of distinct leaves seen.
func (h *LeafHistogram) NumBins() int { return len(h.bins) }

// Add records n when it lies in the foliation and reports whether it did.
func (h *LeafHistogram) Add(n *roadmap.Node) bool {
	q := n.Configuration()
	if !h.foliation.Contains(q) {
		return false
	}
	p := h.foliation.Parameter(q)
	for _, b := range h.bins {
		if b.matches(p, h.threshold) {
			b.nodes = append(b.nodes, n)
			return true
		}
	}
	h.bins = append(h.bins, &bin{value: p, nodes: []*roadmap.Node{n}})
	return true
}

// DistribOutOfConnectedComponent implements Histogram. Each qualifying leaf
// is represented by its first node.
func (h *LeafHistogram) DistribOutOfConnectedComponent(cc roadmap.ComponentID) *Distribution {
	d := &Distribution{}
	for _, b := range h.bins {
		if b.hasComponent(cc) {
			continue
		}
		d.Insert(b.nodes[0], len(b.nodes))
	}
	return d
}
