package graph

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/specialistvlad/manigraph/internal/metrics"
	"github.com/specialistvlad/manigraph/internal/model"
	"github.com/specialistvlad/manigraph/internal/steering"
)

// Graph owns the nodes and edges of a constraint graph.
type Graph struct {
	component

	robot    model.Device
	steering steering.Method
	selector *NodeSelector
	nodes    []*Node
	edges    []*Edge
	nextID   int

	errorThreshold float64
	maxIterations  int

	logger  *slog.Logger
	metrics *metrics.Registry
	rng     *rand.Rand
}

// Option customizes a Graph at creation.
type Option func(*Graph)

// WithMetrics reports edge builds and projections to r.
func WithMetrics(r *metrics.Registry) Option {
	return func(g *Graph) { g.metrics = r }
}

// WithRand sets the source used to sample level-set targets and to choose
// edges.
func WithRand(rng *rand.Rand) Option {
	return func(g *Graph) { g.rng = rng }
}

// New creates an empty graph for robot. Every edge receives its own copy of
// sm. The logger is taken from ctx.
func New(ctx context.Context, name string, robot model.Device, sm steering.Method, opts ...Option) *Graph {
	g := &Graph{
		robot:          robot,
		steering:       sm,
		nextID:         1,
		errorThreshold: constraint.DefaultErrorThreshold,
		maxIterations:  constraint.DefaultMaxIterations,
		logger:         ctxlog.FromContext(ctx).With("graph", name),
	}
	g.component = component{name: name, graph: g}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g.logger.Debug("Graph created.", "robot", robot.Name(), "config_size", robot.ConfigSize())
	return g
}

// CreateNodeSelector installs a new node selector, replacing any previous one.
func (g *Graph) CreateNodeSelector(name string) *NodeSelector {
	g.selector = &NodeSelector{name: name, graph: g}
	return g.selector
}

// NodeSelector returns the installed selector, or nil.
func (g *Graph) NodeSelector() *NodeSelector { return g.selector }

func (g *Graph) Robot() model.Device        { return g.robot }
func (g *Graph) Logger() *slog.Logger       { return g.logger }
func (g *Graph) Metrics() *metrics.Registry { return g.metrics }

func (g *Graph) ErrorThreshold() float64 { return g.errorThreshold }

// SetErrorThreshold changes the tolerance of every projector built from now
// on. Sets already cached keep the value they were built with, so call it
// before the first projection.
func (g *Graph) SetErrorThreshold(v float64) {
	g.errorThreshold = v
}

func (g *Graph) MaxIterations() int { return g.maxIterations }

// SetMaxIterations changes the iteration budget of every projector built from
// now on. Like SetErrorThreshold it leaves cached sets untouched.
func (g *Graph) SetMaxIterations(n int) {
	g.maxIterations = n
}

// Nodes returns every node, waypoint nodes included, in insertion order.
func (g *Graph) Nodes() []*Node { return append([]*Node(nil), g.nodes...) }

// Edges returns every edge, hidden ones included, in insertion order.
func (g *Graph) Edges() []*Edge { return append([]*Edge(nil), g.edges...) }

// NodeByName returns the first node called name.
func (g *Graph) NodeByName(name string) (*Node, bool) {
	for _, n := range g.nodes {
		if n.name == name {
			return n, true
		}
	}
	return nil, false
}

// EdgeByName returns the first edge called name.
func (g *Graph) EdgeByName(name string) (*Edge, bool) {
	for _, e := range g.edges {
		if e.name == name {
			return e, true
		}
	}
	return nil, false
}

// EdgesBetween returns the visible edges from -> to in insertion order.
func (g *Graph) EdgesBetween(from, to *Node) []*Edge {
	var out []*Edge
	for _, nb := range from.neighbors {
		e := g.edges[nb.edge]
		if e.to == to.index {
			out = append(out, e)
		}
	}
	return out
}

// ChooseEdge draws one visible outgoing edge of from with probability
// proportional to its weight. It returns nil when every weight is zero.
func (g *Graph) ChooseEdge(from *Node) *Edge {
	total := 0
	for _, nb := range from.neighbors {
		total += nb.weight
	}
	if total == 0 {
		return nil
	}
	x := g.rng.IntN(total)
	for _, nb := range from.neighbors {
		if x < nb.weight {
			return g.edges[nb.edge]
		}
		x -= nb.weight
	}
	return nil
}

// SteeringMethod returns a steering method planning through g.
func (g *Graph) SteeringMethod() *SteeringMethod {
	return NewSteeringMethod(g)
}

func (g *Graph) addNode(name string, waypoint bool) *Node {
	n := &Node{
		component: component{name: name, id: g.nextID, graph: g},
		index:     len(g.nodes),
		waypoint:  waypoint,
	}
	g.nextID++
	g.nodes = append(g.nodes, n)
	g.updateSize()
	return n
}

func (g *Graph) addEdge(name string, from, to *Node, kind EdgeKind) *Edge {
	e := &Edge{
		component: component{name: name, id: g.nextID, graph: g},
		index:     len(g.edges),
		kind:      kind,
		from:      from.index,
		to:        to.index,
		pathNode:  -1,
		steering:  g.steering.Copy(),
	}
	switch kind {
	case KindWaypoint:
		e.wp = &waypointChain{}
	case KindLevelSet:
		e.ls = &levelSet{}
	}
	g.nextID++
	g.edges = append(g.edges, e)
	g.updateSize()
	return e
}

// newProjector returns an empty projector using the graph parameters.
func (g *Graph) newProjector(name string) *constraint.Projector {
	p := constraint.NewProjector(name, g.errorThreshold, g.maxIterations)
	if g.metrics != nil {
		p.SetObserver(g.metrics)
	}
	return p
}

func (g *Graph) invalidateCaches() {
	for _, n := range g.nodes {
		n.configConstraint.reset()
	}
	for _, e := range g.edges {
		e.resetCaches()
	}
}

func (g *Graph) updateSize() {
	if g.metrics != nil {
		g.metrics.UpdateGraphSize(len(g.nodes), len(g.edges))
	}
}

func (g *Graph) recordBuild(e *Edge, ok bool, d time.Duration) {
	if g.metrics != nil {
		g.metrics.RecordEdgeBuild(e.name, e.kind.String(), ok, d)
	}
}
