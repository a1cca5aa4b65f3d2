package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/specialistvlad/manigraph/internal/graph"
)

var (
	ErrMissingNode = errors.New("edge endpoint is nil")
	ErrForeignNode = errors.New("edge endpoints belong to different graphs")
)

// Stages selects the optional stages of a transition.
type Stages struct {
	// PreGrasp adds an approach waypoint before the grasp.
	PreGrasp bool
	// Place makes the object leave (or reach) a placement. With PreGrasp it
	// also adds a preplacement waypoint.
	Place bool
}

// EdgeSpec describes the transition between two existing nodes.
type EdgeSpec struct {
	ForwName string
	BackName string
	From     *graph.Node
	To       *graph.Node
	WForw    int
	WBack    int

	Grasp    FoliatedManifold
	PreGrasp FoliatedManifold
	Place    FoliatedManifold
	PrePlace FoliatedManifold

	// LevelSetGrasp and LevelSetPlace request level-set edges towards
	// unexplored leaves of the grasp and placement foliations.
	LevelSetGrasp bool
	LevelSetPlace bool

	// Submanifold holds everywhere along the transition.
	Submanifold FoliatedManifold

	Stages Stages
}

// EdgePair is the forward and backward edge of a transition.
type EdgePair struct {
	Forward  *graph.Edge
	Backward *graph.Edge
}

// CreateEdges builds the sub-graph described by spec. It returns an error
// when the endpoints are unusable; nothing is created in that case.
func CreateEdges(ctx context.Context, spec EdgeSpec) (EdgePair, error) {
	if spec.From == nil || spec.To == nil {
		return EdgePair{}, fmt.Errorf("%w: transition %q", ErrMissingNode, spec.ForwName)
	}
	g := spec.From.Graph()
	if spec.To.Graph() != g {
		return EdgePair{}, fmt.Errorf("%w: transition %q", ErrForeignNode, spec.ForwName)
	}
	if g.NodeSelector() == nil {
		return EdgePair{}, fmt.Errorf("transition %q: %w", spec.ForwName, graph.ErrNoNodeSelector)
	}

	logger := ctxlog.FromContext(ctx).With("transition", spec.ForwName)
	b := &edgeBuilder{spec: spec, logger: logger, ns: g.NodeSelector()}
	b.levelSetGrasp = b.checkFoliation(spec.LevelSetGrasp, spec.Grasp, "grasping")
	b.levelSetPlace = b.checkFoliation(spec.LevelSetPlace, spec.Place, "placement")

	var pair EdgePair
	switch s := spec.Stages; {
	case s.PreGrasp && s.Place:
		pair = b.withPreGraspAndPrePlace()
	case s.Place:
		pair = b.graspAndPlace()
	case s.PreGrasp:
		pair = b.withPreGraspNoPlace()
	default:
		pair = b.graspOnly()
	}
	logger.Debug("Transition edges created.",
		"forward", pair.Forward.Name(), "backward", pair.Backward.Name(),
		"forward_kind", pair.Forward.Kind().String())
	return pair, nil
}

type edgeBuilder struct {
	spec          EdgeSpec
	logger        *slog.Logger
	ns            *graph.NodeSelector
	levelSetGrasp bool
	levelSetPlace bool
}

// checkFoliation downgrades a level-set request on an unfoliated manifold.
func (b *edgeBuilder) checkFoliation(requested bool, m FoliatedManifold, role string) bool {
	if !requested {
		return false
	}
	if !m.IsFoliated() {
		b.logger.Warn("Level set edge requested but the target foliation is not specified; using a plain edge.", "role", role)
		return false
	}
	return true
}

func (b *edgeBuilder) waypointEdges(count int) (forw, back *graph.Edge) {
	s := b.spec
	forw = s.From.LinkTo(s.ForwName, s.To, s.WForw, graph.KindWaypoint)
	back = s.To.LinkTo(s.BackName, s.From, s.WBack, graph.KindWaypoint)
	forw.SetWaypointCount(count)
	back.SetWaypointCount(count)
	return forw, back
}

// hidden links a sub-edge that is only reachable through a waypoint edge.
func hidden(from, to *graph.Node, name string, kind graph.EdgeKind) *graph.Edge {
	return from.LinkTo(name, to, -1, kind)
}

// levelSet configures a level-set sub-edge: held by keep, foliated by fol.
func (b *edgeBuilder) levelSet(e *graph.Edge, node *graph.Node, keep, fol FoliatedManifold) {
	e.SetNode(node)
	e.SetShort(true)
	keep.AddToEdge(e)
	fol.SpecifyFoliation(e)
	b.spec.Submanifold.AddToEdge(e)
	e.BuildHistogram()
}

func mustSetWaypoint(e *graph.Edge, i int, sub *graph.Edge, n *graph.Node) {
	if err := e.SetWaypoint(i, sub, n); err != nil {
		panic(err)
	}
}

func (b *edgeBuilder) withPreGraspAndPrePlace() EdgePair {
	s := b.spec
	name := s.ForwName
	weForw, weBack := b.waypointEdges(3)

	n0 := s.From
	n1 := b.ns.CreateNode(name+"_pregrasp", true)
	n2 := b.ns.CreateNode(name+"_intersec", true)
	n3 := b.ns.CreateNode(name+"_preplace", true)
	n4 := s.To

	e01 := hidden(n0, n1, name+"_e01", graph.KindPlain)
	e12 := hidden(n1, n2, name+"_e12", graph.KindPlain)
	e23 := hidden(n2, n3, name+"_e23", graph.KindPlain)
	e34 := weForw

	e01.SetNode(n0)
	e12.SetNode(n0)
	e12.SetShort(true)
	e23.SetNode(n4)
	e23.SetShort(true)
	e34.SetNode(n4)

	for _, m := range []FoliatedManifold{s.Place, s.PreGrasp, s.Submanifold} {
		m.AddToNode(n1)
	}
	for _, m := range []FoliatedManifold{s.Place, s.Grasp, s.Submanifold} {
		m.AddToNode(n2)
	}
	for _, m := range []FoliatedManifold{s.PrePlace, s.Grasp, s.Submanifold} {
		m.AddToNode(n3)
	}

	for _, e := range []*graph.Edge{e01, e12} {
		s.Place.AddToEdge(e)
		s.Submanifold.AddToEdge(e)
	}
	for _, e := range []*graph.Edge{e23, e34} {
		s.Grasp.AddToEdge(e)
		s.Submanifold.AddToEdge(e)
	}

	grasping := e12
	if b.levelSetGrasp {
		grasping = hidden(n1, n2, name+"_e12_ls", graph.KindLevelSet)
		b.levelSet(grasping, n0, s.Place, s.Grasp)
	}
	mustSetWaypoint(weForw, 0, e01, n1)
	mustSetWaypoint(weForw, 1, grasping, n2)
	mustSetWaypoint(weForw, 2, e23, n3)

	e43 := hidden(n4, n3, name+"_e43", graph.KindPlain)
	e32 := hidden(n3, n2, name+"_e32", graph.KindPlain)
	e21 := hidden(n2, n1, name+"_e21", graph.KindPlain)
	e10 := weBack

	e43.SetNode(n4)
	e32.SetNode(n4)
	e32.SetShort(true)
	e21.SetNode(n0)
	e21.SetShort(true)
	e10.SetNode(n0)

	for _, e := range []*graph.Edge{e10, e21} {
		s.Place.AddToEdge(e)
		s.Submanifold.AddToEdge(e)
	}
	for _, e := range []*graph.Edge{e32, e43} {
		s.Grasp.AddToEdge(e)
		s.Submanifold.AddToEdge(e)
	}

	placing := e32
	if b.levelSetPlace {
		placing = hidden(n3, n2, name+"_e32_ls", graph.KindLevelSet)
		b.levelSet(placing, n4, s.Grasp, s.Place)
	}
	mustSetWaypoint(weBack, 0, e43, n3)
	mustSetWaypoint(weBack, 1, placing, n2)
	mustSetWaypoint(weBack, 2, e21, n1)

	return EdgePair{Forward: weForw, Backward: weBack}
}

func (b *edgeBuilder) graspAndPlace() EdgePair {
	s := b.spec
	name := s.ForwName
	weForw, weBack := b.waypointEdges(1)

	n0 := s.From
	n1 := b.ns.CreateNode(name+"_intersec", true)
	n2 := s.To

	e01 := hidden(n0, n1, name+"_e01", graph.KindPlain)
	e12 := weForw
	e01.SetNode(n0)
	e12.SetNode(n1)

	for _, m := range []FoliatedManifold{s.Place, s.Grasp, s.Submanifold} {
		m.AddToNode(n1)
	}
	s.Place.AddToEdge(e01)
	s.Submanifold.AddToEdge(e01)
	s.Grasp.AddToEdge(e12)
	s.Submanifold.AddToEdge(e12)

	grasping := e01
	if b.levelSetGrasp {
		grasping = hidden(n0, n1, name+"_e01_ls", graph.KindLevelSet)
		b.levelSet(grasping, n0, s.Place, s.Grasp)
	}
	mustSetWaypoint(weForw, 0, grasping, n1)

	e21 := hidden(n2, n1, name+"_e21", graph.KindPlain)
	e10 := weBack
	e21.SetNode(n2)
	e10.SetNode(n0)

	s.Place.AddToEdge(e10)
	s.Submanifold.AddToEdge(e10)
	s.Grasp.AddToEdge(e21)
	s.Submanifold.AddToEdge(e21)

	placing := e21
	if b.levelSetPlace {
		placing = hidden(n2, n1, name+"_e21_ls", graph.KindLevelSet)
		b.levelSet(placing, n2, s.Grasp, s.Place)
	}
	mustSetWaypoint(weBack, 0, placing, n1)

	return EdgePair{Forward: weForw, Backward: weBack}
}

func (b *edgeBuilder) withPreGraspNoPlace() EdgePair {
	s := b.spec
	name := s.ForwName
	if b.levelSetGrasp {
		b.logger.Warn("Foliated grasp without placement is not supported; using plain edges.")
	}
	weForw, weBack := b.waypointEdges(1)

	n0 := s.From
	n1 := b.ns.CreateNode(name+"_pregrasp", true)
	n2 := s.To

	e01 := hidden(n0, n1, name+"_e01", graph.KindPlain)
	e12 := weForw
	e01.SetNode(n0)
	e12.SetNode(n0)
	e12.SetShort(true)

	s.PreGrasp.AddToNode(n1)
	s.Submanifold.AddToNode(n1)
	s.Submanifold.AddToEdge(e01)
	s.Submanifold.AddToEdge(e12)
	mustSetWaypoint(weForw, 0, e01, n1)

	e21 := hidden(n2, n1, name+"_e21", graph.KindPlain)
	e10 := weBack
	e21.SetNode(n0)
	e21.SetShort(true)
	e10.SetNode(n0)

	s.Submanifold.AddToEdge(e10)
	s.Submanifold.AddToEdge(e21)
	mustSetWaypoint(weBack, 0, e21, n1)

	return EdgePair{Forward: weForw, Backward: weBack}
}

func (b *edgeBuilder) graspOnly() EdgePair {
	s := b.spec
	kind := graph.KindPlain
	if b.levelSetGrasp {
		kind = graph.KindLevelSet
	}
	eForw := s.From.LinkTo(s.ForwName, s.To, s.WForw, kind)
	eBack := s.To.LinkTo(s.BackName, s.From, s.WBack, graph.KindPlain)

	eForw.SetNode(s.From)
	s.Submanifold.AddToEdge(eForw)
	eBack.SetNode(s.From)
	s.Submanifold.AddToEdge(eBack)

	if b.levelSetGrasp {
		s.Grasp.SpecifyFoliation(eForw)
		eForw.BuildHistogram()
	}
	return EdgePair{Forward: eForw, Backward: eBack}
}
