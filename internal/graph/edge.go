package graph

import (
	"fmt"
	"time"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/roadmap"
	"github.com/specialistvlad/manigraph/internal/steering"
)

// EdgeKind selects the behavior of an Edge.
type EdgeKind int

const (
	KindPlain EdgeKind = iota
	KindWaypoint
	KindLevelSet
)

func (k EdgeKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindWaypoint:
		return "waypoint"
	case KindLevelSet:
		return "level_set"
	default:
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
}

// Edge is a transition between two nodes.
type Edge struct {
	component

	index      int
	kind       EdgeKind
	from       int
	to         int
	inNodeFrom bool
	pathNode   int
	short      bool
	steering   steering.Method

	configConstraint lazy[*constraint.Set]
	pathConstraint   lazy[*constraint.Set]

	wp *waypointChain
	ls *levelSet
}

func (e *Edge) Kind() EdgeKind { return e.kind }
func (e *Edge) From() *Node    { return e.graph.nodes[e.from] }
func (e *Edge) To() *Node      { return e.graph.nodes[e.to] }

// SteeringMethod returns the edge's own steering method. Once PathConstraint
// has been called it is bound to the path constraint set.
func (e *Edge) SteeringMethod() steering.Method { return e.steering }

func (e *Edge) IsInNodeFrom() bool { return e.inNodeFrom }

// SetInNodeFrom marks the edge as belonging to its source node.
func (e *Edge) SetInNodeFrom(v bool) {
	e.inNodeFrom = v
	e.resetCaches()
}

// SetNode sets the node whose in-path constraints govern the edge,
// overriding the in-node-from rule.
func (e *Edge) SetNode(n *Node) {
	e.pathNode = n.index
	e.resetCaches()
}

// IsShort reports whether paths along the edge are considered short enough
// to be validated in one step.
func (e *Edge) IsShort() bool { return e.short }

// SetShort marks paths along the edge as short.
func (e *Edge) SetShort(v bool) { e.short = v }

// Node returns the node whose in-path constraints apply along the edge.
func (e *Edge) Node() *Node {
	if e.pathNode >= 0 {
		return e.graph.nodes[e.pathNode]
	}
	if e.inNodeFrom {
		if e.kind == KindWaypoint {
			if n := e.wp.terminalNode(); n != nil {
				return n
			}
		}
		return e.From()
	}
	return e.To()
}

// ConfigConstraint returns the cached projection set of the edge: graph,
// edge and destination node constraints.
func (e *Edge) ConfigConstraint() *constraint.Set {
	return e.configConstraint.get(e.buildConfigConstraint)
}

func (e *Edge) buildConfigConstraint() *constraint.Set {
	g := e.graph
	to := e.To()
	set := constraint.NewSet(e.name)
	proj := g.newProjector(e.name)
	g.insertNumericalConstraints(proj)
	e.insertNumericalConstraints(proj)
	to.insertNumericalConstraints(proj)
	g.insertLockedJoints(proj)
	e.insertLockedJoints(proj)
	to.insertLockedJoints(proj)
	set.AddConstraint(proj)
	return set
}

// PathConstraint returns the cached set enforced along paths of the edge:
// graph and edge constraints plus the in-path constraints of Node(). The
// edge's steering method is bound to it.
func (e *Edge) PathConstraint() *constraint.Set {
	return e.pathConstraint.get(func() *constraint.Set {
		set := e.buildPathConstraint()
		e.steering.SetConstraints(set)
		return set
	})
}

func (e *Edge) buildPathConstraint() *constraint.Set {
	g := e.graph
	n := e.Node()
	set := constraint.NewSet(e.name + "/path")
	proj := g.newProjector(e.name + "/path")
	g.insertNumericalConstraints(proj)
	e.insertNumericalConstraints(proj)
	n.insertNumericalConstraintsForPath(proj)
	g.insertLockedJoints(proj)
	e.insertLockedJoints(proj)
	n.insertLockedJoints(proj)
	set.AddConstraint(proj)
	return set
}

func (e *Edge) resetCaches() {
	e.configConstraint.reset()
	e.pathConstraint.reset()
	if e.ls != nil {
		e.ls.extra.reset()
	}
}

// Build produces a path from q1 to q2 along the edge. It reports false when
// the endpoints violate the path constraints (right-hand side taken from
// q1) or when any stage of a waypoint chain fails. Neither input is
// modified.
func (e *Edge) Build(q1, q2 constraint.Configuration) (steering.Path, bool) {
	start := time.Now()
	var (
		path steering.Path
		ok   bool
	)
	if e.kind == KindWaypoint {
		path, ok = e.buildWaypoint(q1, q2)
	} else {
		path, ok = e.buildDirect(q1, q2)
	}
	e.graph.recordBuild(e, ok, time.Since(start))
	return path, ok
}

func (e *Edge) buildDirect(q1, q2 constraint.Configuration) (steering.Path, bool) {
	set := e.PathConstraint()
	set.RightHandSideFromConfig(q1)
	if !set.IsSatisfied(q1) || !set.IsSatisfied(q2) {
		return nil, false
	}
	return e.steering.Compute(q1, q2)
}

// ApplyConstraints projects q in place onto the edge's target, with the
// right-hand side of the projection taken from qOffset.
//
// Level-set edges cannot honor this call and panic with a *UsageError: they
// need a roadmap node to know which connected component to leave.
func (e *Edge) ApplyConstraints(qOffset, q constraint.Configuration) bool {
	return e.apply(qOffset, q, nil)
}

// ApplyConstraintsFromNode is ApplyConstraints with the offset taken from
// rn. Level-set edges (including those inside a waypoint chain) aim at a
// foliation leaf that the component of rn has not reached.
func (e *Edge) ApplyConstraintsFromNode(rn *roadmap.Node, q constraint.Configuration) bool {
	return e.apply(rn.Configuration(), q, rn)
}

func (e *Edge) apply(qOffset, q constraint.Configuration, rn *roadmap.Node) bool {
	switch e.kind {
	case KindWaypoint:
		return e.applyWaypoint(qOffset, q, rn)
	case KindLevelSet:
		if rn == nil {
			panic(&UsageError{
				Op:        "ApplyConstraints",
				Component: e.name,
				Err:       fmt.Errorf("%w: need to know which connected component to use", ErrUnsupported),
			})
		}
		return e.applyLevelSet(rn.ConnectedComponent(), qOffset, q)
	default:
		return e.applyDirect(qOffset, q)
	}
}

func (e *Edge) applyDirect(qOffset, q constraint.Configuration) bool {
	set := e.ConfigConstraint()
	set.RightHandSideFromConfig(qOffset)
	if set.Apply(q) {
		return true
	}
	e.warnProjectionFailure(set)
	return false
}

func (e *Edge) warnProjectionFailure(set *constraint.Set) {
	proj := set.ConfigProjector()
	if proj == nil {
		return
	}
	ss := proj.Statistics()
	if ss.NbFailure() > ss.NbSuccess() {
		e.graph.logger.Warn("Constraint set fails often.", "edge", e.name, "set", set.Name(), "stats", ss.String())
		return
	}
	e.graph.logger.Warn("Constraint set projection failed.", "edge", e.name, "set", set.Name(), "success_rate", ss.Rate())
}

func (e *Edge) mustBe(kind EdgeKind, op string) {
	if e.kind != kind {
		panic(&UsageError{
			Op:        op,
			Component: e.name,
			Err:       fmt.Errorf("%w on a %s edge", ErrUnsupported, e.kind),
		})
	}
}
