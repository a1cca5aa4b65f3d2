package graph

import (
	"fmt"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/roadmap"
	"github.com/specialistvlad/manigraph/internal/steering"
)

type waypoint struct {
	edge *Edge
	node *Node
}

// waypointChain is the state of a KindWaypoint edge. configs[0] is the
// offset and configs[i+1] the configuration reached at waypoint i. result
// is the last configuration produced by ApplyConstraints.
type waypointChain struct {
	waypoints []waypoint
	configs   []constraint.Configuration
	result    constraint.Configuration
}

func (w *waypointChain) terminalNode() *Node {
	if len(w.waypoints) == 0 {
		return nil
	}
	return w.waypoints[len(w.waypoints)-1].node
}

func (w *waypointChain) complete() bool {
	if len(w.waypoints) == 0 {
		return false
	}
	for _, wp := range w.waypoints {
		if wp.edge == nil || wp.node == nil {
			return false
		}
	}
	return true
}

// SetWaypointCount resizes the waypoint chain to n entries. Existing
// entries are kept; new ones must be filled with SetWaypoint.
func (e *Edge) SetWaypointCount(n int) {
	e.mustBe(KindWaypoint, "SetWaypointCount")
	w := e.wp
	wps := make([]waypoint, n)
	copy(wps, w.waypoints)
	w.waypoints = wps
	size := e.graph.robot.ConfigSize()
	w.configs = make([]constraint.Configuration, n+1)
	for i := range w.configs {
		w.configs[i] = make(constraint.Configuration, size)
	}
	w.result = nil
	e.resetCaches()
}

// WaypointCount returns the number of intermediate waypoints.
func (e *Edge) WaypointCount() int {
	e.mustBe(KindWaypoint, "WaypointCount")
	return len(e.wp.waypoints)
}

// SetWaypoint sets the i-th stage of the chain: the edge leading to the i-th
// waypoint node.
func (e *Edge) SetWaypoint(i int, edge *Edge, node *Node) error {
	e.mustBe(KindWaypoint, "SetWaypoint")
	if i < 0 || i >= len(e.wp.waypoints) {
		return fmt.Errorf("%w: edge %q has %d waypoints, got index %d", ErrWaypointIndex, e.name, len(e.wp.waypoints), i)
	}
	e.wp.waypoints[i] = waypoint{edge: edge, node: node}
	e.wp.result = nil
	e.resetCaches()
	return nil
}

// Waypoint returns the i-th stage of the chain.
func (e *Edge) Waypoint(i int) (*Edge, *Node, error) {
	e.mustBe(KindWaypoint, "Waypoint")
	if i < 0 || i >= len(e.wp.waypoints) {
		return nil, nil, fmt.Errorf("%w: edge %q has %d waypoints, got index %d", ErrWaypointIndex, e.name, len(e.wp.waypoints), i)
	}
	wp := e.wp.waypoints[i]
	return wp.edge, wp.node, nil
}

// CreateWaypoint builds a chain of depth+1 synthetic waypoint nodes named
// <baseName>_n<d>. The edge reaching node d is <baseName>_e<d>: a plain edge
// for d = 0 and a waypoint edge through node d-1 otherwise. Every synthetic
// edge starts at From() and inherits the in-node-from flag.
func (e *Edge) CreateWaypoint(depth int, baseName string) {
	e.mustBe(KindWaypoint, "CreateWaypoint")
	g := e.graph
	node := g.addNode(fmt.Sprintf("%s_n%d", baseName, depth), true)
	name := fmt.Sprintf("%s_e%d", baseName, depth)

	kind := KindWaypoint
	if depth == 0 {
		kind = KindPlain
	}
	sub := g.addEdge(name, e.From(), node, kind)
	sub.inNodeFrom = e.inNodeFrom
	if depth > 0 {
		sub.CreateWaypoint(depth-1, baseName)
	}

	e.SetWaypointCount(1)
	e.wp.waypoints[0] = waypoint{edge: sub, node: node}
}

func (e *Edge) mustHaveWaypoints(op string) {
	if !e.wp.complete() {
		panic(&UsageError{
			Op:        op,
			Component: e.name,
			Err:       fmt.Errorf("%w: waypoints are not set", ErrUnsupported),
		})
	}
}

// applyWaypoint walks the chain: each stage projects a copy of q onto its
// waypoint node, offset from the previous stage; the edge itself then
// projects q offset from the last waypoint. Only a complete success is
// remembered for reuse by Build.
func (e *Edge) applyWaypoint(qOffset, q constraint.Configuration, rn *roadmap.Node) bool {
	e.mustHaveWaypoints("ApplyConstraints")
	w := e.wp
	w.result = nil
	w.configs[0].CopyFrom(qOffset)
	for i, wp := range w.waypoints {
		next := w.configs[i+1]
		next.CopyFrom(q)
		if !wp.edge.apply(w.configs[i], next, rn) {
			return false
		}
	}
	if !e.applyDirect(w.configs[len(w.waypoints)], q) {
		return false
	}
	w.result = q.Clone()
	return true
}

// buildWaypoint reuses the waypoint configurations of the last successful
// ApplyConstraints call when it produced q2. Otherwise the waypoints are
// recomputed from q2. Any failure or recomputation forgets that result.
func (e *Edge) buildWaypoint(q1, q2 constraint.Configuration) (steering.Path, bool) {
	e.mustHaveWaypoints("Build")
	w := e.wp
	if w.result == nil || !w.result.Equal(q2) {
		w.result = nil
		w.configs[0].CopyFrom(q1)
		for i, wp := range w.waypoints {
			w.configs[i+1].CopyFrom(q2)
			if !wp.edge.apply(w.configs[i], w.configs[i+1], nil) {
				return nil, false
			}
		}
	}

	pv := steering.NewVector()
	prev := q1
	for i, wp := range w.waypoints {
		p, ok := wp.edge.Build(prev, w.configs[i+1])
		if !ok {
			return nil, false
		}
		pv.AppendPath(p)
		prev = w.configs[i+1]
	}
	last, ok := e.buildDirect(prev, q2)
	if !ok {
		return nil, false
	}
	pv.AppendPath(last)
	return pv, true
}
