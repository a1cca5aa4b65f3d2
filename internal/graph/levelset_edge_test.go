package graph

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/metrics"
	"github.com/specialistvlad/manigraph/internal/roadmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placement models an object sliding on a table: placed configurations have
// y = 0 and the leaves of the foliation are indexed by x.
type placement struct {
	g      *Graph
	free   *Node
	placed *Node
	edge   *Edge
	rm     *roadmap.Roadmap
	start  *roadmap.Node
	leaf   *roadmap.Node
}

func newPlacement(t *testing.T, o graphOptions) placement {
	t.Helper()
	g := newTestGraph(t, o)
	ns := g.NodeSelector()
	placed := ns.CreateNode("placed", false)
	placed.AddNumericalConstraint(fixed("on_table", 1), nil)
	free := ns.CreateNode("free", false)

	e := free.LinkTo("place_ls", placed, 1, KindLevelSet)
	e.InsertConditionConstraint(fixed("on_table", 1), nil)
	e.InsertParamConstraint(parametric("position", 0), nil)

	rm := roadmap.New()
	p := placement{
		g:      g,
		free:   free,
		placed: placed,
		edge:   e,
		rm:     rm,
		start:  rm.AddNode(constraint.Configuration{0, 1, 0}),
		leaf:   rm.AddNode(constraint.Configuration{5, 0, 0}),
	}
	h := e.BuildHistogram()
	assert.False(t, h.Add(p.start))
	require.True(t, h.Add(p.leaf))
	return p
}

func TestLevelSetExtraConfigConstraint(t *testing.T) {
	p := newPlacement(t, graphOptions{})
	p.g.AddNumericalConstraint(fixed("graph_z", 2), nil)
	p.edge.AddNumericalConstraint(fixed("edge_y", 1), nil)
	p.edge.InsertParamLock(constraint.NewLockedJoint("param_lock", 2, []float64{0}))

	set := p.edge.ExtraConfigConstraint()
	assert.Same(t, set, p.edge.ExtraConfigConstraint())
	assert.Equal(t, "place_ls/extra", set.Name())
	assert.Equal(t, []string{"graph_z", "position", "edge_y", "on_table"}, termNames(set))
	assert.Equal(t, []string{"param_lock"}, lockNames(set))

	params, locks := p.edge.ParamConstraints()
	assert.Len(t, params, 1)
	assert.Len(t, locks, 1)
	conds, condLocks := p.edge.ConditionConstraints()
	assert.Len(t, conds, 1)
	assert.Empty(t, condLocks)
}

func TestLevelSetApplyConstraintsFromNode(t *testing.T) {
	t.Run("projects onto an unreached leaf", func(t *testing.T) {
		p := newPlacement(t, graphOptions{})
		q := constraint.Configuration{0, 1, 2}
		require.True(t, p.edge.ApplyConstraintsFromNode(p.start, q))
		assert.InDelta(t, 5, q[0], 1e-4)
		assert.InDelta(t, 0, q[1], 1e-4)
		assert.InDelta(t, 2, q[2], 1e-12)
		assert.True(t, p.placed.Contains(q))
	})

	t.Run("empty distribution leaves q untouched", func(t *testing.T) {
		var logs bytes.Buffer
		reg := metrics.NewRegistry()
		p := newPlacement(t, graphOptions{logs: &logs, opts: []Option{WithMetrics(reg)}})
		p.rm.Connect(p.start, p.leaf)

		q := constraint.Configuration{0, 1, 2}
		assert.False(t, p.edge.ApplyConstraintsFromNode(p.start, q))
		assert.Equal(t, constraint.Configuration{0, 1, 2}, q)
		assert.Contains(t, logs.String(), "Distrib is empty.")
		assert.Equal(t, 1.0, testutil.ToFloat64(reg.LevelSetMissesTotal.WithLabelValues("place_ls")))
	})

	t.Run("no histogram", func(t *testing.T) {
		p := newPlacement(t, graphOptions{})
		p.edge.SetHistogram(nil)
		assert.Nil(t, p.edge.Histogram())
		q := constraint.Configuration{0, 1, 2}
		assert.False(t, p.edge.ApplyConstraintsFromNode(p.start, q))
		assert.Equal(t, constraint.Configuration{0, 1, 2}, q)
	})
}

func TestLevelSetApplyConstraintsPanics(t *testing.T) {
	p := newPlacement(t, graphOptions{})
	ue := requireUsagePanic(t, func() {
		p.edge.ApplyConstraints(constraint.Configuration{0, 1, 0}, constraint.Configuration{0, 1, 0})
	})
	assert.Equal(t, "ApplyConstraints", ue.Op)
	assert.Equal(t, "place_ls", ue.Component)
	assert.Contains(t, ue.Error(), "need to know which connected component to use")
}

func TestLevelSetInsideWaypointChain(t *testing.T) {
	p := newPlacement(t, graphOptions{})
	ns := p.g.NodeSelector()
	released := ns.CreateNode("released", false)
	released.AddNumericalConstraint(fixed("on_table", 1), nil)
	released.AddNumericalConstraint(fixed("z", 2), nil)

	e := p.free.LinkTo("place_and_release", released, 1, KindWaypoint)
	e.SetWaypointCount(1)
	require.NoError(t, e.SetWaypoint(0, p.edge, p.placed))
	e.AddNumericalConstraint(parametric("keep_x", 0), nil)

	requireUsagePanic(t, func() {
		e.ApplyConstraints(constraint.Configuration{0, 1, 0}, constraint.Configuration{0, 1, 2})
	})

	q := constraint.Configuration{0, 1, 2}
	require.True(t, e.ApplyConstraintsFromNode(p.start, q))
	assert.InDelta(t, 5, q[0], 1e-4)
	assert.True(t, released.Contains(q))
}
