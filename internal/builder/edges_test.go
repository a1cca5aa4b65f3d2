package builder

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/graph"
	"github.com/specialistvlad/manigraph/internal/steering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bench is a graph with the object resting on the table in "placed" and
// held by the gripper in "grasped".
type bench struct {
	ctx     context.Context
	g       *graph.Graph
	placed  *graph.Node
	grasped *graph.Node

	grasp, pregrasp, place, preplace FoliatedManifold
}

func newBench(t *testing.T, logs *bytes.Buffer) bench {
	t.Helper()
	ctx := testContext(logs)
	g := newBenchGraph(t, ctx)
	b := bench{ctx: ctx, g: g}
	b.grasp, b.pregrasp = GraspManifold(testGripper{name: "hand"}, &testHandle{name: "top"})
	b.place, b.preplace = StrictPlacementManifold(onTable(), aboveTable(), position())

	ns := g.NodeSelector()
	b.placed = ns.CreateNode("placed", false)
	b.place.AddToNode(b.placed)
	b.grasped = ns.CreateNode("grasped", false)
	b.grasp.AddToNode(b.grasped)
	return b
}

func (b bench) spec(stages Stages) EdgeSpec {
	return EdgeSpec{
		ForwName: "pick",
		BackName: "drop",
		From:     b.placed,
		To:       b.grasped,
		WForw:    1,
		WBack:    2,
		Grasp:    b.grasp,
		PreGrasp: b.pregrasp,
		Place:    b.place,
		PrePlace: b.preplace,
		Stages:   stages,
	}
}

func requireWaypoint(t *testing.T, e *graph.Edge, i int, edgeName, nodeName string) {
	t.Helper()
	we, wn, err := e.Waypoint(i)
	require.NoError(t, err)
	require.NotNil(t, we)
	require.NotNil(t, wn)
	assert.Equal(t, edgeName, we.Name())
	assert.Equal(t, nodeName, wn.Name())
}

func requireSegments(t *testing.T, p steering.Path, n int) *steering.Vector {
	t.Helper()
	pv, ok := p.(*steering.Vector)
	require.Truef(t, ok, "expected a path vector, got %T", p)
	require.Equal(t, n, pv.NumberPaths())
	return pv
}

func TestCreateEdgesWithPreGraspAndPrePlace(t *testing.T) {
	b := newBench(t, nil)
	pair, err := CreateEdges(b.ctx, b.spec(Stages{PreGrasp: true, Place: true}))
	require.NoError(t, err)

	t.Run("shape", func(t *testing.T) {
		assert.Equal(t, graph.KindWaypoint, pair.Forward.Kind())
		assert.Equal(t, graph.KindWaypoint, pair.Backward.Kind())
		assert.Equal(t, 3, pair.Forward.WaypointCount())
		assert.Equal(t, 3, pair.Backward.WaypointCount())
		assert.Same(t, b.placed, pair.Forward.From())
		assert.Same(t, b.grasped, pair.Forward.To())

		assert.Equal(t, []string{"placed", "grasped"}, nodeNames(b.g.NodeSelector().Nodes()))
		for _, name := range []string{"pick_pregrasp", "pick_intersec", "pick_preplace"} {
			assert.True(t, requireNode(t, b.g, name).IsWaypoint(), name)
		}
		assert.Len(t, b.g.EdgesBetween(b.placed, b.grasped), 1)
		assert.Len(t, b.g.EdgesBetween(b.grasped, b.placed), 1)

		requireWaypoint(t, pair.Forward, 0, "pick_e01", "pick_pregrasp")
		requireWaypoint(t, pair.Forward, 1, "pick_e12", "pick_intersec")
		requireWaypoint(t, pair.Forward, 2, "pick_e23", "pick_preplace")
		requireWaypoint(t, pair.Backward, 0, "pick_e43", "pick_preplace")
		requireWaypoint(t, pair.Backward, 1, "pick_e32", "pick_intersec")
		requireWaypoint(t, pair.Backward, 2, "pick_e21", "pick_pregrasp")
	})

	t.Run("constraints by role", func(t *testing.T) {
		assert.Equal(t, []string{"on_table", "pregrasp"}, termNames(requireNode(t, b.g, "pick_pregrasp").NumericalConstraints()))
		assert.Equal(t, []string{"on_table", "grasp"}, termNames(requireNode(t, b.g, "pick_intersec").NumericalConstraints()))
		assert.Equal(t, []string{"above_table", "grasp"}, termNames(requireNode(t, b.g, "pick_preplace").NumericalConstraints()))

		assert.Equal(t, []string{"position"}, termNames(requireEdge(t, b.g, "pick_e12").NumericalConstraints()))
		assert.Empty(t, requireEdge(t, b.g, "pick_e23").NumericalConstraints())
		assert.Equal(t, []string{"position"}, termNames(pair.Backward.NumericalConstraints()))

		assert.True(t, requireEdge(t, b.g, "pick_e12").IsShort())
		assert.True(t, requireEdge(t, b.g, "pick_e32").IsShort())
		assert.False(t, requireEdge(t, b.g, "pick_e01").IsShort())
		assert.Same(t, b.placed, requireEdge(t, b.g, "pick_e12").Node())
		assert.Same(t, b.grasped, requireEdge(t, b.g, "pick_e23").Node())
		assert.Same(t, b.grasped, pair.Forward.Node())
		assert.Same(t, b.placed, pair.Backward.Node())
	})

	t.Run("endpoints are left to the caller", func(t *testing.T) {
		assert.Equal(t, []string{"on_table"}, termNames(b.placed.NumericalConstraints()))
		assert.Equal(t, []string{"grasp"}, termNames(b.grasped.NumericalConstraints()))
	})

	t.Run("pick up", func(t *testing.T) {
		p, ok := pair.Forward.Build(constraint.Configuration{5, 2, 0}, constraint.Configuration{2, 2, 1})
		require.True(t, ok)
		pv := requireSegments(t, p, 4)
		assert.InDeltaSlice(t, []float64{3, 2, 0}, pv.PathAt(0).End(), 1e-6)
		assert.InDeltaSlice(t, []float64{2, 2, 0}, pv.PathAt(1).End(), 1e-6)
		assert.InDeltaSlice(t, []float64{2, 2, 1}, pv.PathAt(2).End(), 1e-6)
	})

	t.Run("put down", func(t *testing.T) {
		p, ok := pair.Backward.Build(constraint.Configuration{3, 3, 2}, constraint.Configuration{2, 2, 0})
		require.True(t, ok)
		pv := requireSegments(t, p, 4)
		assert.InDeltaSlice(t, []float64{2, 2, 1}, pv.PathAt(0).End(), 1e-6)
		assert.InDeltaSlice(t, []float64{2, 2, 0}, pv.PathAt(1).End(), 1e-6)
		assert.InDeltaSlice(t, []float64{3, 2, 0}, pv.PathAt(2).End(), 1e-6)
	})

	t.Run("endpoints outside the manifolds", func(t *testing.T) {
		_, ok := pair.Forward.Build(constraint.Configuration{5, 2, 0.5}, constraint.Configuration{2, 2, 1})
		assert.False(t, ok, "start is off the table")

		_, ok = pair.Backward.Build(constraint.Configuration{3, 3, 2}, constraint.Configuration{2, 2, 0.5})
		assert.False(t, ok, "target is off the table")
	})
}

func TestCreateEdgesLevelSets(t *testing.T) {
	var logs bytes.Buffer
	b := newBench(t, &logs)
	spec := b.spec(Stages{PreGrasp: true, Place: true})
	spec.LevelSetGrasp = true
	spec.LevelSetPlace = true
	pair, err := CreateEdges(b.ctx, spec)
	require.NoError(t, err)

	t.Run("unfoliated grasp falls back to a plain edge", func(t *testing.T) {
		assert.Contains(t, logs.String(), "Level set edge requested but the target foliation is not specified; using a plain edge.")
		assert.Contains(t, logs.String(), "role=grasping")
		_, ok := b.g.EdgeByName("pick_e12_ls")
		assert.False(t, ok)
		requireWaypoint(t, pair.Forward, 1, "pick_e12", "pick_intersec")
	})

	t.Run("placement leaves are explored", func(t *testing.T) {
		ls := requireEdge(t, b.g, "pick_e32_ls")
		assert.Equal(t, graph.KindLevelSet, ls.Kind())
		assert.True(t, ls.IsShort())
		assert.Same(t, b.grasped, ls.Node())
		requireWaypoint(t, pair.Backward, 1, "pick_e32_ls", "pick_intersec")

		cond, _ := ls.ConditionConstraints()
		param, _ := ls.ParamConstraints()
		assert.Equal(t, []string{"on_table"}, termNames(cond))
		assert.Equal(t, []string{"position"}, termNames(param))
		assert.NotNil(t, ls.Histogram())
		assert.Empty(t, b.g.EdgesBetween(requireNode(t, b.g, "pick_preplace"), requireNode(t, b.g, "pick_intersec")))
	})
}

func TestCreateEdgesPlaceOnly(t *testing.T) {
	b := newBench(t, nil)
	pair, err := CreateEdges(b.ctx, b.spec(Stages{Place: true}))
	require.NoError(t, err)

	assert.Equal(t, 1, pair.Forward.WaypointCount())
	assert.Equal(t, 1, pair.Backward.WaypointCount())
	assert.True(t, requireNode(t, b.g, "pick_intersec").IsWaypoint())
	_, ok := b.g.NodeByName("pick_pregrasp")
	assert.False(t, ok)

	requireWaypoint(t, pair.Forward, 0, "pick_e01", "pick_intersec")
	requireWaypoint(t, pair.Backward, 0, "pick_e21", "pick_intersec")
	assert.Equal(t, []string{"on_table", "grasp"}, termNames(requireNode(t, b.g, "pick_intersec").NumericalConstraints()))

	// Without a preplacement the object is held on the table.
	p, ok := pair.Forward.Build(constraint.Configuration{5, 2, 0}, constraint.Configuration{2, 2, 0})
	require.True(t, ok)
	pv := requireSegments(t, p, 2)
	assert.InDeltaSlice(t, []float64{2, 2, 0}, pv.PathAt(0).End(), 1e-6)

	_, ok = pair.Forward.Build(constraint.Configuration{5, 2, 0}, constraint.Configuration{2, 2, 1})
	assert.False(t, ok)
}

func TestCreateEdgesPreGraspOnly(t *testing.T) {
	var logs bytes.Buffer
	b := newBench(t, &logs)
	b.grasp.NCFol = []constraint.Term{{Numerical: position()}}
	spec := b.spec(Stages{PreGrasp: true})
	spec.LevelSetGrasp = true
	pair, err := CreateEdges(b.ctx, spec)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "Foliated grasp without placement is not supported; using plain edges.")
	for _, e := range b.g.Edges() {
		assert.NotEqual(t, graph.KindLevelSet, e.Kind(), e.Name())
	}
	assert.True(t, requireNode(t, b.g, "pick_pregrasp").IsWaypoint())
	assert.Equal(t, []string{"pregrasp"}, termNames(requireNode(t, b.g, "pick_pregrasp").NumericalConstraints()))
	requireWaypoint(t, pair.Forward, 0, "pick_e01", "pick_pregrasp")
	requireWaypoint(t, pair.Backward, 0, "pick_e21", "pick_pregrasp")
	assert.True(t, pair.Forward.IsShort())
	assert.Same(t, b.placed, pair.Forward.Node())
}

func TestCreateEdgesGraspOnly(t *testing.T) {
	sub := FoliatedManifold{NCFol: []constraint.Term{{Numerical: affine("keep", []float64{0, 0, 1}, 0)}}}

	t.Run("plain", func(t *testing.T) {
		b := newBench(t, nil)
		spec := b.spec(Stages{})
		spec.Submanifold = sub
		pair, err := CreateEdges(b.ctx, spec)
		require.NoError(t, err)

		assert.Len(t, b.g.Nodes(), 2)
		assert.Len(t, b.g.Edges(), 2)
		assert.Equal(t, graph.KindPlain, pair.Forward.Kind())
		assert.Equal(t, graph.KindPlain, pair.Backward.Kind())
		assert.Same(t, b.placed, pair.Forward.Node())
		assert.Same(t, b.placed, pair.Backward.Node())
		assert.Equal(t, []string{"keep"}, termNames(pair.Forward.NumericalConstraints()))
		assert.Equal(t, []string{"keep"}, termNames(pair.Backward.NumericalConstraints()))
		assert.Equal(t, []*graph.Edge{pair.Forward}, b.g.EdgesBetween(b.placed, b.grasped))
		assert.Equal(t, []*graph.Edge{pair.Backward}, b.g.EdgesBetween(b.grasped, b.placed))
	})

	t.Run("foliated grasp", func(t *testing.T) {
		b := newBench(t, nil)
		spec := b.spec(Stages{})
		spec.Grasp.NCFol = []constraint.Term{{Numerical: position()}}
		spec.LevelSetGrasp = true
		pair, err := CreateEdges(b.ctx, spec)
		require.NoError(t, err)

		assert.Equal(t, graph.KindLevelSet, pair.Forward.Kind())
		assert.Equal(t, graph.KindPlain, pair.Backward.Kind())
		assert.NotNil(t, pair.Forward.Histogram())
		cond, _ := pair.Forward.ConditionConstraints()
		param, _ := pair.Forward.ParamConstraints()
		assert.Equal(t, []string{"grasp"}, termNames(cond))
		assert.Equal(t, []string{"position"}, termNames(param))
	})
}

func TestCreateEdgesErrors(t *testing.T) {
	b := newBench(t, nil)

	t.Run("missing node", func(t *testing.T) {
		spec := b.spec(Stages{})
		spec.To = nil
		_, err := CreateEdges(b.ctx, spec)
		assert.ErrorIs(t, err, ErrMissingNode)
	})

	t.Run("nodes of two graphs", func(t *testing.T) {
		other := newBenchGraph(t, b.ctx)
		spec := b.spec(Stages{})
		spec.To = other.NodeSelector().CreateNode("elsewhere", false)
		_, err := CreateEdges(b.ctx, spec)
		assert.ErrorIs(t, err, ErrForeignNode)
		assert.Empty(t, other.Edges())
	})

	assert.Empty(t, b.g.Edges())
}
