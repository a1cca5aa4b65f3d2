package builder

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/specialistvlad/manigraph/internal/graph"
	"github.com/specialistvlad/manigraph/internal/model"
	"github.com/specialistvlad/manigraph/internal/steering"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// The bench is q = (g, o, h): gripper position, object position along the
// table and object height above it.
func newBenchRobot(t *testing.T) *model.Robot {
	t.Helper()
	r := model.NewRobot("bench")
	for _, name := range []string{"g", "o", "h"} {
		_, err := r.AddJoint(name, 1)
		require.NoError(t, err)
	}
	return r
}

// testContext returns a context whose logger writes debug text records to
// logs, or drops them when logs is nil.
func testContext(logs *bytes.Buffer) context.Context {
	if logs == nil {
		return ctxlog.Discard(context.Background())
	}
	handler := slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})
	return ctxlog.WithLogger(context.Background(), slog.New(handler))
}

func newBenchGraph(t *testing.T, ctx context.Context) *graph.Graph {
	t.Helper()
	g := graph.New(ctx, "bench", newBenchRobot(t), steering.NewStraight())
	g.CreateNodeSelector("selector")
	return g
}

func affine(name string, row []float64, b float64) *constraint.Numerical {
	return constraint.NewNumerical(constraint.NewAffine(name, mat.NewDense(1, 3, row), []float64{b}))
}

// grasping is g = o.
func grasping() *constraint.Numerical { return affine("grasp", []float64{1, -1, 0}, 0) }

// approaching is g = o + 1.
func approaching() *constraint.Numerical { return affine("pregrasp", []float64{1, -1, 0}, -1) }

// onTable is h = 0.
func onTable() *constraint.Numerical { return affine("on_table", []float64{0, 0, 1}, 0) }

// aboveTable is h = 1.
func aboveTable() *constraint.Numerical { return affine("above_table", []float64{0, 0, 1}, -1) }

// position tells stable poses apart by o.
func position() *constraint.Numerical {
	return constraint.NewParametric(constraint.NewSelection("position", 3, 1))
}

// noOutput is a complement without output.
func noOutput() *constraint.Numerical {
	return constraint.NewNumerical(constraint.NewFunc("none", 0, func(constraint.Configuration) []float64 { return nil }))
}

type testGripper struct {
	name      string
	clearance float64
}

func (g testGripper) Name() string       { return g.name }
func (g testGripper) Clearance() float64 { return g.clearance }

// testHandle hands out the bench constraints and records what it was asked.
type testHandle struct {
	name       string
	clearance  float64
	complement *constraint.Numerical
	noPreGrasp bool

	grasps        int
	lastClearance float64
}

func (h *testHandle) Name() string       { return h.name }
func (h *testHandle) Clearance() float64 { return h.clearance }

func (h *testHandle) CreateGrasp(Gripper) *constraint.Numerical {
	h.grasps++
	return grasping()
}

func (h *testHandle) CreateGraspComplement(Gripper) *constraint.Numerical {
	return h.complement
}

func (h *testHandle) CreatePreGrasp(_ Gripper, clearance float64) *constraint.Numerical {
	h.lastClearance = clearance
	if h.noPreGrasp {
		return nil
	}
	return approaching()
}

func termNames(terms []constraint.Term) []string {
	var names []string
	for _, t := range terms {
		names = append(names, t.Numerical.Name())
	}
	return names
}

func nodeNames(nodes []*graph.Node) []string {
	var names []string
	for _, n := range nodes {
		names = append(names, n.Name())
	}
	return names
}

func requireEdge(t *testing.T, g *graph.Graph, name string) *graph.Edge {
	t.Helper()
	e, ok := g.EdgeByName(name)
	require.Truef(t, ok, "edge %q not found", name)
	return e
}

func requireNode(t *testing.T, g *graph.Graph, name string) *graph.Node {
	t.Helper()
	n, ok := g.NodeByName(name)
	require.Truef(t, ok, "node %q not found", name)
	return n
}
