package graph

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/specialistvlad/manigraph/internal/model"
	"github.com/specialistvlad/manigraph/internal/steering"
	"github.com/stretchr/testify/require"
)

// The test robot has three prismatic joints x, y and z of size 1.
func newTestRobot(t *testing.T) *model.Robot {
	t.Helper()
	r := model.NewRobot("planar")
	for _, name := range []string{"x", "y", "z"} {
		_, err := r.AddJoint(name, 1)
		require.NoError(t, err)
	}
	return r
}

type graphOptions struct {
	steering steering.Method
	logs     *bytes.Buffer
	opts     []Option
}

// newTestGraph returns a graph with a node selector already installed.
func newTestGraph(t *testing.T, o graphOptions) *Graph {
	t.Helper()
	ctx := ctxlog.Discard(context.Background())
	if o.logs != nil {
		handler := slog.NewTextHandler(o.logs, &slog.HandlerOptions{Level: slog.LevelDebug})
		ctx = ctxlog.WithLogger(context.Background(), slog.New(handler))
	}
	sm := o.steering
	if sm == nil {
		sm = steering.NewStraight()
	}
	opts := append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, o.opts...)
	g := New(ctx, "test", newTestRobot(t), sm, opts...)
	g.CreateNodeSelector("selector")
	return g
}

// fixed is the constraint q[i] = 0.
func fixed(name string, i int) *constraint.Numerical {
	return constraint.NewNumerical(constraint.NewSelection(name, 3, i))
}

// parametric is the constraint q[i] = qOffset[i].
func parametric(name string, i int) *constraint.Numerical {
	return constraint.NewParametric(constraint.NewSelection(name, 3, i))
}

// shifted is the constraint q[i] = 1.
func shifted(name string, i int) *constraint.Numerical {
	return constraint.NewNumerical(constraint.NewFunc(name, 1, func(q constraint.Configuration) []float64 {
		return []float64{q[i] - 1}
	}))
}

func termNames(set *constraint.Set) []string {
	var names []string
	for _, t := range set.ConfigProjector().Terms() {
		names = append(names, t.Numerical.Name())
	}
	return names
}

func lockNames(set *constraint.Set) []string {
	var names []string
	for _, lj := range set.ConfigProjector().LockedJoints() {
		names = append(names, lj.Name())
	}
	return names
}

// countingSteering is a straight-line steering method that counts Compute
// calls across all its copies.
type countingSteering struct {
	calls       *int
	constraints *constraint.Set
}

func newCountingSteering() *countingSteering {
	return &countingSteering{calls: new(int)}
}

func (s *countingSteering) Compute(q1, q2 constraint.Configuration) (steering.Path, bool) {
	*s.calls++
	return steering.NewStraightPath(q1, q2, s.constraints), true
}

func (s *countingSteering) Copy() steering.Method {
	return &countingSteering{calls: s.calls, constraints: s.constraints}
}

func (s *countingSteering) SetConstraints(c *constraint.Set) { s.constraints = c }
func (s *countingSteering) Constraints() *constraint.Set     { return s.constraints }

// requireUsagePanic runs fn and returns the *UsageError it panics with.
func requireUsagePanic(t *testing.T, fn func()) *UsageError {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	ue, ok := got.(*UsageError)
	require.Truef(t, ok, "expected a *UsageError panic, got %v", got)
	require.ErrorIs(t, ue, ErrUnsupported)
	return ue
}
