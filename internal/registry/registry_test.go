package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/manigraph/internal/builder"
	"github.com/specialistvlad/manigraph/internal/config"
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/specialistvlad/manigraph/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRobot returns q = (g, o, h, arm0, arm1).
func newTestRobot(t *testing.T) *model.Robot {
	t.Helper()
	r := model.NewRobot("bench")
	for _, j := range []struct {
		name string
		size int
	}{{"g", 1}, {"o", 1}, {"h", 1}, {"arm", 2}} {
		_, err := r.AddJoint(j.name, j.size)
		require.NoError(t, err)
	}
	return r
}

func joint(t *testing.T, r *model.Robot, name string) model.Joint {
	t.Helper()
	j, err := r.Joint(name)
	require.NoError(t, err)
	return j
}

type extraModule struct{}

func (extraModule) Register(r *Registry) {
	r.RegisterFactory("zero", func(name string, size int, _ []model.Joint, _ []float64) (constraint.Function, error) {
		return constraint.NewFunc(name, 1, func(constraint.Configuration) []float64 { return []float64{0} }), nil
	})
}

func TestRegistry(t *testing.T) {
	r := New(extraModule{})
	assert.Equal(t, []string{JointOffset, JointValue, "zero"}, r.Kinds())

	_, ok := r.Factory(JointValue)
	assert.True(t, ok)
	_, ok = r.Factory("spline")
	assert.False(t, ok)

	assert.PanicsWithValue(t, "constraint factory with name 'joint_value' already registered", func() {
		r.RegisterFactory(JointValue, jointValue)
	})
}

func TestBuiltins(t *testing.T) {
	robot := newTestRobot(t)
	g, o, arm := joint(t, robot, "g"), joint(t, robot, "o"), joint(t, robot, "arm")
	q := constraint.Configuration{3, 1, 0, 4, 5}

	t.Run("joint value", func(t *testing.T) {
		fn, err := jointValue("arm_at", 5, []model.Joint{arm}, []float64{4, 2})
		require.NoError(t, err)
		assert.Equal(t, "arm_at", fn.Name())
		assert.InDeltaSlice(t, []float64{0, 3}, fn.Value(q), 1e-12)

		fn, err = jointValue("g_zero", 5, []model.Joint{g}, nil)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{3}, fn.Value(q), 1e-12)
	})

	t.Run("joint offset", func(t *testing.T) {
		fn, err := jointOffset("grasp", 5, []model.Joint{g, o}, []float64{2})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0}, fn.Value(q), 1e-12)
	})

	t.Run("arguments", func(t *testing.T) {
		_, err := jointValue("bad", 5, []model.Joint{g, o}, nil)
		assert.ErrorIs(t, err, ErrArguments)
		_, err = jointValue("bad", 5, []model.Joint{arm}, []float64{1})
		assert.ErrorIs(t, err, ErrArguments)
		_, err = jointOffset("bad", 5, []model.Joint{g}, nil)
		assert.ErrorIs(t, err, ErrArguments)
		_, err = jointOffset("bad", 5, []model.Joint{g, arm}, nil)
		assert.ErrorIs(t, err, ErrArguments)
	})
}

func taskModel() *config.Model {
	return &config.Model{
		Robot: &config.Robot{Name: "bench", Joints: []*config.Joint{
			{Name: "g", Size: 1}, {Name: "o", Size: 1}, {Name: "h", Size: 1}, {Name: "arm", Size: 2},
		}},
		Graph: &config.Graph{Name: "task", Locks: []string{"arm_rest"}},
		Constraints: []*config.Constraint{
			{Name: "on_table", Type: JointValue, Joints: []string{"h"}},
			{Name: "position", Type: JointValue, Joints: []string{"o"}, Parametric: true},
			{Name: "grasp", Type: JointOffset, Joints: []string{"g", "o"}},
		},
		Locks: []*config.Lock{
			{Name: "arm_rest", Joint: "arm", Value: []float64{1, 2}},
			{Name: "hold_o", Joint: "o", Parametric: true},
		},
		States: []*config.State{
			{Name: "placed", Constraints: []string{"on_table"}, PathConstraints: []string{"on_table"}},
			{Name: "above", Waypoint: true},
			{Name: "grasped", Constraints: []string{"grasp"}},
		},
		Transitions: []*config.Transition{
			{Name: "pick", From: "placed", To: "grasped", Kind: config.KindPlain, Via: []string{"above"}, Constraints: []string{"position"}},
			{Name: "slide", From: "placed", To: "placed", Kind: config.KindLevelSet, Condition: []string{"on_table"}, Param: []string{"position"}},
		},
	}
}

func TestInstantiate(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	robot := newTestRobot(t)
	c, err := New().Instantiate(ctx, taskModel(), robot)
	require.NoError(t, err)

	ncs, err := c.Constraints([]string{"grasp", "position"})
	require.NoError(t, err)
	require.Len(t, ncs, 2)
	assert.Equal(t, "grasp", ncs[0].Name())
	assert.Equal(t, constraint.Fixed, ncs[0].Comparison())
	assert.Equal(t, constraint.Parametric, ncs[1].Comparison())

	again, err := c.Constraints([]string{"grasp"})
	require.NoError(t, err)
	assert.Same(t, ncs[0], again[0])

	locks, err := c.Locks([]string{"arm_rest", "hold_o"})
	require.NoError(t, err)
	assert.Equal(t, 3, locks[0].Rank())
	assert.Equal(t, []float64{1, 2}, locks[0].Value())
	assert.Equal(t, []float64{0}, locks[1].Value())
	assert.Equal(t, constraint.Parametric, locks[1].Comparison())

	_, err = c.Constraints([]string{"missing"})
	assert.ErrorIs(t, err, ErrUnknownConstraint)
	_, err = c.Locks([]string{"missing"})
	assert.ErrorIs(t, err, ErrUnknownLock)

	t.Run("errors", func(t *testing.T) {
		m := taskModel()
		m.Constraints[0].Type = "spline"
		_, err := New().Instantiate(ctx, m, robot)
		assert.ErrorIs(t, err, ErrUnknownType)

		m = taskModel()
		m.Constraints[0].Joints = []string{"wrist"}
		_, err = New().Instantiate(ctx, m, robot)
		assert.ErrorIs(t, err, model.ErrJointNotFound)

		m = taskModel()
		m.Locks[0].Value = []float64{1}
		_, err = New().Instantiate(ctx, m, robot)
		assert.ErrorIs(t, err, ErrArguments)
	})
}

func TestValidate(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	r := New()
	require.NoError(t, r.Validate(ctx, taskModel()))

	m := taskModel()
	m.Constraints[0].Type = "spline"
	m.Graph.Locks = append(m.Graph.Locks, "nope")
	m.States[0].PathConstraints = []string{"floating"}
	m.Transitions[0].Via = []string{"grasped"}
	m.Transitions[1].Param = nil
	m.Transitions[1].Weight = -1
	m.Transitions = append(m.Transitions, &config.Transition{Name: "jump", From: "placed", To: "moon", Kind: "teleport"})

	err := r.Validate(ctx, m)
	require.ErrorIs(t, err, ErrInvalidTask)
	for _, want := range []string{
		"constraint 'on_table': unknown type 'spline' (known: joint_offset, joint_value)",
		"graph 'task': unknown lock 'nope'",
		"state 'placed': unknown constraint 'floating'",
		"transition 'pick': state 'grasped' crossed on the way is not a waypoint state",
		"transition 'slide': a level set transition needs a param",
		"transition 'slide': negative weight -1",
		"transition 'jump': unknown state 'moon'",
		"transition 'jump': unknown kind 'teleport'",
	} {
		assert.Contains(t, err.Error(), want)
	}

	t.Run("no robot", func(t *testing.T) {
		err := r.Validate(ctx, &config.Model{})
		require.ErrorIs(t, err, ErrInvalidTask)
		assert.Contains(t, err.Error(), "no robot declared")
	})
}

func TestManipulation(t *testing.T) {
	robot := newTestRobot(t)
	preplacement := 1.0
	m := &config.Model{
		Grippers: []*config.Gripper{{Name: "hand", Joint: "g", Clearance: 0.5}},
		Objects: []*config.Object{
			{
				Name:      "box",
				Joint:     "o",
				Handles:   []*config.Handle{{Name: "top", Offset: 0.1, Clearance: 0.25}},
				Placement: &config.Placement{Joint: "h", Value: 0, PrePlacement: &preplacement},
			},
			{
				Name:      "cup",
				Joint:     "o",
				Placement: &config.Placement{Joint: "h", Relaxed: true},
			},
		},
	}

	objects, grippers, err := Manipulation(m, robot)
	require.NoError(t, err)
	require.Len(t, grippers, 1)
	require.Len(t, objects, 2)

	t.Run("grasp", func(t *testing.T) {
		grasp, pregrasp := builder.GraspManifold(grippers[0], objects[0].Handles[0])
		require.Len(t, grasp.NC, 1)
		assert.Equal(t, "hand grasps top", grasp.NC[0].Numerical.Name())
		assert.False(t, grasp.IsFoliated())

		q := constraint.Configuration{2.1, 2, 0, 0, 0}
		assert.InDeltaSlice(t, []float64{0}, grasp.NC[0].Numerical.Function().Value(q), 1e-12)

		require.Len(t, pregrasp.NC, 1)
		assert.Equal(t, "hand pregrasps top", pregrasp.NC[0].Numerical.Name())
		q = constraint.Configuration{2.85, 2, 0, 0, 0}
		assert.InDeltaSlice(t, []float64{0}, pregrasp.NC[0].Numerical.Function().Value(q), 1e-12)
	})

	t.Run("strict placement", func(t *testing.T) {
		box := objects[0]
		require.Len(t, box.Place.NCFol, 1)
		assert.Equal(t, "box/position", box.Place.NCFol[0].Numerical.Name())
		assert.Equal(t, constraint.Parametric, box.Place.NCFol[0].Numerical.Comparison())
		require.Len(t, box.PrePlace.NC, 1)
		assert.Equal(t, "box/preplacement", box.PrePlace.NC[0].Numerical.Name())
	})

	t.Run("relaxed placement", func(t *testing.T) {
		cup := objects[1]
		assert.Empty(t, cup.Handles)
		require.Len(t, cup.Place.LJFol, 1)
		assert.Equal(t, "cup/pose", cup.Place.LJFol[0].Name())
		assert.Equal(t, constraint.Parametric, cup.Place.LJFol[0].Comparison())
		assert.True(t, cup.PrePlace.Empty())
	})

	t.Run("joint sizes must match", func(t *testing.T) {
		m := &config.Model{
			Grippers: []*config.Gripper{{Name: "hand", Joint: "arm"}},
			Objects:  []*config.Object{{Name: "box", Joint: "o"}},
		}
		_, _, err := Manipulation(m, robot)
		assert.ErrorIs(t, err, ErrArguments)
	})

	t.Run("foreign gripper", func(t *testing.T) {
		h := NewJointHandle("top", joint(t, robot, "o"), 0, 0)
		assert.Panics(t, func() { h.CreateGrasp(otherGripper{}) })
	})
}

type otherGripper struct{}

func (otherGripper) Name() string       { return "other" }
func (otherGripper) Clearance() float64 { return 0 }
