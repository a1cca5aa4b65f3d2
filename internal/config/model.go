package config

// Model is the unified, format-agnostic representation of a task.
type Model struct {
	Robot       *Robot
	Graph       *Graph
	Constraints []*Constraint
	Locks       []*Lock
	Grippers    []*Gripper
	Objects     []*Object
	States      []*State
	Transitions []*Transition
}

// Robot is the kinematic chain, as an ordered list of joints.
type Robot struct {
	Name   string
	Joints []*Joint
}

// Joint is a named slice of the configuration vector.
type Joint struct {
	Name string
	Size int
}

// Graph holds the graph-wide parameters. Zero values select the projector
// defaults.
type Graph struct {
	Name           string
	ErrorThreshold float64
	MaxIterations  int
	// Constraints and Locks hold everywhere in the graph.
	Constraints []string
	Locks       []string
}

// Constraint is a named instance of a registered constraint type.
type Constraint struct {
	Name   string
	Type   string
	Joints []string
	Value  []float64
	// Parametric constraints take their right-hand side from the
	// configuration they are offset from.
	Parametric bool
}

// Lock fixes a joint to a value.
type Lock struct {
	Name       string
	Joint      string
	Value      []float64
	Parametric bool
}

// Gripper is an end-effector moving along one joint.
type Gripper struct {
	Name      string
	Joint     string
	Clearance float64
}

// Object is a movable object whose pose is one joint.
type Object struct {
	Name      string
	Joint     string
	Handles   []*Handle
	Placement *Placement
}

// Handle is where grippers hold an object: the gripper joint sits at Offset
// from the object joint.
type Handle struct {
	Name      string
	Offset    float64
	Clearance float64
}

// Placement describes the object resting on a support: Joint equals Value.
type Placement struct {
	Joint string
	Value float64
	// PrePlacement is the offset of the approach pose, nil for none.
	PrePlacement *float64
	// Relaxed holds the resting object with a lock instead of a parametric
	// constraint.
	Relaxed bool
}

// State is a hand-written graph node.
type State struct {
	Name            string
	Waypoint        bool
	Constraints     []string
	PathConstraints []string
	Locks           []string
}

// Transition kinds.
const (
	KindPlain    = "plain"
	KindLevelSet = "levelset"
)

// Transition is a hand-written graph edge.
type Transition struct {
	Name   string
	From   string
	To     string
	Weight int
	Kind   string
	Short  bool
	// Via lists waypoint states crossed in order before reaching To.
	Via         []string
	Constraints []string
	Locks       []string
	// Condition and Param describe the foliation of a level-set transition.
	Condition []string
	Param     []string
}
