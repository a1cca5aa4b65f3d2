package hcltask

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Robots      []*robotBlock      `hcl:"robot,block"`
	Graphs      []*graphBlock      `hcl:"graph,block"`
	Constraints []*constraintBlock `hcl:"constraint,block"`
	Locks       []*lockBlock       `hcl:"lock,block"`
	Grippers    []*gripperBlock    `hcl:"gripper,block"`
	Objects     []*objectBlock     `hcl:"object,block"`
	States      []*stateBlock      `hcl:"state,block"`
	Transitions []*transitionBlock `hcl:"transition,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

type robotBlock struct {
	Name   string        `hcl:"name,label"`
	Joints []*jointBlock `hcl:"joint,block"`
}

type jointBlock struct {
	Name string `hcl:"name,label"`
	Size *int   `hcl:"size,optional"`
}

type graphBlock struct {
	Name           string   `hcl:"name,label"`
	ErrorThreshold *float64 `hcl:"error_threshold,optional"`
	MaxIterations  *int     `hcl:"max_iterations,optional"`
	Constraints    []string `hcl:"constraints,optional"`
	Locks          []string `hcl:"locks,optional"`
}

type constraintBlock struct {
	Name       string         `hcl:"name,label"`
	Type       string         `hcl:"type"`
	Joints     []string       `hcl:"joints"`
	Value      hcl.Expression `hcl:"value,optional"`
	Parametric bool           `hcl:"parametric,optional"`
}

type lockBlock struct {
	Name       string         `hcl:"name,label"`
	Joint      string         `hcl:"joint"`
	Value      hcl.Expression `hcl:"value,optional"`
	Parametric bool           `hcl:"parametric,optional"`
}

type gripperBlock struct {
	Name      string  `hcl:"name,label"`
	Joint     string  `hcl:"joint"`
	Clearance float64 `hcl:"clearance,optional"`
}

type objectBlock struct {
	Name      string          `hcl:"name,label"`
	Joint     string          `hcl:"joint"`
	Handles   []*handleBlock  `hcl:"handle,block"`
	Placement *placementBlock `hcl:"placement,block"`
}

type handleBlock struct {
	Name      string  `hcl:"name,label"`
	Offset    float64 `hcl:"offset,optional"`
	Clearance float64 `hcl:"clearance,optional"`
}

type placementBlock struct {
	Joint        string   `hcl:"joint"`
	Value        float64  `hcl:"value,optional"`
	PrePlacement *float64 `hcl:"preplacement,optional"`
	Relaxed      bool     `hcl:"relaxed,optional"`
}

type stateBlock struct {
	Name            string   `hcl:"name,label"`
	Waypoint        bool     `hcl:"waypoint,optional"`
	Constraints     []string `hcl:"constraints,optional"`
	PathConstraints []string `hcl:"path_constraints,optional"`
	Locks           []string `hcl:"locks,optional"`
}

type transitionBlock struct {
	Name        string   `hcl:"name,label"`
	From        string   `hcl:"from"`
	To          string   `hcl:"to"`
	Weight      *int     `hcl:"weight,optional"`
	Kind        *string  `hcl:"kind,optional"`
	Short       bool     `hcl:"short,optional"`
	Via         []string `hcl:"via,optional"`
	Constraints []string `hcl:"constraints,optional"`
	Locks       []string `hcl:"locks,optional"`
	Condition   []string `hcl:"condition,optional"`
	Param       []string `hcl:"param,optional"`
}
