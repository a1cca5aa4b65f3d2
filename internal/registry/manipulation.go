package registry

import (
	"fmt"

	"github.com/specialistvlad/manigraph/internal/builder"
	"github.com/specialistvlad/manigraph/internal/config"
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/model"
)

// JointGripper is a gripper whose position is one joint of the robot.
type JointGripper struct {
	name      string
	joint     model.Joint
	clearance float64
	size      int
}

// NewJointGripper returns a gripper driven by joint in configurations of size
// configSize.
func NewJointGripper(name string, joint model.Joint, clearance float64, configSize int) *JointGripper {
	return &JointGripper{name: name, joint: joint, clearance: clearance, size: configSize}
}

func (g *JointGripper) Name() string       { return g.name }
func (g *JointGripper) Clearance() float64 { return g.clearance }
func (g *JointGripper) Joint() model.Joint { return g.joint }

// JointHandle is a handle of an object whose pose is one joint. A gripper
// holds it when the gripper joint sits at offset from the object joint.
type JointHandle struct {
	name      string
	object    model.Joint
	offset    float64
	clearance float64
}

// NewJointHandle returns a handle on the object joint, grasped at offset.
func NewJointHandle(name string, object model.Joint, offset, clearance float64) *JointHandle {
	return &JointHandle{name: name, object: object, offset: offset, clearance: clearance}
}

func (h *JointHandle) Name() string       { return h.name }
func (h *JointHandle) Clearance() float64 { return h.clearance }

// CreateGrasp returns gripper - object = offset.
func (h *JointHandle) CreateGrasp(g builder.Gripper) *constraint.Numerical {
	return constraint.NewNumerical(h.relative(g, g.Name()+" grasps "+h.name, h.offset))
}

// CreateGraspComplement returns nil: the grasp pins the gripper joint
// completely, so grasps of the handle cannot be told apart.
func (h *JointHandle) CreateGraspComplement(builder.Gripper) *constraint.Numerical {
	return nil
}

// CreatePreGrasp returns gripper - object = offset + clearance.
func (h *JointHandle) CreatePreGrasp(g builder.Gripper, clearance float64) *constraint.Numerical {
	return constraint.NewNumerical(h.relative(g, g.Name()+" pregrasps "+h.name, h.offset+clearance))
}

func (h *JointHandle) relative(g builder.Gripper, name string, offset float64) constraint.Function {
	jg, ok := g.(*JointGripper)
	if !ok {
		panic(fmt.Sprintf("registry: handle %q can only be grasped by a *JointGripper, got %T", h.name, g))
	}
	value := make([]float64, jg.joint.Size)
	for i := range value {
		value[i] = offset
	}
	fn, err := jointOffset(name, jg.size, []model.Joint{jg.joint, h.object}, value)
	if err != nil {
		panic(fmt.Sprintf("registry: grasp %q: %v", name, err))
	}
	return fn
}

// Manipulation turns the grippers and objects of m into their graph builder
// counterparts. Objects resting with a placement get a foliated placement
// manifold: by their position for strict placements, by a lock for relaxed
// ones.
func Manipulation(m *config.Model, robot model.Device) ([]builder.Object, []builder.Gripper, error) {
	size := robot.ConfigSize()
	grippers := make([]builder.Gripper, 0, len(m.Grippers))
	var gripperJoints []model.Joint
	for _, def := range m.Grippers {
		j, err := robot.Joint(def.Joint)
		if err != nil {
			return nil, nil, fmt.Errorf("gripper %q: %w", def.Name, err)
		}
		grippers = append(grippers, NewJointGripper(def.Name, j, def.Clearance, size))
		gripperJoints = append(gripperJoints, j)
	}

	objects := make([]builder.Object, 0, len(m.Objects))
	for _, def := range m.Objects {
		pose, err := robot.Joint(def.Joint)
		if err != nil {
			return nil, nil, fmt.Errorf("object %q: %w", def.Name, err)
		}
		for i, j := range gripperJoints {
			if j.Size != pose.Size {
				return nil, nil, fmt.Errorf("%w: gripper %q has size %d but object %q has size %d", ErrArguments, m.Grippers[i].Name, j.Size, def.Name, pose.Size)
			}
		}
		o := builder.Object{Name: def.Name}
		for _, h := range def.Handles {
			o.Handles = append(o.Handles, NewJointHandle(h.Name, pose, h.Offset, h.Clearance))
		}
		if def.Placement != nil {
			o.Place, o.PrePlace, err = placement(def.Name, def.Placement, pose, robot)
			if err != nil {
				return nil, nil, err
			}
		}
		objects = append(objects, o)
	}
	return objects, grippers, nil
}

func placement(object string, p *config.Placement, pose model.Joint, robot model.Device) (place, preplace builder.FoliatedManifold, err error) {
	support, err := robot.Joint(p.Joint)
	if err != nil {
		return place, preplace, fmt.Errorf("placement of %q: %w", object, err)
	}
	size := robot.ConfigSize()
	at := func(name string, v float64) (*constraint.Numerical, error) {
		value := make([]float64, support.Size)
		for i := range value {
			value[i] = v
		}
		fn, err := jointValue(name, size, []model.Joint{support}, value)
		if err != nil {
			return nil, err
		}
		return constraint.NewNumerical(fn), nil
	}

	onSupport, err := at(object+"/placement", p.Value)
	if err != nil {
		return place, preplace, err
	}
	var above *constraint.Numerical
	if p.PrePlacement != nil {
		if above, err = at(object+"/preplacement", p.Value+*p.PrePlacement); err != nil {
			return place, preplace, err
		}
	}

	if p.Relaxed {
		lock := constraint.NewLockedJoint(object+"/pose", pose.Rank, make([]float64, pose.Size))
		lock.SetComparison(constraint.Parametric)
		place, preplace = builder.RelaxedPlacementManifold(onSupport, above, []*constraint.LockedJoint{lock})
		return place, preplace, nil
	}
	position, err := jointValue(object+"/position", size, []model.Joint{pose}, nil)
	if err != nil {
		return place, preplace, err
	}
	place, preplace = builder.StrictPlacementManifold(onSupport, above, constraint.NewParametric(position))
	return place, preplace, nil
}
