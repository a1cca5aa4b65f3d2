package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/manigraph/internal/config"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
)

// ErrInvalidTask is returned by Validate.
var ErrInvalidTask = errors.New("task validation failed")

// Validate performs a strict consistency check of a task model against the
// registry: every type is registered, every referenced name is declared and
// every transition connects declared states. All problems are reported at
// once.
func (r *Registry) Validate(ctx context.Context, m *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	if m.Robot == nil {
		errs = append(errs, "no robot declared")
	}
	joints := make(map[string]struct{})
	if m.Robot != nil {
		for _, j := range m.Robot.Joints {
			if _, dup := joints[j.Name]; dup {
				errs = append(errs, fmt.Sprintf("robot '%s': joint '%s' declared twice", m.Robot.Name, j.Name))
			}
			joints[j.Name] = struct{}{}
			if j.Size <= 0 {
				errs = append(errs, fmt.Sprintf("robot '%s': joint '%s' has size %d", m.Robot.Name, j.Name, j.Size))
			}
		}
	}
	checkJoint := func(owner, name string) {
		if _, ok := joints[name]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown joint '%s'", owner, name))
		}
	}

	constraints := make(map[string]struct{})
	for _, c := range m.Constraints {
		owner := fmt.Sprintf("constraint '%s'", c.Name)
		if _, dup := constraints[c.Name]; dup {
			errs = append(errs, owner+": declared twice")
		}
		constraints[c.Name] = struct{}{}
		if _, ok := r.factories[c.Type]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown type '%s' (known: %s)", owner, c.Type, strings.Join(r.Kinds(), ", ")))
		}
		for _, j := range c.Joints {
			checkJoint(owner, j)
		}
	}
	locks := make(map[string]struct{})
	for _, l := range m.Locks {
		owner := fmt.Sprintf("lock '%s'", l.Name)
		if _, dup := locks[l.Name]; dup {
			errs = append(errs, owner+": declared twice")
		}
		locks[l.Name] = struct{}{}
		checkJoint(owner, l.Joint)
	}

	checkRefs := func(owner string, constraintNames, lockNames []string) {
		for _, name := range constraintNames {
			if _, ok := constraints[name]; !ok {
				errs = append(errs, fmt.Sprintf("%s: unknown constraint '%s'", owner, name))
			}
		}
		for _, name := range lockNames {
			if _, ok := locks[name]; !ok {
				errs = append(errs, fmt.Sprintf("%s: unknown lock '%s'", owner, name))
			}
		}
	}
	if m.Graph != nil {
		checkRefs(fmt.Sprintf("graph '%s'", m.Graph.Name), m.Graph.Constraints, m.Graph.Locks)
		if m.Graph.ErrorThreshold < 0 {
			errs = append(errs, fmt.Sprintf("graph '%s': negative error threshold", m.Graph.Name))
		}
		if m.Graph.MaxIterations < 0 {
			errs = append(errs, fmt.Sprintf("graph '%s': negative max iterations", m.Graph.Name))
		}
	}

	for _, g := range m.Grippers {
		checkJoint(fmt.Sprintf("gripper '%s'", g.Name), g.Joint)
	}
	for _, o := range m.Objects {
		owner := fmt.Sprintf("object '%s'", o.Name)
		checkJoint(owner, o.Joint)
		if o.Placement != nil {
			checkJoint(owner, o.Placement.Joint)
		}
		if len(o.Handles) == 0 {
			logger.Warn("Object has no handle and will never be grasped.", "object", o.Name)
		}
	}
	if len(m.Objects) > 0 && len(m.Grippers) == 0 {
		logger.Warn("Objects declared without any gripper; no grasp state will be generated.", "objects", len(m.Objects))
	}

	states := make(map[string]*config.State)
	for _, s := range m.States {
		owner := fmt.Sprintf("state '%s'", s.Name)
		if _, dup := states[s.Name]; dup {
			errs = append(errs, owner+": declared twice")
		}
		states[s.Name] = s
		checkRefs(owner, slices.Concat(s.Constraints, s.PathConstraints), s.Locks)
	}
	checkState := func(owner, name string) *config.State {
		s, ok := states[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown state '%s'", owner, name))
		}
		return s
	}
	for _, t := range m.Transitions {
		owner := fmt.Sprintf("transition '%s'", t.Name)
		checkState(owner, t.From)
		checkState(owner, t.To)
		if t.Weight < 0 {
			errs = append(errs, fmt.Sprintf("%s: negative weight %d", owner, t.Weight))
		}
		for _, v := range t.Via {
			if s := checkState(owner, v); s != nil && !s.Waypoint {
				errs = append(errs, fmt.Sprintf("%s: state '%s' crossed on the way is not a waypoint state", owner, v))
			}
		}
		checkRefs(owner, t.Constraints, t.Locks)
		checkRefs(owner, slices.Concat(t.Condition, t.Param), nil)
		switch t.Kind {
		case config.KindPlain:
			if len(t.Condition) > 0 || len(t.Param) > 0 {
				errs = append(errs, owner+": condition and param need kind 'levelset'")
			}
		case config.KindLevelSet:
			if len(t.Param) == 0 {
				errs = append(errs, owner+": a level set transition needs a param")
			}
			if len(t.Via) > 0 {
				errs = append(errs, owner+": a level set transition cannot cross waypoint states")
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown kind '%s'", owner, t.Kind))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvalidTask, strings.Join(errs, "\n- "))
	}
	logger.Debug("Task validation passed.", "states", len(m.States), "transitions", len(m.Transitions))
	return nil
}
