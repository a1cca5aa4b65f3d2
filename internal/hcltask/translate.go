package hcltask

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/manigraph/internal/config"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

const (
	defaultJointSize = 1
	defaultWeight    = 1
)

func translateRobot(r *robotBlock) *config.Robot {
	out := &config.Robot{Name: r.Name}
	for _, j := range r.Joints {
		size := defaultJointSize
		if j.Size != nil {
			size = *j.Size
		}
		out.Joints = append(out.Joints, &config.Joint{Name: j.Name, Size: size})
	}
	return out
}

func translateGraph(g *graphBlock) *config.Graph {
	out := &config.Graph{Name: g.Name, Constraints: g.Constraints, Locks: g.Locks}
	if g.ErrorThreshold != nil {
		out.ErrorThreshold = *g.ErrorThreshold
	}
	if g.MaxIterations != nil {
		out.MaxIterations = *g.MaxIterations
	}
	return out
}

func translateConstraint(ctx context.Context, c *constraintBlock) (*config.Constraint, error) {
	value, err := decodeVector(ctx, c.Value, "value")
	if err != nil {
		return nil, fmt.Errorf("constraint %q: %w", c.Name, err)
	}
	return &config.Constraint{
		Name:       c.Name,
		Type:       c.Type,
		Joints:     c.Joints,
		Value:      value,
		Parametric: c.Parametric,
	}, nil
}

func translateLock(ctx context.Context, l *lockBlock) (*config.Lock, error) {
	value, err := decodeVector(ctx, l.Value, "value")
	if err != nil {
		return nil, fmt.Errorf("lock %q: %w", l.Name, err)
	}
	return &config.Lock{Name: l.Name, Joint: l.Joint, Value: value, Parametric: l.Parametric}, nil
}

func translateObject(o *objectBlock) *config.Object {
	out := &config.Object{Name: o.Name, Joint: o.Joint}
	for _, h := range o.Handles {
		out.Handles = append(out.Handles, &config.Handle{Name: h.Name, Offset: h.Offset, Clearance: h.Clearance})
	}
	if p := o.Placement; p != nil {
		out.Placement = &config.Placement{
			Joint:        p.Joint,
			Value:        p.Value,
			PrePlacement: p.PrePlacement,
			Relaxed:      p.Relaxed,
		}
	}
	return out
}

func translateState(s *stateBlock) *config.State {
	return &config.State{
		Name:            s.Name,
		Waypoint:        s.Waypoint,
		Constraints:     s.Constraints,
		PathConstraints: s.PathConstraints,
		Locks:           s.Locks,
	}
}

func translateTransition(t *transitionBlock) *config.Transition {
	out := &config.Transition{
		Name:        t.Name,
		From:        t.From,
		To:          t.To,
		Weight:      defaultWeight,
		Kind:        config.KindPlain,
		Short:       t.Short,
		Via:         t.Via,
		Constraints: t.Constraints,
		Locks:       t.Locks,
		Condition:   t.Condition,
		Param:       t.Param,
	}
	if t.Weight != nil {
		out.Weight = *t.Weight
	}
	if t.Kind != nil {
		out.Kind = *t.Kind
	}
	return out
}

// decodeVector evaluates an optional numeric attribute that is either a
// number or a list of numbers. An absent attribute yields nil.
func decodeVector(ctx context.Context, expr hcl.Expression, attrName string) ([]float64, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid %s: %w", attrName, diags)
	}
	if val.IsNull() {
		return nil, nil
	}

	if val.Type() == cty.Number {
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", attrName, err)
		}
		return []float64{f}, nil
	}
	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected a number or a list of numbers, got %s", attrName, val.Type().FriendlyName())
	}
	var out []float64
	if err := gocty.FromCtyValue(list, &out); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", attrName, err)
	}
	return out, nil
}

// isExprDefined reports whether an optional attribute was actually written.
// The decoder fills omitted hcl.Expression fields with a zero-width
// placeholder, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	defined := rng.End.Byte > rng.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName, "hcl_range", rng.String(), "is_defined", defined)
	return defined
}
