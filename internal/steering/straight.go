package steering

import (
	"github.com/specialistvlad/manigraph/internal/constraint"
	"gonum.org/v1/gonum/floats"
)

// Straight interpolates linearly between configurations and projects every
// evaluated configuration onto its constraint set.
type Straight struct {
	constraints *constraint.Set
}

// NewStraight returns a straight-line steering method without constraints.
func NewStraight() *Straight {
	return &Straight{}
}

func (s *Straight) SetConstraints(c *constraint.Set) { s.constraints = c }
func (s *Straight) Constraints() *constraint.Set     { return s.constraints }

// Copy returns a method sharing nothing with s but its constraint set.
func (s *Straight) Copy() Method {
	return &Straight{constraints: s.constraints}
}

// Compute never fails: feasibility of the endpoints is the caller's concern.
func (s *Straight) Compute(q1, q2 constraint.Configuration) (Path, bool) {
	return NewStraightPath(q1, q2, s.constraints), true
}

// StraightPath is the segment from initial to end.
type StraightPath struct {
	initial     constraint.Configuration
	end         constraint.Configuration
	length      float64
	constraints *constraint.Set
}

// NewStraightPath copies both endpoints and the constraint set, so the path
// stays on the leaf it was built on when c is later re-parameterized.
func NewStraightPath(q1, q2 constraint.Configuration, c *constraint.Set) *StraightPath {
	return &StraightPath{
		initial:     q1.Clone(),
		end:         q2.Clone(),
		length:      floats.Distance(q1, q2, 2),
		constraints: c.Copy(),
	}
}

func (p *StraightPath) Initial() constraint.Configuration { return p.initial.Clone() }
func (p *StraightPath) End() constraint.Configuration     { return p.end.Clone() }
func (p *StraightPath) Length() float64                   { return p.length }
func (p *StraightPath) Constraints() *constraint.Set      { return p.constraints }

func (p *StraightPath) Eval(t float64) (constraint.Configuration, bool) {
	u := 0.0
	if p.length > 0 {
		u = min(max(t/p.length, 0), 1)
	}
	diff := make([]float64, len(p.initial))
	floats.SubTo(diff, p.end, p.initial)
	q := make(constraint.Configuration, len(p.initial))
	floats.AddScaledTo(q, p.initial, u, diff)
	if p.constraints != nil && !p.constraints.Apply(q) {
		return q, false
	}
	return q, true
}
