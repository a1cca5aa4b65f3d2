package constraint

import "fmt"

// Interval is the half-open index range [Start, Start+Length) of a
// configuration.
type Interval struct {
	Start  int
	Length int
}

// Intervals is a list of configuration ranges, used to mark the passive
// degrees of freedom of a numerical constraint.
type Intervals []Interval

// Contains reports whether index i falls into one of the intervals.
func (iv Intervals) Contains(i int) bool {
	for _, in := range iv {
		if i >= in.Start && i < in.Start+in.Length {
			return true
		}
	}
	return false
}

// Comparison tells how a projector treats the right-hand side of a
// constraint.
type Comparison int

const (
	// Fixed constraints keep the right-hand side they were given.
	Fixed Comparison = iota
	// Parametric constraints take their right-hand side from the
	// configuration passed to Projector.RightHandSideFromConfig.
	Parametric
)

// Numerical is the equality constraint f(q) = rhs.
//
// The right-hand side held here is a transfer slot: projectors copy it in
// UpdateRightHandSide and write it in RightHandSideFromConfig. Several
// projectors may share one Numerical.
type Numerical struct {
	fn         Function
	rhs        []float64
	comparison Comparison
}

// NewNumerical wraps fn as a Fixed constraint with a zero right-hand side.
func NewNumerical(fn Function) *Numerical {
	return &Numerical{fn: fn, rhs: make([]float64, fn.OutputSize())}
}

// NewParametric wraps fn as a Parametric constraint.
func NewParametric(fn Function) *Numerical {
	nc := NewNumerical(fn)
	nc.comparison = Parametric
	return nc
}

func (c *Numerical) Comparison() Comparison { return c.comparison }

func (c *Numerical) Name() string       { return c.fn.Name() }
func (c *Numerical) Function() Function { return c.fn }
func (c *Numerical) OutputSize() int    { return c.fn.OutputSize() }

// RightHandSide returns a copy of the current right-hand side.
func (c *Numerical) RightHandSide() []float64 {
	return append([]float64(nil), c.rhs...)
}

// SetRightHandSide replaces the right-hand side.
func (c *Numerical) SetRightHandSide(rhs []float64) {
	if len(rhs) != len(c.rhs) {
		panic(fmt.Sprintf("constraint: %q expects a right-hand side of size %d, got %d", c.Name(), len(c.rhs), len(rhs)))
	}
	copy(c.rhs, rhs)
}

// RightHandSideFromConfig sets rhs to f(q), so that q satisfies the
// constraint exactly.
func (c *Numerical) RightHandSideFromConfig(q Configuration) {
	c.SetRightHandSide(c.fn.Value(q))
}

// Term is a numerical constraint registered together with the configuration
// intervals it must not move.
type Term struct {
	Numerical *Numerical
	Passive   Intervals
}
