package constraint

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultErrorThreshold = 1e-4
	DefaultMaxIterations  = 40

	// damping regularizes J*J^T so that rank deficient Jacobians still
	// produce a bounded step.
	damping = 1e-10
)

// Observer is notified of every projection outcome.
type Observer interface {
	ObserveProjection(name string, success bool)
}

type projTerm struct {
	Term
	rhs []float64
}

type projLock struct {
	lock  *LockedJoint
	value []float64
}

// Projector projects configurations onto the intersection of its numerical
// constraints and locked joints with a damped Newton method.
type Projector struct {
	name           string
	errorThreshold float64
	maxIterations  int
	terms          []projTerm
	locks          []projLock
	stats          *SuccessStatistics
	observer       Observer
}

// NewProjector returns an empty projector. Non-positive parameters fall back
// to DefaultErrorThreshold and DefaultMaxIterations.
func NewProjector(name string, errorThreshold float64, maxIterations int) *Projector {
	if errorThreshold <= 0 {
		errorThreshold = DefaultErrorThreshold
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Projector{
		name:           name,
		errorThreshold: errorThreshold,
		maxIterations:  maxIterations,
		stats:          NewSuccessStatistics(name),
	}
}

func (p *Projector) Name() string                   { return p.name }
func (p *Projector) ErrorThreshold() float64        { return p.errorThreshold }
func (p *Projector) MaxIterations() int             { return p.maxIterations }
func (p *Projector) Statistics() *SuccessStatistics { return p.stats }

// SetObserver registers o to be told about each Apply outcome.
func (p *Projector) SetObserver(o Observer) { p.observer = o }

// Add registers a numerical constraint. The projector starts from the
// constraint's current right-hand side.
func (p *Projector) Add(nc *Numerical, passive Intervals) {
	p.terms = append(p.terms, projTerm{
		Term: Term{Numerical: nc, Passive: passive},
		rhs:  nc.RightHandSide(),
	})
}

// AddLockedJoint registers a locked joint at its current value.
func (p *Projector) AddLockedJoint(lj *LockedJoint) {
	p.locks = append(p.locks, projLock{lock: lj, value: lj.Value()})
}

// Terms returns the registered numerical constraints in insertion order.
func (p *Projector) Terms() []Term {
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = t.Term
	}
	return out
}

// LockedJoints returns the registered locked joints in insertion order.
func (p *Projector) LockedJoints() []*LockedJoint {
	out := make([]*LockedJoint, len(p.locks))
	for i, l := range p.locks {
		out[i] = l.lock
	}
	return out
}

// RightHandSideFromConfig takes the right-hand side of every Parametric
// constraint and lock from q, so that q satisfies them exactly. The
// constraints themselves are updated too. Fixed ones are left alone.
func (p *Projector) RightHandSideFromConfig(q Configuration) {
	for i := range p.terms {
		t := &p.terms[i]
		if t.Numerical.comparison != Parametric {
			continue
		}
		t.Numerical.RightHandSideFromConfig(q)
		copy(t.rhs, t.Numerical.rhs)
	}
	for i := range p.locks {
		l := &p.locks[i]
		if l.lock.comparison != Parametric {
			continue
		}
		l.lock.RightHandSideFromConfig(q)
		copy(l.value, l.lock.value)
	}
}

// Copy returns a projector over the same constraints with its own snapshot
// of every right-hand side. Statistics and observer are shared with p.
func (p *Projector) Copy() *Projector {
	cp := *p
	cp.terms = make([]projTerm, len(p.terms))
	for i, t := range p.terms {
		cp.terms[i] = projTerm{Term: t.Term, rhs: slices.Clone(t.rhs)}
	}
	cp.locks = make([]projLock, len(p.locks))
	for i, l := range p.locks {
		cp.locks[i] = projLock{lock: l.lock, value: slices.Clone(l.value)}
	}
	return &cp
}

// UpdateRightHandSide copies the current right-hand side of every registered
// constraint into the projector.
func (p *Projector) UpdateRightHandSide() {
	for i := range p.terms {
		copy(p.terms[i].rhs, p.terms[i].Numerical.rhs)
	}
	for i := range p.locks {
		copy(p.locks[i].value, p.locks[i].lock.value)
	}
}

// Apply projects q in place. It reports false when the error is still above
// the threshold after MaxIterations steps.
func (p *Projector) Apply(q Configuration) bool {
	ok := p.solve(q)
	if ok {
		p.stats.AddSuccess()
	} else {
		p.stats.AddFailure()
	}
	if p.observer != nil {
		p.observer.ObserveProjection(p.name, ok)
	}
	return ok
}

// IsSatisfied reports whether q solves every constraint within the error
// threshold.
func (p *Projector) IsSatisfied(q Configuration) bool {
	for _, l := range p.locks {
		if !lockSatisfied(q, l.lock.rank, l.value, p.errorThreshold) {
			return false
		}
	}
	return floats.Norm(p.residual(q), 2) < p.errorThreshold
}

func (p *Projector) outputSize() int {
	n := 0
	for _, t := range p.terms {
		n += t.Numerical.OutputSize()
	}
	return n
}

func (p *Projector) residual(q Configuration) []float64 {
	e := make([]float64, 0, p.outputSize())
	for _, t := range p.terms {
		v := t.Numerical.fn.Value(q)
		for i := range v {
			e = append(e, v[i]-t.rhs[i])
		}
	}
	return e
}

func (p *Projector) solve(q Configuration) bool {
	for _, l := range p.locks {
		imposeLock(q, l.lock.rank, l.value)
	}
	rows := p.outputSize()
	if rows == 0 {
		return true
	}
	locked := make([]bool, len(q))
	for _, l := range p.locks {
		for i := range l.value {
			locked[l.lock.rank+i] = true
		}
	}

	for it := 0; ; it++ {
		e := p.residual(q)
		if floats.Norm(e, 2) < p.errorThreshold {
			return true
		}
		if it == p.maxIterations {
			return false
		}
		dq, ok := minimumNormStep(p.jacobian(q, rows, locked), e)
		if !ok {
			return false
		}
		floats.Sub(q, dq)
		for _, v := range q {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
}

// jacobian stacks the Jacobians of all terms, with the columns of locked
// joints and of each term's passive intervals zeroed.
func (p *Projector) jacobian(q Configuration, rows int, locked []bool) *mat.Dense {
	n := len(q)
	jac := mat.NewDense(rows, n, nil)
	row := 0
	for _, t := range p.terms {
		tj := t.Numerical.fn.Jacobian(q)
		m := t.Numerical.OutputSize()
		for r := 0; r < m; r++ {
			for c := 0; c < n; c++ {
				if locked[c] || t.Passive.Contains(c) {
					continue
				}
				jac.Set(row+r, c, tj.At(r, c))
			}
		}
		row += m
	}
	return jac
}

// minimumNormStep solves J dq = e for the least norm dq using
// dq = J^T (J J^T + damping I)^-1 e.
func minimumNormStep(jac *mat.Dense, e []float64) ([]float64, bool) {
	rows, cols := jac.Dims()
	var jjt mat.Dense
	jjt.Mul(jac, jac.T())
	for i := 0; i < rows; i++ {
		jjt.Set(i, i, jjt.At(i, i)+damping)
	}
	var y mat.VecDense
	if err := y.SolveVec(&jjt, mat.NewVecDense(rows, e)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, false
		}
	}
	var step mat.VecDense
	step.MulVec(jac.T(), &y)
	dq := make([]float64, cols)
	for i := range dq {
		dq[i] = step.AtVec(i)
	}
	return dq, true
}
