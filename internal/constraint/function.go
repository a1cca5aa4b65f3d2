package constraint

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Function is a differentiable map from configurations to R^OutputSize.
type Function interface {
	Name() string
	OutputSize() int
	Value(q Configuration) []float64
	// Jacobian returns an OutputSize x len(q) matrix.
	Jacobian(q Configuration) *mat.Dense
}

// Affine is the function q -> A q + b.
type Affine struct {
	name string
	a    *mat.Dense
	b    []float64
}

// NewAffine returns the affine function A q + b. A nil b means zero.
func NewAffine(name string, a *mat.Dense, b []float64) *Affine {
	rows, _ := a.Dims()
	if b == nil {
		b = make([]float64, rows)
	}
	if len(b) != rows {
		panic(fmt.Sprintf("constraint: affine %q has %d rows but offset of size %d", name, rows, len(b)))
	}
	return &Affine{name: name, a: mat.DenseCopyOf(a), b: append([]float64(nil), b...)}
}

// NewSelection returns the function extracting q[indices] from a
// configuration of size n.
func NewSelection(name string, n int, indices ...int) *Affine {
	a := mat.NewDense(len(indices), n, nil)
	for row, col := range indices {
		a.Set(row, col, 1)
	}
	return NewAffine(name, a, nil)
}

func (f *Affine) Name() string { return f.name }

func (f *Affine) OutputSize() int {
	rows, _ := f.a.Dims()
	return rows
}

func (f *Affine) Value(q Configuration) []float64 {
	var v mat.VecDense
	v.MulVec(f.a, mat.NewVecDense(len(q), q))
	out := make([]float64, len(f.b))
	for i := range out {
		out[i] = v.AtVec(i) + f.b[i]
	}
	return out
}

func (f *Affine) Jacobian(Configuration) *mat.Dense {
	return mat.DenseCopyOf(f.a)
}

// fdStep is the central difference step used by Func.
const fdStep = 1e-7

// Func adapts a plain value function to Function, differentiating it by
// central finite differences.
type Func struct {
	name  string
	size  int
	value func(q Configuration) []float64
}

// NewFunc returns a Function of the given output size backed by value.
func NewFunc(name string, outputSize int, value func(q Configuration) []float64) *Func {
	return &Func{name: name, size: outputSize, value: value}
}

func (f *Func) Name() string    { return f.name }
func (f *Func) OutputSize() int { return f.size }

func (f *Func) Value(q Configuration) []float64 {
	return f.value(q)
}

func (f *Func) Jacobian(q Configuration) *mat.Dense {
	n := len(q)
	jac := mat.NewDense(f.size, n, nil)
	x := q.Clone()
	for col := 0; col < n; col++ {
		orig := x[col]
		x[col] = orig + fdStep
		plus := f.value(x)
		x[col] = orig - fdStep
		minus := f.value(x)
		x[col] = orig
		for row := 0; row < f.size; row++ {
			jac.Set(row, col, (plus[row]-minus[row])/(2*fdStep))
		}
	}
	return jac
}
