package steering

import "github.com/specialistvlad/manigraph/internal/constraint"

// Vector is a path made of consecutive sub-paths.
type Vector struct {
	paths []Path
}

// NewVector returns an empty path vector.
func NewVector() *Vector {
	return &Vector{}
}

// AppendPath appends p. The elements of a nested Vector are appended one by
// one so that a Vector never contains another Vector.
func (v *Vector) AppendPath(p Path) {
	if inner, ok := p.(*Vector); ok {
		v.paths = append(v.paths, inner.paths...)
		return
	}
	v.paths = append(v.paths, p)
}

func (v *Vector) NumberPaths() int             { return len(v.paths) }
func (v *Vector) PathAt(i int) Path            { return v.paths[i] }
func (v *Vector) Constraints() *constraint.Set { return nil }

func (v *Vector) Initial() constraint.Configuration {
	if len(v.paths) == 0 {
		return nil
	}
	return v.paths[0].Initial()
}

func (v *Vector) End() constraint.Configuration {
	if len(v.paths) == 0 {
		return nil
	}
	return v.paths[len(v.paths)-1].End()
}

func (v *Vector) Length() float64 {
	var l float64
	for _, p := range v.paths {
		l += p.Length()
	}
	return l
}

// Eval locates the sub-path containing t and evaluates it there.
func (v *Vector) Eval(t float64) (constraint.Configuration, bool) {
	if len(v.paths) == 0 {
		return nil, false
	}
	for i, p := range v.paths {
		if t <= p.Length() || i == len(v.paths)-1 {
			return p.Eval(t)
		}
		t -= p.Length()
	}
	return nil, false
}
