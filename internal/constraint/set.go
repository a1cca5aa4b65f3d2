package constraint

// Constraint is anything that can project a configuration and test it.
type Constraint interface {
	Name() string
	// Apply modifies q in place and reports success.
	Apply(q Configuration) bool
	IsSatisfied(q Configuration) bool
}

// Set is an ordered list of constraints applied one after the other.
type Set struct {
	name        string
	constraints []Constraint
}

// NewSet returns an empty set.
func NewSet(name string) *Set {
	return &Set{name: name}
}

func (s *Set) Name() string { return s.name }

// AddConstraint appends c.
func (s *Set) AddConstraint(c Constraint) {
	s.constraints = append(s.constraints, c)
}

// Constraints returns the constraints in application order.
func (s *Set) Constraints() []Constraint {
	return append([]Constraint(nil), s.constraints...)
}

// Copy returns a set whose projectors are copies of those of s, so that
// later right-hand side updates on either set leave the other alone. A nil
// set copies to nil.
func (s *Set) Copy() *Set {
	if s == nil {
		return nil
	}
	cp := &Set{name: s.name, constraints: make([]Constraint, len(s.constraints))}
	for i, c := range s.constraints {
		if p, ok := c.(*Projector); ok {
			c = p.Copy()
		}
		cp.constraints[i] = c
	}
	return cp
}

// ConfigProjector returns the first Projector of the set, or nil.
func (s *Set) ConfigProjector() *Projector {
	for _, c := range s.constraints {
		if p, ok := c.(*Projector); ok {
			return p
		}
	}
	return nil
}

// RightHandSideFromConfig forwards to the set's projector, if any.
func (s *Set) RightHandSideFromConfig(q Configuration) {
	if p := s.ConfigProjector(); p != nil {
		p.RightHandSideFromConfig(q)
	}
}

// Apply applies every constraint in order and stops at the first failure.
func (s *Set) Apply(q Configuration) bool {
	for _, c := range s.constraints {
		if !c.Apply(q) {
			return false
		}
	}
	return true
}

// IsSatisfied reports whether q satisfies every constraint of the set.
func (s *Set) IsSatisfied(q Configuration) bool {
	for _, c := range s.constraints {
		if !c.IsSatisfied(q) {
			return false
		}
	}
	return true
}
