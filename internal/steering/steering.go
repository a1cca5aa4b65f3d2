// Package steering defines how a constrained path between two configurations
// is produced and represented.
package steering

import "github.com/specialistvlad/manigraph/internal/constraint"

// Path is a continuous map from [0, Length] to configurations.
type Path interface {
	Initial() constraint.Configuration
	End() constraint.Configuration
	Length() float64
	// Eval returns the configuration at parameter t. It reports false when
	// the path constraints cannot be enforced at t.
	Eval(t float64) (constraint.Configuration, bool)
	// Constraints returns the set enforced along the path, or nil.
	Constraints() *constraint.Set
}

// Method computes a path between two configurations. A Method holds the
// constraint set its paths must satisfy; Copy returns an independent method
// so that each owner can bind its own set.
type Method interface {
	Compute(q1, q2 constraint.Configuration) (Path, bool)
	Copy() Method
	SetConstraints(c *constraint.Set)
	Constraints() *constraint.Set
}
