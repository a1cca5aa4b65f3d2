// Package constraint holds the numerical machinery the constraint graph is
// built on: configurations, differentiable functions, equality constraints
// with a right-hand side, locked joints, a Newton projector and ordered
// constraint sets.
//
// The projector shipped here is a reference implementation. It solves
//
//	f(q) = rhs
//
// for every registered function by damped minimum-norm Newton steps, keeps
// locked joints at their value and leaves passive intervals of each function
// untouched. Callers that own a faster solver can wrap it behind the
// Constraint interface and add it to a Set.
//
// None of the types in this package are safe for concurrent use.
package constraint
