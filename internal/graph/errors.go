package graph

import (
	"errors"
	"fmt"
)

var (
	ErrNilGraph       = errors.New("graph is nil")
	ErrNoNodeSelector = errors.New("graph has no node selector")
	ErrNoMatchingNode = errors.New("configuration matches no node")
	ErrWaypointIndex  = errors.New("waypoint index out of range")
	ErrUnsupported    = errors.New("unsupported operation")
)

// UsageError reports a call the receiving component cannot honor. It is
// raised with panic: it reveals a bug in the caller, not an infeasible
// planning query.
type UsageError struct {
	Op        string
	Component string
	Err       error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s on %q: %v", e.Op, e.Component, e.Err)
}

func (e *UsageError) Unwrap() error { return e.Err }
