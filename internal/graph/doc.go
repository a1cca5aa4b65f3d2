// Package graph implements the constraint graph of a manipulation task.
//
// A manipulation task alternates between modes (the object rests on the
// table, the object is held by the gripper, ...). Each mode is a Node: a
// sub-manifold of the configuration space defined by equality constraints.
// Moving from one mode to another is an Edge: a procedure that projects
// configurations onto the target mode and produces constrained paths.
//
// # Components
//
//   - Graph: the arena. It owns every Node and Edge in insertion order,
//     holds the graph-wide constraints, the projection parameters
//     (ErrorThreshold, MaxIterations), the robot model and the prototype
//     steering method copied into each edge.
//
//   - NodeSelector: answers "which mode does this configuration belong
//     to?". Nodes are tested in creation order and the first match wins, so
//     the most specific modes must be created first.
//
//   - Node: at-rest constraints (what holds while resting in the mode) and
//     in-path constraints (what holds along paths that stay in the mode).
//
//   - Edge: one of three kinds.
//
//     KindPlain projects onto the target node and interpolates between two
//     configurations that satisfy its path constraints.
//
//     KindWaypoint chains plain (or nested waypoint) edges through
//     intermediate waypoint nodes, e.g. approach, grasp, lift.
//
//     KindLevelSet projects onto a leaf of a foliation that the current
//     roadmap component has not reached yet.
//
//   - SteeringMethod: a steering.Method that resolves the nodes of both
//     endpoints and builds the path through a connecting edge.
//
// # Constraint sets
//
// Every edge lazily builds and caches two constraint sets:
//
//	config = graph ∪ edge ∪ to-node at-rest constraints
//	path   = graph ∪ edge ∪ Node() in-path constraints
//
// Node() is the node whose in-path constraints govern motion along the edge.
// It defaults to the destination and can be moved to the source for short
// edges that logically belong to it. Any change to the constraints of any
// component drops every cached set of the graph.
//
// # Failures
//
// Infeasibility (a projection that does not converge, an endpoint that
// violates the path constraints) is reported with a false result. Misuse
// (calling the single-configuration projection of a level-set edge, using a
// waypoint edge before its waypoints are set) panics with a *UsageError.
//
// A Graph and everything it owns is meant for a single planning goroutine;
// none of the caches are synchronized.
package graph
