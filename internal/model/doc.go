// Package model describes the robot whose configurations the constraint graph
// reasons about.
//
// The graph only needs a very small contract from the kinematic model: the
// size of a configuration vector and where each named joint lives inside it.
// Everything else (forward kinematics, collision geometry, joint bounds) is
// the business of the constraint functions plugged into the graph.
//
// # Core Concepts
//
//   - Device: the read-only contract consumed by the graph, the builder and
//     the task loader.
//
//   - Robot: a reference Device assembled from named joints. Joints are laid
//     out contiguously in insertion order, so the rank of a joint is the sum
//     of the sizes of the joints declared before it.
//
//   - Joint: a named slice of the configuration vector. Locked joint
//     constraints address joints through their rank and size.
package model
