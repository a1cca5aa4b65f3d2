// Package config defines the format-agnostic description of a manipulation
// task: the robot, the graph parameters, the named constraints and the
// states and transitions built from them, along with the Loader interface
// implemented by concrete file formats.
//
// The Model refers to constraints and locks by name only. Turning names
// into constraint functions is the job of the registry package.
package config
