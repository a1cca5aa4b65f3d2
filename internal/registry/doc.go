// Package registry provides the glue between task files and constraint
// functions.
//
// The Registry maps the type names used in task files (e.g. "joint_value")
// to factories building constraint functions. Instantiate resolves every
// named constraint and lock of a config.Model on a robot into a Catalog,
// which the states and transitions then refer to by name. Validate checks a
// model against the registry before anything is built, so that a typo in a
// task file is reported with all its siblings instead of one at a time.
//
// The package also ships the reference grippers and handles used to turn
// the grippers and objects of a task into graph builder input.
package registry
