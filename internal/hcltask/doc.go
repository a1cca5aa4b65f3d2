// Package hcltask reads task descriptions written in HCL.
//
// A task is a set of .hcl files, searched recursively under the paths given
// to Load. Each file may hold any of the top-level blocks: robot, graph,
// constraint, lock, gripper, object, state and transition. The robot and
// graph blocks are declared once for the whole task. Everything else is
// merged in file order and handed to the registry as a config.Model.
package hcltask
