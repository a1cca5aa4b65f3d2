// Package app wires the engine together. It loads a task description,
// validates it against the constraint registry and turns it into a
// populated constraint graph, decoupled from any specific entrypoint.
package app
