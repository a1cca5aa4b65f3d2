package config

import "context"

// Loader is the interface for a format-specific task loader.
type Loader interface {
	// Load reads the task files found under paths and translates them into
	// the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
