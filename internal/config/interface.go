package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path and returns a validated
	// Project. Errors wrap ErrFileNotFound, ErrMalformedInput or
	// ErrValidation.
	Load(ctx context.Context, path string) (*Project, error)
}
