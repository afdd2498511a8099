package dataconfy

import "errors"

var (
	// ErrEmptyAppName indicates a manager was constructed without an
	// application name. The name seeds both the default directory and the
	// environment variable prefix, so it is required.
	ErrEmptyAppName = errors.New("app name must not be empty")
)
