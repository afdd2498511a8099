// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

package dataconfy

import "github.com/rs/zerolog"

// Option customizes a manager at construction time.
type Option func(*Manager)

// WithDir replaces the platform-conventional directory with a custom one.
func WithDir(dir string) Option {
	return func(m *Manager) {
		m.dir = dir
	}
}

// WithEnvVars enables the environment variable overlay. It is disabled by
// default: a plain manager only ever reads files.
func WithEnvVars() Option {
	return func(m *Manager) {
		m.useEnvVars = true
	}
}

// WithEnvPrefix replaces the prefix derived from the application name
// (see envload.Prefix) with an explicit one. The overlay still has to be
// enabled with [WithEnvVars].
func WithEnvPrefix(prefix string) Option {
	return func(m *Manager) {
		m.envPrefix = prefix
	}
}

// WithLogger attaches a logger to the manager. By default all log output is
// discarded.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}
