// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

package envload

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStruct indicates that the value passed as a schema is not a
	// struct, a pointer to a struct, or a reflect.Type describing one.
	ErrNotStruct = errors.New("schema must be a struct type")

	// ErrCyclicSchema indicates that a schema type directly or indirectly
	// contains itself. Such schemas have no finite key space and are
	// rejected instead of being recursed into unboundedly.
	ErrCyclicSchema = errors.New("cyclic schema")
)

// CollisionError is returned by [Flatten] when two distinct field paths
// resolve to the same environment variable name. A collision is a schema
// design defect: it is detected before any environment lookup occurs and is
// never silently resolved in favor of either field.
type CollisionError struct {
	// Key is the shared environment variable name.
	Key string
	// PathA is the dot-joined field path that claimed Key first.
	PathA string
	// PathB is the dot-joined field path that collided with PathA.
	PathB string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("environment variable name collision: %q maps to both %s and %s", e.Key, e.PathA, e.PathB)
}

// EnvVarError is returned when a single environment value cannot be coerced
// to its field's type. Key holds the full variable name (prefix included)
// when the failure surfaced through [Load]; errors returned directly by
// [ParseValue] carry only the raw value.
type EnvVarError struct {
	Key   string
	Value string
	Err   error
}

func (e *EnvVarError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("environment variable %s: %v", e.Key, e.Err)
	}
	return e.Err.Error()
}

func (e *EnvVarError) Unwrap() error { return e.Err }
