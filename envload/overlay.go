// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

package envload

import (
	"errors"
	"os"
	"strings"
)

// Load flattens schema, looks up prefix+key in environ for every derived
// key, and returns the sparse nested override map of the values found.
//
// Variables absent from environ contribute nothing: branches of the schema
// with no matching variable are entirely absent from the result, never
// present with nil or zero placeholders. Setting a deeply nested variable
// implies its ancestor sections, which are created as empty sub-maps along
// the way.
//
// Load is a pure function of its inputs: it never reads or writes the
// process environment itself (see [Environ] for taking a snapshot), and the
// same schema, prefix, and snapshot always produce an identical result.
//
// The first value that cannot be parsed aborts the whole call with a
// *EnvVarError naming the full failing variable; no partial result is
// returned.
func Load(schema any, prefix string, environ map[string]string) (map[string]any, error) {
	fields, err := Flatten(schema)
	if err != nil {
		return nil, err
	}

	overlay := make(map[string]any)
	for key, d := range fields {
		raw, ok := environ[prefix+key]
		if !ok {
			continue
		}

		v, err := ParseValue(raw, d)
		if err != nil {
			var envErr *EnvVarError
			if errors.As(err, &envErr) {
				envErr.Key = prefix + key
			}
			return nil, err
		}

		setPath(overlay, d.Path, v)
	}

	return overlay, nil
}

// Environ returns a snapshot of the current process environment as a map.
// Take one snapshot per load operation and pass it to [Load].
func Environ() map[string]string {
	environ := os.Environ()
	snap := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		snap[k] = v
	}
	return snap
}

// setPath writes v at path, creating intermediate sub-maps as needed. A
// non-map value sitting where a section must go is replaced by a fresh
// sub-map; flattened paths are collision-checked so this only happens when
// a custom env tag deliberately aliases a section name.
func setPath(tree map[string]any, path []string, v any) {
	for _, seg := range path[:len(path)-1] {
		child, ok := tree[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			tree[seg] = child
		}
		tree = child
	}
	tree[path[len(path)-1]] = v
}
