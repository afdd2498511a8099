// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

package envload

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ParseValue converts one raw environment string to the typed value the
// descriptor calls for. Numeric and boolean values use strconv-style
// parsing; list and dict values must be valid JSON text of the matching
// container shape. Failures are *EnvVarError values carrying the raw input;
// malformed input is never repaired or replaced with a default.
func ParseValue(raw string, d FieldDescriptor) (any, error) {
	v, err := parseKind(raw, d)
	if err != nil {
		return nil, &EnvVarError{Value: raw, Err: err}
	}
	return v, nil
}

func parseKind(raw string, d FieldDescriptor) (any, error) {
	switch d.Kind {
	case KindString:
		return raw, nil

	case KindBool:
		return ParseBool(raw)

	case KindInt:
		n, err := strconv.ParseInt(raw, 10, bitSize(d.Type))
		if err != nil {
			return nil, fmt.Errorf("Failed to convert %q to %s", raw, typeName(d))
		}
		return n, nil

	case KindUint:
		n, err := strconv.ParseUint(raw, 10, bitSize(d.Type))
		if err != nil {
			return nil, fmt.Errorf("Failed to convert %q to %s", raw, typeName(d))
		}
		return n, nil

	case KindFloat:
		f, err := strconv.ParseFloat(raw, bitSize(d.Type))
		if err != nil {
			return nil, fmt.Errorf("Failed to convert %q to %s", raw, typeName(d))
		}
		return f, nil

	case KindDuration:
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("Failed to convert %q to %s", raw, typeName(d))
		}
		return dur, nil

	case KindText:
		return parseText(raw, d.Type)

	case KindSequence:
		v, err := decodeJSON(raw)
		if err != nil {
			return nil, err
		}
		seq, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("Expected list, got %s: %q", jsonShape(v), raw)
		}
		return seq, nil

	case KindMapping:
		v, err := decodeJSON(raw)
		if err != nil {
			return nil, err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("Expected dict, got %s: %q", jsonShape(v), raw)
		}
		return m, nil

	case KindStruct:
		return nil, fmt.Errorf("nested struct %s is populated field by field, not from a single variable", typeName(d))
	}

	return nil, fmt.Errorf("unsupported field kind %s", d.Kind)
}

// ParseBool converts a raw string to a boolean. Accepted spellings, case
// insensitive: true/1/yes/on and false/0/no/off. Anything else is an error
// naming the offending value and the accepted vocabulary.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("Invalid boolean value %q (expected true/false: true, 1, yes, on / false, 0, no, off)", raw)
}

func parseText(raw string, t reflect.Type) (any, error) {
	v := reflect.New(t)
	if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
		return nil, fmt.Errorf("Failed to convert %q to %s: %v", raw, t, err)
	}
	return v.Elem().Interface(), nil
}

func decodeJSON(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("Invalid JSON value %q: %v", raw, err)
	}
	return v, nil
}

// jsonShape names the container shape of a decoded JSON value for
// shape-mismatch messages.
func jsonShape(v any) string {
	switch v.(type) {
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

func typeName(d FieldDescriptor) string {
	if d.Type != nil {
		return d.Type.String()
	}
	return d.Kind.String()
}

func bitSize(t reflect.Type) int {
	if t == nil {
		return 64
	}
	return t.Bits()
}
