// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

// Package serialize converts structs to and from the two interchange
// formats dataconfy persists: YAML (gopkg.in/yaml.v3) and JSON. The format
// is normally picked from the file extension via [FromFilename]; both
// formats are interchangeable for any schema the library supports.
package serialize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies one of the supported interchange formats.
type Format int

const (
	FormatYAML Format = iota + 1
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

var (
	// ErrUnsupportedFormat indicates a filename extension or format value
	// outside the YAML/JSON pair.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNotStruct indicates that a value to serialize, or a deserialization
	// target, is not a struct (or pointer to one).
	ErrNotStruct = errors.New("value must be a struct or a pointer to a struct")
)

// FromFilename picks the format from a filename extension: .yaml and .yml
// map to YAML, .json to JSON. Any other extension is ErrUnsupportedFormat.
func FromFilename(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %q (use .yaml, .yml, or .json)", ErrUnsupportedFormat, ext)
}

// Marshal encodes a struct (or pointer to one) to text in the given format.
// YAML output keeps the struct's field order; JSON output is indented with
// two spaces.
func Marshal(obj any, f Format) ([]byte, error) {
	if err := requireStruct(obj); err != nil {
		return nil, err
	}

	switch f {
	case FormatYAML:
		return yaml.Marshal(obj)
	case FormatJSON:
		return json.MarshalIndent(obj, "", "  ")
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

// Unmarshal decodes text into target, which must be a non-nil pointer to a
// struct. Only keys present in the input are assigned, so values prefilled
// in target act as defaults. Empty or whitespace-only input is a no-op.
func Unmarshal(data []byte, target any, f Format) error {
	if err := requireStructPointer(target); err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	switch f {
	case FormatYAML:
		return yaml.Unmarshal(data, target)
	case FormatJSON:
		return json.Unmarshal(data, target)
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

// DecodeMap decodes text into a nested map[string]any, the shape used for
// merging file data with environment overrides. Empty input yields an empty
// map.
func DecodeMap(data []byte, f Format) (map[string]any, error) {
	m := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}

	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}

	return m, nil
}

// EncodeMap is the inverse of [DecodeMap], used to feed a merged map back
// through the codec into a typed record.
func EncodeMap(m map[string]any, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatJSON:
		return json.Marshal(m)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

func requireStruct(obj any) error {
	if obj == nil {
		return fmt.Errorf("%w: got nil", ErrNotStruct)
	}
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("%w: got nil %s", ErrNotStruct, v.Type())
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotStruct, obj)
	}
	return nil
}

func requireStructPointer(target any) error {
	if target == nil {
		return fmt.Errorf("%w: got nil", ErrNotStruct)
	}
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer, got %T", ErrNotStruct, target)
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("%w: got nil %s", ErrNotStruct, v.Type())
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotStruct, target)
	}
	return nil
}
