// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

package envload

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// Kind classifies how a field's value is parsed from a raw string.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindDuration
	KindText
	KindSequence
	KindMapping
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDuration:
		return "duration"
	case KindText:
		return "text"
	case KindSequence:
		return "list"
	case KindMapping:
		return "dict"
	case KindStruct:
		return "struct"
	}
	return "unknown"
}

// FieldDescriptor describes one leaf field of a flattened schema. Values are
// derived once by [Flatten] and never mutated afterwards.
type FieldDescriptor struct {
	// Path holds the map keys from the schema root to this field, using the
	// same names the YAML/JSON codecs use (tag name or lowercased field
	// name), so an override written at Path lines up with decoded file data.
	Path []string

	// EnvKey is the variable name without the application prefix.
	EnvKey string

	// Kind selects the parsing rule for raw values.
	Kind Kind

	// Type is the field's Go type with pointer indirection removed.
	Type reflect.Type
}

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Flatten walks schema and returns a map from environment variable name
// (without application prefix) to the descriptor of the field it targets.
//
// schema may be a struct value, a pointer to one, or a reflect.Type
// describing one. Nullable nested structs (pointers) are flattened exactly
// like non-nullable ones: their absence at runtime does not exempt their
// children from having keys.
//
// Two distinct fields resolving to one name yield a *CollisionError; a
// self-referencing schema yields an error wrapping ErrCyclicSchema.
func Flatten(schema any) (map[string]FieldDescriptor, error) {
	t, err := schemaType(schema)
	if err != nil {
		return nil, err
	}

	out := make(map[string]FieldDescriptor)
	if err := flattenInto(t, "", nil, out, make(map[reflect.Type]bool)); err != nil {
		return nil, err
	}

	return out, nil
}

func schemaType(schema any) (reflect.Type, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: got nil", ErrNotStruct)
	}

	t, ok := schema.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(schema)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, t)
	}

	return t, nil
}

// flattenInto visits every exported field of t, root first. active tracks
// the struct types on the current descent path and serves as the cycle
// guard.
func flattenInto(t reflect.Type, keyPrefix string, path []string, out map[string]FieldDescriptor, active map[reflect.Type]bool) error {
	if active[t] {
		return fmt.Errorf("%w: %s contains itself", ErrCyclicSchema, t)
	}
	active[t] = true
	defer delete(active, t)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		envTag := f.Tag.Get("env")
		if envTag == "-" {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		// Embedded structs of unexported types still have their fields
		// promoted by the codecs, so only non-anonymous unexported fields
		// are invisible.
		if !f.IsExported() && !(f.Anonymous && ft.Kind() == reflect.Struct) {
			continue
		}

		kind, ok := classify(ft)
		if !ok {
			continue // not representable as an environment variable
		}

		// Embedded structs are inlined without a prefix or path segment,
		// mirroring encoding/json and yaml.v3 field promotion.
		if f.Anonymous && kind == KindStruct {
			if err := flattenInto(ft, keyPrefix, path, out, active); err != nil {
				return err
			}
			continue
		}

		fieldPath := appendPath(path, mapKey(f))

		if kind == KindStruct {
			childPrefix := keyPrefix + upperSnake(f.Name) + "_"
			if p := f.Tag.Get("envPrefix"); p != "" {
				childPrefix = p
			}
			if err := flattenInto(ft, childPrefix, fieldPath, out, active); err != nil {
				return err
			}
			continue
		}

		envKey := keyPrefix + upperSnake(f.Name)
		if envTag != "" {
			envKey = envTag // explicit annotation wins verbatim
		}

		if prev, exists := out[envKey]; exists {
			return &CollisionError{
				Key:   envKey,
				PathA: strings.Join(prev.Path, "."),
				PathB: strings.Join(fieldPath, "."),
			}
		}

		out[envKey] = FieldDescriptor{
			Path:   fieldPath,
			EnvKey: envKey,
			Kind:   kind,
			Type:   ft,
		}
	}

	return nil
}

// classify maps a (pointer-stripped) field type to its parsing kind. The
// second result is false for types that cannot be populated from a single
// string (channels, funcs, bare interfaces); such fields are simply absent
// from the flattened key space.
func classify(t reflect.Type) (Kind, bool) {
	if t == durationType {
		return KindDuration, true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return KindText, true
	}

	switch t.Kind() {
	case reflect.String:
		return KindString, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	case reflect.Slice, reflect.Array:
		return KindSequence, true
	case reflect.Map:
		return KindMapping, true
	case reflect.Struct:
		return KindStruct, true
	}

	return 0, false
}

// mapKey resolves the map key a codec would use for f: json tag first, then
// yaml tag, then the lowercased field name (yaml.v3's default).
func mapKey(f reflect.StructField) string {
	for _, tag := range []string{"json", "yaml"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

// upperSnake converts a CamelCase field name to UPPER_SNAKE_CASE, keeping
// acronym runs intact: FontSize -> FONT_SIZE, HTTPAddress -> HTTP_ADDRESS.
func upperSnake(name string) string {
	var b strings.Builder
	rs := []rune(name)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			acronymEnd := unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || acronymEnd {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// appendPath copies path before appending so sibling descriptors never share
// backing arrays.
func appendPath(path []string, seg string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, seg)
}
