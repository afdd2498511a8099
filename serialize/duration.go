// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

package serialize

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that round-trips through YAML
// and JSON as human-readable strings like "1h30m" instead of nanosecond
// integers. Bare numbers are still accepted on decode and are read as
// nanoseconds. It also implements encoding.TextUnmarshaler, so environment
// overrides parse it with time.ParseDuration.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration value %s", b)
	}
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}

	var s string
	if err := value.Decode(&s); err == nil {
		tmp, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	}

	return fmt.Errorf("invalid duration value %q", value.Value)
}

func (d *Duration) UnmarshalText(text []byte) error {
	tmp, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}
