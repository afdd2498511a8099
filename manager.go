// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

package dataconfy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dataconfy/dataconfy/appdirs"
	"github.com/dataconfy/dataconfy/envload"
	"github.com/dataconfy/dataconfy/serialize"
)

// Manager is the shared save/load machinery behind [ConfigManager] and
// [DataManager]. It owns one base directory, a default filename, and the
// environment overlay switch.
type Manager struct {
	appName         string
	role            string
	dir             string
	defaultFilename string
	useEnvVars      bool
	envPrefix       string
	log             zerolog.Logger
}

// ConfigManager persists configuration records under the user config
// directory (default filename config.yaml).
type ConfigManager struct {
	Manager
}

// DataManager persists data records under the user data directory (default
// filename data.yaml).
type DataManager struct {
	Manager
}

// NewConfigManager returns a manager rooted at the platform config
// directory for appName (override with [WithDir]). The environment overlay
// is off unless [WithEnvVars] is given.
func NewConfigManager(appName string, opts ...Option) (*ConfigManager, error) {
	m, err := newManager(appName, "config", "config.yaml", appdirs.ConfigDir, opts)
	if err != nil {
		return nil, err
	}
	return &ConfigManager{Manager: *m}, nil
}

// NewDataManager returns a manager rooted at the platform data directory
// for appName (override with [WithDir]).
func NewDataManager(appName string, opts ...Option) (*DataManager, error) {
	m, err := newManager(appName, "data", "data.yaml", appdirs.DataDir, opts)
	if err != nil {
		return nil, err
	}
	return &DataManager{Manager: *m}, nil
}

func newManager(appName, role, defaultFilename string, defaultDir func(string) (string, error), opts []Option) (*Manager, error) {
	if appName == "" {
		return nil, ErrEmptyAppName
	}

	m := &Manager{
		appName:         appName,
		role:            role,
		defaultFilename: defaultFilename,
		envPrefix:       envload.Prefix(appName),
		log:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.dir == "" {
		dir, err := defaultDir(appName)
		if err != nil {
			return nil, fmt.Errorf("resolving %s directory for %q: %w", role, appName, err)
		}
		m.dir = dir
	}

	return m, nil
}

// AppName returns the application name the manager was built for.
func (m *Manager) AppName() string { return m.appName }

// Dir returns the directory the manager reads from and writes to.
func (m *Manager) Dir() string { return m.dir }

// EnvPrefix returns the prefix applied to environment lookups, whether the
// overlay is enabled or not.
func (m *Manager) EnvPrefix() string { return m.envPrefix }

// Path returns the full path for filename inside the manager's directory.
// An empty filename means the manager's default.
func (m *Manager) Path(filename string) string {
	return filepath.Join(m.dir, m.filename(filename))
}

// Exists reports whether filename (default if empty) exists on disk.
func (m *Manager) Exists(filename string) bool {
	_, err := os.Stat(m.Path(filename))
	return err == nil
}

// Save serializes obj and writes it to filename (default if empty) inside
// the manager's directory, creating the directory if needed. The format is
// picked from the extension. Returns the full path written.
func (m *Manager) Save(obj any, filename string) (string, error) {
	name := m.filename(filename)
	format, err := serialize.FromFilename(name)
	if err != nil {
		return "", err
	}
	return m.save(obj, name, format)
}

// SaveAs is [Manager.Save] with an explicit format, for filenames whose
// extension does not match their content.
func (m *Manager) SaveAs(obj any, filename string, format serialize.Format) (string, error) {
	return m.save(obj, m.filename(filename), format)
}

func (m *Manager) save(obj any, name string, format serialize.Format) (string, error) {
	data, err := serialize.Marshal(obj, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s directory: %w", m.role, err)
	}

	path := filepath.Join(m.dir, name)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}

	m.log.Debug().
		Str("role", m.role).
		Str("path", path).
		Str("format", format.String()).
		Msg("saved")

	return path, nil
}

// Load populates target (a non-nil pointer to a struct) from filename
// (default if empty). Values prefilled in target act as schema defaults:
// precedence is environment value over file value over default, decided
// independently for every leaf field.
//
// A missing file is an error unless the environment overlay is enabled, in
// which case loading proceeds from the overlay alone. All other failures
// (unreadable file, malformed content, unparseable variable, key collision)
// surface unmodified; no default is ever substituted for a malformed value.
func (m *Manager) Load(target any, filename string) error {
	name := m.filename(filename)
	format, err := serialize.FromFilename(name)
	if err != nil {
		return err
	}
	return m.load(target, name, format)
}

// LoadAs is [Manager.Load] with an explicit format.
func (m *Manager) LoadAs(target any, filename string, format serialize.Format) error {
	return m.load(target, m.filename(filename), format)
}

func (m *Manager) load(target any, name string, format serialize.Format) error {
	path := filepath.Join(m.dir, name)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && m.useEnvVars:
		data = nil // the overlay may still provide values
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s file not found: %s: %w", m.role, path, err)
	default:
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if !m.useEnvVars {
		if err := serialize.Unmarshal(data, target, format); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
		return nil
	}

	base, err := serialize.DecodeMap(data, format)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	overlay, err := envload.Load(target, m.envPrefix, envload.Environ())
	if err != nil {
		return err
	}

	// Every overlay leaf wins, including explicit zero values like "false"
	// (map keys are merged by presence, not emptiness); file-sourced
	// siblings the environment did not mention stay untouched.
	if err := mergo.Merge(&base, overlay, mergo.WithOverride); err != nil {
		return fmt.Errorf("merging environment overrides: %w", err)
	}

	merged, err := serialize.EncodeMap(base, format)
	if err != nil {
		return fmt.Errorf("encoding merged %s: %w", m.role, err)
	}
	if err := serialize.Unmarshal(merged, target, format); err != nil {
		return fmt.Errorf("decoding merged %s: %w", m.role, err)
	}

	m.log.Debug().
		Str("role", m.role).
		Str("path", path).
		Int("overridden", len(overlay)).
		Msg("loaded")

	return nil
}

func (m *Manager) filename(name string) string {
	if name == "" {
		return m.defaultFilename
	}
	return name
}

// writeFileAtomic writes data to a uuid-suffixed temp file next to path and
// renames it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
