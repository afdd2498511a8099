// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

// Package appdirs resolves platform-conventional per-user directories for
// application configuration and data, following the XDG base directory
// specification on Unix and the native conventions on macOS and Windows.
package appdirs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the per-user configuration directory for appName, e.g.
// ~/.config/<appName> on Linux. The directory is not created.
func ConfigDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// DataDir returns the per-user data directory for appName, e.g.
// ~/.local/share/<appName> on Linux. The directory is not created.
func DataDir(appName string) (string, error) {
	base, err := userDataDir()
	if err != nil {
		return "", fmt.Errorf("resolving user data dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

func userDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LocalAppData"); dir != "" {
			return dir, nil
		}
		return "", errors.New("%LocalAppData% is not defined")

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil

	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}
