// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package config

import (
	"os"
	"path/filepath"
)

const appName = "inkpost"

// Dir returns the XDG config directory for inkpost.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// ResolvePath returns explicit when set, otherwise DefaultPath if that file
// exists, otherwise "" (defaults, env and flags only).
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if info, err := os.Stat(DefaultPath()); err == nil && !info.IsDir() {
		return DefaultPath()
	}
	return ""
}
