// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the default DXLog database location.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "qsostat", "log.s3db")
}

// DefaultCTYPath returns where an optional cty.plist is looked up.
func DefaultCTYPath() string {
	return filepath.Join(XDGConfigHome(), "qsostat", "cty.plist")
}

// DefaultExportPath is the export file used when none is configured.
func DefaultExportPath() string {
	return "stats.txt"
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "qsostat", "config.toml")
}
