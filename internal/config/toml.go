// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Viewer ViewerConfig `toml:"viewer"`
	Export ExportConfig `toml:"export"`
}

// ViewerConfig maps viewer and report settings. Nil fields were not set.
type ViewerConfig struct {
	DB        *string `toml:"db"`
	SortBy    *string `toml:"sort-by"`
	SortDesc  *bool   `toml:"sort-desc"`
	Increment *string `toml:"increment"`
	IdleGap   *string `toml:"idle-gap"`
	CTY       *string `toml:"cty"`
	Detail    *string `toml:"detail"`
}

// ExportConfig maps export settings.
type ExportConfig struct {
	Format *string `toml:"format"`
	Path   *string `toml:"path"`
}

// IdleGapDuration parses the idle-gap setting. The zero duration means unset.
func (c ViewerConfig) IdleGapDuration() (time.Duration, error) {
	if c.IdleGap == nil || *c.IdleGap == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(*c.IdleGap)
	if err != nil {
		return 0, fmt.Errorf("invalid idle-gap %q: %w", *c.IdleGap, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("idle-gap must be positive, got %s", d)
	}
	return d, nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if _, err := cfg.Viewer.IdleGapDuration(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}
