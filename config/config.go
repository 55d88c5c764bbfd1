// Package config holds settings of the icon generator.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultOutputDir is where icons go unless told otherwise.
const DefaultOutputDir = "public"

// DefaultSizes are the edge lengths a browser extension asks for.
var DefaultSizes = []int{16, 24, 48, 128}

// Sheet configures the optional preview sheet.
type Sheet struct {
	Enabled bool   `toml:"enabled"`
	Scale   int    `toml:"scale"`
	URL     string `toml:"url"`
}

// Config is the whole configuration. Every field may be overridden
// from the command line.
type Config struct {
	OutputDir string `toml:"output_dir"`
	Sizes     []int  `toml:"sizes"`
	Letter    string `toml:"letter"`
	Font      string `toml:"font"` // .bdf or TrueType; empty means built-in
	Favicon   bool   `toml:"favicon"`
	Manifest  bool   `toml:"manifest"`
	Sheet     Sheet  `toml:"sheet"`
}

// Default returns the configuration used without a configuration file.
func Default() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		Sizes:     append([]int(nil), DefaultSizes...),
		Letter:    "W",
		Sheet:     Sheet{Scale: 2},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values, unknown keys are rejected. An empty path just
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s",
			path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values nothing could be made of.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("no output directory")
	}
	if len(c.Sizes) == 0 {
		return errors.New("no icon sizes")
	}
	for _, size := range c.Sizes {
		if size <= 0 {
			return fmt.Errorf("invalid icon size: %d", size)
		}
	}
	if c.Sheet.Enabled && c.Sheet.Scale < 1 {
		return fmt.Errorf("invalid sheet scale: %d", c.Sheet.Scale)
	}
	return nil
}
