// Package config loads the engine's optional TOML defaults (spec AMBIENT
// STACK: UCI's setoption is the only required tunable surface, this file is
// never required to run the engine).
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/Robotino04/Thera-Engine/internal/search"
)

const defaultHashMB = 256

// Config holds the engine defaults a therauci.toml file may override.
type Config struct {
	HashMB       int  `toml:"hash_mb"`
	DepthCeiling int  `toml:"depth_ceiling"`
	Journal      bool `toml:"journal"`
}

// Default returns the engine's built-in defaults, used when no config file
// is present.
func Default() Config {
	return Config{
		HashMB:       defaultHashMB,
		DepthCeiling: search.DefaultDepthCeiling,
		Journal:      true,
	}
}

// Load reads path and overlays it onto Default(). A missing file is not an
// error: it just means the defaults apply, matching the teacher's
// no-config-required posture.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
