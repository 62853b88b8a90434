package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is looked up in the project directory.
const ConfigFileName = "goboscript.toml"

// Config is goboscript.toml. Zero-valued keys fall back to DefaultConfig.
type Config struct {
	FrameRate             int  `toml:"frame_rate"`
	MaxClones             int  `toml:"max_clones"`
	NoMiscellaneousLimits bool `toml:"no_miscellaneous_limits"`
	NoFencing             bool `toml:"no_fencing"`
	FrameInterpolation    bool `toml:"frame_interpolation"`
	HighQualityPen        bool `toml:"high_quality_pen"`
	StageWidth            int  `toml:"stage_width"`
	StageHeight           int  `toml:"stage_height"`
}

// DefaultConfig matches what Scratch and TurboWarp use without settings.
func DefaultConfig() Config {
	return Config{
		FrameRate:   30,
		MaxClones:   300,
		StageWidth:  480,
		StageHeight: 360,
	}
}

// IsDefault reports whether the config would produce no runtime settings.
func (c Config) IsDefault() bool {
	return c == DefaultConfig()
}

// LoadedConfig is a decoded config plus keys the decoder did not recognise.
type LoadedConfig struct {
	Config  Config
	Path    string // empty when the file does not exist
	Unknown []string
}

// LoadConfig reads dir/goboscript.toml. A missing file yields DefaultConfig;
// a malformed one is an error the build must stop on.
func LoadConfig(dir string) (LoadedConfig, error) {
	path := filepath.Join(dir, ConfigFileName)
	loaded := LoadedConfig{Config: DefaultConfig()}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return loaded, nil
		}
		return loaded, fmt.Errorf("%s: %w", path, err)
	}
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return loaded, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return loaded, fmt.Errorf("%s: %w", path, err)
	}
	loaded.Config = cfg
	loaded.Path = path
	for _, key := range meta.Undecoded() {
		loaded.Unknown = append(loaded.Unknown, key.String())
	}
	sort.Strings(loaded.Unknown)
	return loaded, nil
}

func (c Config) validate() error {
	switch {
	case c.FrameRate < 0:
		return fmt.Errorf("frame_rate must not be negative, got %d", c.FrameRate)
	case c.MaxClones < 0:
		return fmt.Errorf("max_clones must not be negative, got %d", c.MaxClones)
	case c.StageWidth <= 0 || c.StageHeight <= 0:
		return fmt.Errorf("stage size must be positive, got %dx%d", c.StageWidth, c.StageHeight)
	}
	return nil
}
