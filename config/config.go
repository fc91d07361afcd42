// Package config loads weft.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is looked up in the working directory when no path is given.
const FileName = "weft.toml"

// EnvVar names an explicit configuration file.
const EnvVar = "WEFT_CONFIG"

type Config struct {
	Parser     ParserConfig     `toml:"parser"`
	Resilience ResilienceConfig `toml:"resilience"`
	Codebase   CodebaseConfig   `toml:"codebase"`
	Log        LogConfig        `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

type ParserConfig struct {
	Fuel int `toml:"fuel"`
}

type ResilienceConfig struct {
	Threshold float64 `toml:"threshold"`
	Cutoff    int     `toml:"lcs_cutoff"`
	Workers   int     `toml:"workers"`
	Worst     int     `toml:"worst"`
}

type CodebaseConfig struct {
	CacheSize     int      `toml:"cache_size"`
	Workers       int      `toml:"workers"`
	WatchInterval Duration `toml:"watch_interval"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Duration reads "500ms" style strings.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Parser.Fuel <= 0 {
		c.Parser.Fuel = 256
	}
	if c.Resilience.Threshold <= 0 {
		c.Resilience.Threshold = 0.9
	}
	if c.Resilience.Cutoff <= 0 {
		c.Resilience.Cutoff = 2000
	}
	if c.Resilience.Workers <= 0 {
		c.Resilience.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Resilience.Worst <= 0 {
		c.Resilience.Worst = 10
	}
	if c.Codebase.CacheSize <= 0 {
		c.Codebase.CacheSize = 256
	}
	if c.Codebase.Workers <= 0 {
		c.Codebase.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Log.Verbosity < 0 {
		c.Log.Verbosity = 0
	}
}

func (c *Config) validate() error {
	if c.Resilience.Threshold > 1 {
		return fmt.Errorf("resilience.threshold must be at most 1, got %v", c.Resilience.Threshold)
	}
	if c.Codebase.WatchInterval.Duration < 0 {
		return fmt.Errorf("codebase.watch_interval must not be negative")
	}
	return nil
}

// Parse decodes a configuration document. Unknown keys are an error so that
// typos do not silently fall back to defaults.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(&cfg, md)
}

// Load reads the configuration at path. With an empty path it tries
// $WEFT_CONFIG and then ./weft.toml, and returns the defaults when neither
// exists.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvVar)
		explicit = path != ""
	}
	if !explicit {
		path = FileName
	}
	path = os.ExpandEnv(path)

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.Path, _ = filepath.Abs(path)
	return finish(&cfg, md)
}

func finish(cfg *Config, md toml.MetaData) (*Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
