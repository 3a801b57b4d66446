// Package config loads yechim's settings from an optional YAML file,
// YECHIM_* environment variables and built-in defaults, in that order of
// precedence (flags are applied on top by the commands).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/yechim/internal/llm"
	"github.com/abhisek/yechim/internal/tracker"
)

// EnvPrefix prefixes every environment override, e.g. YECHIM_STORE_PATH.
const EnvPrefix = "YECHIM"

// Config holds the complete application configuration.
type Config struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Solver  SolverConfig  `mapstructure:"solver" yaml:"solver"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	LLM     llm.Config    `mapstructure:"llm" yaml:"llm"`
}

type StoreConfig struct {
	// Path of the SQLite file. Empty means the XDG data directory.
	Path string `mapstructure:"path" yaml:"path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `mapstructure:"format" yaml:"format"`

	// File receives log output instead of stderr when set. The TUI always
	// needs one, otherwise logs are discarded while it runs.
	File string `mapstructure:"file" yaml:"file"`
}

type SolverConfig struct {
	// HistoryLimit caps both the in-memory history and the stored one.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`

	// StrictWordProblems fails word problems whose operation cannot be
	// detected instead of answering 0.
	StrictWordProblems bool `mapstructure:"strict_word_problems" yaml:"strict_word_problems"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`

	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode" yaml:"mode"`

	// MaxUploadMB bounds image uploads.
	MaxUploadMB int `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Solver: SolverConfig{
			HistoryLimit: tracker.DefaultHistoryLimit,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			Mode:        "release",
			MaxUploadMB: 10,
		},
		LLM: llm.DefaultConfig(),
	}
}

// Load reads configuration from path, or from the first config.yaml found
// in the search paths when path is empty. A missing file in the search
// paths is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if c.Solver.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("solver.history_limit must be positive, got %d", c.Solver.HistoryLimit))
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive"))
	}
	return errors.Join(errs...)
}

// WriteDefault writes the default configuration as YAML to path, creating
// parent directories. An existing file is left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Dir returns the configuration directory:
// $XDG_CONFIG_HOME/yechim or ~/.config/yechim.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "yechim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "yechim")
}

// DefaultPath returns the path `yechim config init` writes to.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// setDefaults registers every key of Default() with viper. Registering
// all keys is what lets AutomaticEnv override nested values on Unmarshal.
func setDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	flatten("", tree, v.SetDefault)
	return nil
}

func flatten(prefix string, tree map[string]any, set func(string, any)) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			flatten(key, sub, set)
			continue
		}
		set(key, val)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
