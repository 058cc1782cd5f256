// Package config loads qcm settings from defaults, an optional YAML config
// file, a .env file, QCM_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "QCM"

// Config holds application configuration.
type Config struct {
	Env         string         `mapstructure:"env"`          // "production" or "development"
	Dir         string         `mapstructure:"dir"`          // directory holding QCM files
	DBPath      string         `mapstructure:"db"`           // SQLite history database
	LogFile     string         `mapstructure:"log_file"`     // zap output path
	SkipInvalid bool           `mapstructure:"skip_invalid"` // skip bad files instead of failing
	Limit       int            `mapstructure:"limit"`        // max questions per quiz, 0 = all
	Generate    GenerateConfig `mapstructure:"generate"`
}

// GenerateConfig controls LLM question generation.
type GenerateConfig struct {
	Count int `mapstructure:"count"` // questions per generated file
}

// IsDevelopment reports whether development logging is requested.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("dir must not be empty")
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d", c.Limit)
	}
	if c.Generate.Count < 1 {
		return fmt.Errorf("generate.count must be >= 1, got %d", c.Generate.Count)
	}
	return nil
}

// Load reads configuration. configFile may be empty, in which case
// config.yaml is looked up in the working directory and in the qcm config
// directory. flags, when non-nil, override every other source for the flags
// the user actually set.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()

	stateDir, err := stateHome()
	if err != nil {
		return nil, err
	}
	dataDir, err := dataHome()
	if err != nil {
		return nil, err
	}

	v.SetDefault("env", "production")
	v.SetDefault("dir", "rl")
	v.SetDefault("db", filepath.Join(dataDir, "qcm", "qcm.db"))
	v.SetDefault("log_file", filepath.Join(stateDir, "qcm", "qcm.log"))
	v.SetDefault("skip_invalid", false)
	v.SetDefault("limit", 0)
	v.SetDefault("generate.count", 10)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if cfgDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(cfgDir, "qcm"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// flagKeys maps config keys to the cobra flag names that can override them.
var flagKeys = map[string]string{
	"dir":            "dir",
	"db":             "db",
	"log_file":       "log-file",
	"skip_invalid":   "skip-invalid",
	"limit":          "limit",
	"generate.count": "count",
}

func dataHome() (string, error) {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

func stateHome() (string, error) {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state"), nil
}
