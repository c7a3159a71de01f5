// Package config loads the tickets configuration from tickets.yaml,
// TICKETS_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25

	// DefaultUsername is bound to ::me when no username is configured.
	DefaultUsername = "new User"
)

// Config is the effective tickets configuration.
type Config struct {
	// Username is the value of the ::me filter variable.
	Username string `mapstructure:"username" yaml:"username" json:"username"`

	Database DatabaseConfig `mapstructure:"database" yaml:"database" json:"database"`
	Adapter  AdapterConfig  `mapstructure:"adapter" yaml:"adapter" json:"adapter"`
}

// DatabaseConfig holds local database settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
	// IncludeDefaultData seeds default buckets, tags, states and filters on init.
	IncludeDefaultData bool `mapstructure:"include_default_data" yaml:"include_default_data" json:"include_default_data"`
}

// AdapterConfig names the local ticket adapter.
type AdapterConfig struct {
	// Name prefixes the default filters, e.g. local_state_new.
	Name    string `mapstructure:"name" yaml:"name" json:"name"`
	Display string `mapstructure:"display" yaml:"display" json:"display"`
}

// Load discovers and loads configuration with precedence
// env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func Load(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("TICKETS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, configPath, err
	}

	return &cfg, configPath, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Username: DefaultUsername,
		Database: DatabaseConfig{
			Path:               "./local.db3",
			IncludeDefaultData: true,
		},
		Adapter: AdapterConfig{
			Name:    "local",
			Display: "Local Tickets",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("username", d.Username)

	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.include_default_data", d.Database.IncludeDefaultData)

	v.SetDefault("adapter.name", d.Adapter.Name)
	v.SetDefault("adapter.display", d.Adapter.Display)
}

// Validate checks the fields other components rely on.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Adapter.Name == "" {
		errs = append(errs, errors.New("adapter.name is required"))
	} else if strings.ContainsFunc(c.Adapter.Name, isSeparator) {
		errs = append(errs, fmt.Errorf("adapter.name %q must not contain whitespace or parentheses", c.Adapter.Name))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '(' || r == ')'
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for tickets.yaml or tickets.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"tickets.yaml", "tickets.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}
