package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file created by init.
const FileName = "statementlens.yaml"

// EnvPrefix prefixes environment overrides, e.g. STATEMENTLENS_LOGGING_LEVEL.
const EnvPrefix = "STATEMENTLENS"

// Config represents the top-level statementlens.yaml configuration.
type Config struct {
	Import   ImportConfig   `yaml:"import" mapstructure:"import"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Parsing  ParsingConfig  `yaml:"parsing" mapstructure:"parsing"`
}

// ImportConfig controls the import command.
type ImportConfig struct {
	Concurrency   int  `yaml:"concurrency" mapstructure:"concurrency"` // files parsed at once; 0 = unlimited
	MoveProcessed bool `yaml:"move_processed" mapstructure:"move_processed"`
}

// LedgerConfig locates the monthly ledger files.
type LedgerConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// DatabaseConfig controls the optional SQLite copy of the ledger.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ParsingConfig controls how statement values are read.
type ParsingConfig struct {
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

// Location loads the configured time zone.
func (p ParsingConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Concurrency:   4,
			MoveProcessed: true,
		},
		Ledger: LedgerConfig{
			Dir: "ledger",
		},
		Database: DatabaseConfig{
			Enabled: false,
			Path:    "statementlens.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Parsing: ParsingConfig{
			Timezone: "Pacific/Auckland",
		},
	}
}

// defaults flattens Default into viper keys.
func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"import.concurrency":    d.Import.Concurrency,
		"import.move_processed": d.Import.MoveProcessed,
		"ledger.dir":            d.Ledger.Dir,
		"database.enabled":      d.Database.Enabled,
		"database.path":         d.Database.Path,
		"logging.level":         d.Logging.Level,
		"logging.format":        d.Logging.Format,
		"parsing.timezone":      d.Parsing.Timezone,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads a statementlens.yaml file from disk. Keys missing from the file
// take their default, and STATEMENTLENS_* environment variables override both.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return decode(v)
}

// FromEnv returns the defaults with environment overrides applied, for use
// outside a project directory.
func FromEnv() (*Config, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
