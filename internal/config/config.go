// Package config provides Viper-based configuration loading for the game.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GameConfig holds top-level gameplay settings.
type GameConfig struct {
	// Difficulty is the default difficulty profile key for new runs.
	Difficulty string `mapstructure:"difficulty"`
	// Tutorial controls whether creation offers the guided intro.
	Tutorial bool `mapstructure:"tutorial"`
	// Seed forces a deterministic dungeon seed when non-zero.
	Seed int64 `mapstructure:"seed"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	// Content is the directory holding the YAML content catalogs.
	Content string `mapstructure:"content"`
	// Saves is the directory holding save slots and run history.
	Saves string `mapstructure:"saves"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File is an optional path; when set, logs go there instead of stderr
	// so they do not interleave with the game screen.
	File string `mapstructure:"file"`
}

// UpdaterConfig holds release check settings.
type UpdaterConfig struct {
	// Enabled turns the startup release check on or off.
	Enabled bool `mapstructure:"enabled"`
	// Repo is the "owner/name" GitHub repository to check.
	Repo string `mapstructure:"repo"`
	// Frequency limits how often the check runs: "diaria", "semanal", "mensal".
	Frequency string `mapstructure:"frequency"`
	// Timeout bounds the HTTP request to the release API.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the top-level application configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Logging LoggingConfig `mapstructure:"logging"`
	Updater UpdaterConfig `mapstructure:"updater"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePaths(c.Paths); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateUpdater(c.Updater); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	validDifficulties := map[string]bool{"facil": true, "normal": true, "dificil": true}
	if !validDifficulties[g.Difficulty] {
		return fmt.Errorf("game.difficulty must be one of [facil, normal, dificil], got %q", g.Difficulty)
	}
	return nil
}

func validatePaths(p PathsConfig) error {
	var errs []string
	if p.Content == "" {
		errs = append(errs, "paths.content must not be empty")
	}
	if p.Saves == "" {
		errs = append(errs, "paths.saves must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateUpdater(u UpdaterConfig) error {
	var errs []string
	if u.Enabled && u.Repo == "" {
		errs = append(errs, "updater.repo must not be empty when updater.enabled is true")
	}
	validFrequencies := map[string]bool{"diaria": true, "semanal": true, "mensal": true}
	if !validFrequencies[u.Frequency] {
		errs = append(errs, fmt.Sprintf("updater.frequency must be one of [diaria, semanal, mensal], got %q", u.Frequency))
	}
	if u.Timeout < 0 {
		errs = append(errs, "updater.timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MASMORRA_ prefix
	v.SetEnvPrefix("MASMORRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no config file is
// present.
//
// Postcondition: the returned Config passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("built-in defaults are invalid: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.difficulty", "normal")
	v.SetDefault("game.tutorial", true)
	v.SetDefault("game.seed", 0)

	v.SetDefault("paths.content", "content")
	v.SetDefault("paths.saves", "saves")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "masmorra.log")

	v.SetDefault("updater.enabled", true)
	v.SetDefault("updater.repo", "procha/masmorra")
	v.SetDefault("updater.frequency", "semanal")
	v.SetDefault("updater.timeout", "3s")
}
