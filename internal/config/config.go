// Package config loads the scaffolder's settings.
//
// Settings come from, in increasing order of precedence: built-in defaults,
// an optional create-silica.yml in the user's config directory, environment
// variables prefixed with CREATE_SILICA_, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file name, without extension.
	FileName = "create-silica"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CREATE_SILICA"
)

// Config holds the scaffolder settings
type Config struct {
	Verbose     bool
	NoColor     bool
	InitialName string
	Manifest    ManifestDefaults
}

// ManifestDefaults are the fixed values written into every new package.json
type ManifestDefaults struct {
	Version     string
	Description string
	Author      string
	License     string
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		InitialName: "silica-framework-bot",
		Manifest: ManifestDefaults{
			Version:     "1.0.0",
			Description: "A bot written with Silica Framework",
			Author:      "A precious person",
			License:     "UNLICENSED",
		},
	}
}

// Load reads the configuration. flags may be nil; when given, its "verbose"
// and "no-color" flags take precedence over file and environment values.
// dirs lists the directories searched for the config file; when empty the
// user config directory is used.
func Load(flags *pflag.FlagSet, dirs ...string) (*Config, error) {
	def := Defaults()

	v := viper.New()
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("no_color", def.NoColor)
	v.SetDefault("initial_name", def.InitialName)
	v.SetDefault("manifest.version", def.Manifest.Version)
	v.SetDefault("manifest.description", def.Manifest.Description)
	v.SetDefault("manifest.author", def.Manifest.Author)
	v.SetDefault("manifest.license", def.Manifest.License)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		if dir, err := os.UserConfigDir(); err == nil {
			dirs = []string{dir, filepath.Join(dir, FileName)}
		}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s config: %w", FileName, err)
		}
	}

	if flags != nil {
		if f := flags.Lookup("verbose"); f != nil {
			if err := v.BindPFlag("verbose", f); err != nil {
				return nil, fmt.Errorf("failed to bind verbose flag: %w", err)
			}
		}
		if f := flags.Lookup("no-color"); f != nil {
			if err := v.BindPFlag("no_color", f); err != nil {
				return nil, fmt.Errorf("failed to bind no-color flag: %w", err)
			}
		}
	}

	cfg := &Config{
		Verbose:     v.GetBool("verbose"),
		NoColor:     v.GetBool("no_color"),
		InitialName: v.GetString("initial_name"),
		Manifest: ManifestDefaults{
			Version:     v.GetString("manifest.version"),
			Description: v.GetString("manifest.description"),
			Author:      v.GetString("manifest.author"),
			License:     v.GetString("manifest.license"),
		},
	}

	// NO_COLOR is honoured as well (https://no-color.org)
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}

	if cfg.Manifest.Version == "" {
		return nil, fmt.Errorf("manifest.version must not be empty")
	}

	return cfg, nil
}
