// Package config loads the fsc configuration: an optional YAML file
// overlaid with FUNDSCREEN_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/formula"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultFile     = "fundscreen.yaml"
	DefaultDataDir  = ".fundscreen"
	DefaultCurrency = "AUD"
	DefaultModel    = "gemini-2.5-pro"
	EnvPrefix       = "FUNDSCREEN"
)

// Config is the application configuration.
type Config struct {
	DataDir   string `mapstructure:"data_dir"`
	AliasFile string `mapstructure:"alias_file"`
	Currency  string `mapstructure:"currency"`
	Model     string `mapstructure:"model"`

	// Aliases and Categories are case sensitive maps, viper would lower
	// their keys: they are read from the file directly.
	Aliases    map[string]string `mapstructure:"-"`
	Categories map[string]string `mapstructure:"-"`
}

// Load reads the configuration file at path, DefaultFile when empty, then
// applies the environment. A missing DefaultFile is not an error, a missing
// explicit path is.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("alias_file", "")
	v.SetDefault("currency", DefaultCurrency)
	v.SetDefault("model", DefaultModel)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	found := true
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("cannot read config file %q: %w", path, err)
		}
		found = false
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if found {
		if err := c.readMaps(path); err != nil {
			return Config{}, err
		}
	}
	return c, nil
}

func (c *Config) readMaps(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open config file %q: %w", path, err)
	}
	defer f.Close()

	var raw struct {
		Aliases    map[string]string `yaml:"aliases"`
		Categories map[string]string `yaml:"categories"`
	}
	if err := yaml.NewDecoder(f).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config file %q: %w", path, err)
	}
	c.Aliases, c.Categories = raw.Aliases, raw.Categories
	return nil
}

// AliasTable returns the default aliases, overridden by the alias file then
// by the aliases of the configuration.
func (c Config) AliasTable() (formula.Aliases, error) {
	table := formula.DefaultAliases()
	if c.AliasFile != "" {
		f, err := os.Open(c.AliasFile)
		if err != nil {
			return nil, fmt.Errorf("cannot open alias file: %w", err)
		}
		defer f.Close()
		fromFile, err := formula.DecodeAliases(f)
		if err != nil {
			return nil, fmt.Errorf("invalid alias file %q: %w", c.AliasFile, err)
		}
		table = table.Merge(fromFile)
	}
	table = table.Merge(c.Aliases)
	if err := table.Check(); err != nil {
		return nil, fmt.Errorf("invalid aliases: %w", err)
	}
	return table, nil
}

// CategoryMapping returns the default category mapping with the overrides
// of the configuration.
func (c Config) CategoryMapping() (fundscreen.CategoryMapping, error) {
	return fundscreen.NewCategoryMapping(c.Categories)
}
