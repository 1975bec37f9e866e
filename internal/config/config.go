package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ledgerlens-dev/ledgerlens/internal/merchant"
)

// DefaultFileName is the config file looked up in the home directory when
// --config is not given.
const DefaultFileName = ".ledgerlens.yaml"

// Config represents the top-level .ledgerlens.yaml configuration.
type Config struct {
	// PrefixAliases and SubstringAliases are checked in file order;
	// the first matching rule wins.
	PrefixAliases    []AliasRule `yaml:"prefix_aliases,omitempty"`
	SubstringAliases []AliasRule `yaml:"substring_aliases,omitempty"`

	// CategoriesByMerchant re-categorizes transactions of a canonical
	// merchant, overriding whatever category the export carried.
	CategoriesByMerchant map[string]string `yaml:"categories_by_merchant,omitempty"`

	// ChartExcludeCategories are withheld from chart views only; text
	// reports always include them.
	ChartExcludeCategories []string `yaml:"chart_exclude_categories,omitempty"`

	// Datafiles is an optional glob of CSV exports used by --use-datafiles.
	Datafiles string `yaml:"datafiles,omitempty"`
}

// AliasRule maps a raw-description pattern to a canonical merchant name.
type AliasRule struct {
	Match string `yaml:"match"`
	Name  string `yaml:"name"`
}

// Load reads a config file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
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

// DefaultPath returns the default config location in the home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

// Normalizer builds the merchant normalizer from the configured alias
// rules and category overrides.
func (c *Config) Normalizer() *merchant.Normalizer {
	return &merchant.Normalizer{
		Prefix:    rules(c.PrefixAliases),
		Substring: rules(c.SubstringAliases),
		Overrides: c.CategoriesByMerchant,
	}
}

func rules(aliases []AliasRule) []merchant.Rule {
	out := make([]merchant.Rule, len(aliases))
	for i, a := range aliases {
		out[i] = merchant.Rule{Match: a.Match, Name: a.Name}
	}
	return out
}

// ChartExcludes returns the set of categories withheld from charts.
// When disabled, no category is excluded.
func (c *Config) ChartExcludes(disabled bool) map[string]bool {
	excludes := make(map[string]bool)
	if disabled {
		return excludes
	}
	for _, name := range c.ChartExcludeCategories {
		excludes[name] = true
	}
	return excludes
}
