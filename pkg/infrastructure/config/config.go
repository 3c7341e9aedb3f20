// Package config loads poolplan settings from a YAML file and POOLPLAN_
// environment variables. Precedence: environment > file > defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vsinha/poolplan/pkg/domain/entities"
	"github.com/vsinha/poolplan/pkg/domain/services/normalizer"
)

// Config is the full poolplan configuration
type Config struct {
	// Epoch is the first date the allocator owns, YYYY-MM-DD
	Epoch         string                `mapstructure:"epoch"`
	Log           LogConfig             `mapstructure:"log"`
	Allocation    AllocationConfig      `mapstructure:"allocation"`
	Store         StoreConfig           `mapstructure:"store"`
	Catalog       []KindConfig          `mapstructure:"catalog"`
	Compatibility []CompatibilityConfig `mapstructure:"compatibility"`
	Equipment     EquipmentConfig       `mapstructure:"equipment"`
}

// LogConfig selects the zap encoder and level
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AllocationConfig tunes the engine
type AllocationConfig struct {
	Parallel bool `mapstructure:"parallel"`
}

// StoreConfig locates the run catalog
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// KindConfig is one catalog entry
type KindConfig struct {
	Code          string           `mapstructure:"code"`
	DisplayName   string           `mapstructure:"display_name"`
	PlannedDays   int              `mapstructure:"planned_days"`
	UnplannedDays int              `mapstructure:"unplanned_days"`
	Overrides     []OverrideConfig `mapstructure:"overrides"`
}

// OverrideConfig is a per-sub-component budget
type OverrideConfig struct {
	Subcomponent  string `mapstructure:"subcomponent"`
	PlannedDays   int    `mapstructure:"planned_days"`
	UnplannedDays int    `mapstructure:"unplanned_days"`
}

// CompatibilityConfig maps one source pair to its canonical pair
type CompatibilityConfig struct {
	Component             string `mapstructure:"component"`
	Subcomponent          string `mapstructure:"subcomponent"`
	CanonicalComponent    string `mapstructure:"canonical_component"`
	CanonicalSubcomponent string `mapstructure:"canonical_subcomponent"`
}

// EquipmentConfig drives equipment name canonicalisation
type EquipmentConfig struct {
	Prefixes      map[string]string `mapstructure:"prefixes"`
	ModelAliases  map[string]string `mapstructure:"model_aliases"`
	DefaultPrefix string            `mapstructure:"default_prefix"`
	Digits        int               `mapstructure:"digits"`
}

// Load reads configuration from path, or from poolplan.yaml in the working
// directory when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("epoch", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("allocation.parallel", false)
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "data/poolplan.db")
	v.SetDefault("equipment.default_prefix", "TK")
	v.SetDefault("equipment.digits", 3)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("poolplan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("POOLPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot fall back to a default
func (c *Config) Validate() error {
	if c.Epoch != "" {
		if _, err := c.EpochDate(); err != nil {
			return err
		}
	}
	if c.Equipment.Digits <= 0 {
		return fmt.Errorf("config validation failed: equipment.digits must be positive, got %d", c.Equipment.Digits)
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("config validation failed: store.path cannot be empty when the store is enabled")
	}
	if _, err := c.BuildCatalog(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// EpochDate parses the configured epoch; an empty epoch is the zero date
func (c *Config) EpochDate() (time.Time, error) {
	if c.Epoch == "" {
		return time.Time{}, nil
	}
	epoch, err := time.Parse(time.DateOnly, c.Epoch)
	if err != nil {
		return time.Time{}, fmt.Errorf("config validation failed: epoch %q: %w", c.Epoch, entities.ErrMalformedDate)
	}
	return epoch, nil
}

// BuildCatalog turns the catalog section into a Catalog. An empty section
// yields the built-in fleet catalog.
func (c *Config) BuildCatalog() (*entities.Catalog, error) {
	if len(c.Catalog) == 0 {
		return entities.DefaultCatalog(), nil
	}

	kinds := make([]entities.ComponentKind, 0, len(c.Catalog))
	for _, kc := range c.Catalog {
		overrides := make(map[string]entities.OverhaulBudget, len(kc.Overrides))
		for _, o := range kc.Overrides {
			overrides[normalizer.FoldKey(o.Subcomponent)] = entities.OverhaulBudget{
				PlannedDays:   o.PlannedDays,
				UnplannedDays: o.UnplannedDays,
			}
		}
		kind, err := entities.NewComponentKind(
			entities.ComponentCode(normalizer.FoldKey(kc.Code)),
			kc.DisplayName,
			kc.PlannedDays,
			kc.UnplannedDays,
			overrides,
		)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, *kind)
	}
	return entities.NewCatalog(kinds...)
}

// BuildRules overlays the compatibility and equipment sections on the
// built-in normalizer rules
func (c *Config) BuildRules() normalizer.Rules {
	rules := normalizer.DefaultRules()

	if len(c.Compatibility) > 0 {
		rules.Compatibility = make(map[normalizer.ComponentPair]normalizer.ComponentPair, len(c.Compatibility))
		for _, cc := range c.Compatibility {
			from := normalizer.ComponentPair{
				Component:    normalizer.FoldKey(cc.Component),
				Subcomponent: normalizer.FoldKey(cc.Subcomponent),
			}
			rules.Compatibility[from] = normalizer.ComponentPair{
				Component:    normalizer.FoldKey(cc.CanonicalComponent),
				Subcomponent: normalizer.FoldKey(cc.CanonicalSubcomponent),
			}
		}
	}

	// viper lower-cases map keys; models are matched upper-case
	if len(c.Equipment.Prefixes) > 0 {
		rules.EquipmentPrefixes = upperKeys(c.Equipment.Prefixes)
	}
	if len(c.Equipment.ModelAliases) > 0 {
		rules.ModelAliases = upperKeys(c.Equipment.ModelAliases)
	}
	if c.Equipment.DefaultPrefix != "" {
		rules.DefaultPrefix = strings.ToUpper(c.Equipment.DefaultPrefix)
	}
	if c.Equipment.Digits > 0 {
		rules.EquipmentDigits = c.Equipment.Digits
	}
	return rules
}

func upperKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToUpper(k)] = strings.ToUpper(v)
	}
	return out
}
