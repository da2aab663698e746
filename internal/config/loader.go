package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "THUMBLENS"

// newViper builds a Viper instance with the standard settings: YAML file type,
// THUMBLENS_ env prefix, automatic env binding, and a "." → "_" key replacer
// so that "api.base_url" resolves to THUMBLENS_API_BASE_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindKeys(v)
	return v
}

// bindKeys registers the scalar keys that may be supplied only through the
// environment.  AutomaticEnv alone does not surface keys that are absent from
// the config file during Unmarshal.
func bindKeys(v *viper.Viper) {
	v.SetDefault("metrics.enabled", true)
	for _, key := range []string{
		"api.base_url", "api.timeout", "api.static_prefix", "api.user_agent",
		"reference.group", "reference.baseline_score",
		"categories.fallback_color",
		"transform.low_percentile", "transform.high_percentile", "transform.pad_fraction",
		"transform.bin_tolerance", "transform.slope_epsilon", "transform.heat_low", "transform.heat_high",
		"views.default_bins", "views.default_k", "views.default_method", "views.default_min_years",
		"views.default_feature", "views.evolution_top", "views.evolution_bottom", "views.page_size",
		"views.fetch_concurrency",
		"server.port", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
		"metrics.namespace",
		"log.level", "log.format",
	} {
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges THUMBLENS_* overrides,
// applies defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from THUMBLENS_* environment variables and
// defaults, with no file.
//
//	THUMBLENS_<SECTION>_<FIELD>   e.g.  THUMBLENS_API_BASE_URL, THUMBLENS_REFERENCE_BASELINE_SCORE
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state, applies defaults and validates.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch invokes onChange with the re-parsed Config whenever configPath changes
// on disk.  Changes that fail to parse or validate are passed to onError (if
// non-nil) and onChange is skipped.  Watch does not block.
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad is Load that panics on error, for use in main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
