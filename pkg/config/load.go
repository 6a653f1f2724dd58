package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"helios-hq/triton/pkg/validator"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads from file, then applies environment
// variable overrides named TRITON_SECTION_FIELD (e.g. TRITON_STORE_PATH,
// TRITON_LOGGING_LEVEL). Environment variables take precedence over the
// file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after env overrides: %w", err)
	}
	return cfg, nil
}

// Default returns a fully defaulted configuration without reading a file.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// CompilerOptions converts the config toggles to compiler options.
func (c *Config) CompilerOptions() validator.Options {
	deref := func(p *bool) bool { return p != nil && *p }
	return validator.Options{
		CompilePatterns:        deref(c.Compiler.CompilePatterns),
		OptimizeRanges:         deref(c.Compiler.OptimizeRanges),
		OptimizeTypes:          deref(c.Compiler.OptimizeTypes),
		PrecomputeInheritance:  deref(c.Compiler.PrecomputeInheritance),
		CachePermissibleValues: deref(c.Compiler.CachePermissibleValues),
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := lookupBool("TRITON_CACHE_ENABLED"); ok {
		cfg.Cache.Enabled = &v
	}
	if v, ok := lookupBool("TRITON_CACHE_WATCH_SCHEMAS"); ok {
		cfg.Cache.WatchSchemas = v
	}
	if v := os.Getenv("TRITON_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("TRITON_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("TRITON_STORE_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Store.RetentionDays = days
		}
	}
	if v := os.Getenv("TRITON_STORE_PRUNE_SCHEDULE"); v != "" {
		cfg.Store.PruneSchedule = v
	}
	if v := os.Getenv("TRITON_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRITON_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v, ok := lookupBool("TRITON_METRICS_ENABLED"); ok {
		cfg.Metrics.Enabled = v
	}
}

func lookupBool(name string) (bool, bool) {
	v := os.Getenv(name)
	if v == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return parsed, true
}
