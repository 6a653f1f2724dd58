package config

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	applyBoolDefault(&cfg.Compiler.CompilePatterns, true)
	applyBoolDefault(&cfg.Compiler.OptimizeRanges, true)
	applyBoolDefault(&cfg.Compiler.OptimizeTypes, true)
	applyBoolDefault(&cfg.Compiler.PrecomputeInheritance, true)
	applyBoolDefault(&cfg.Compiler.CachePermissibleValues, true)

	applyBoolDefault(&cfg.Cache.Enabled, true)

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/reports.db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "triton"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "validator"
	}
}

func applyBoolDefault(field **bool, value bool) {
	if *field == nil {
		v := value
		*field = &v
	}
}
