package config

// Config is the root configuration for the validation engine and the
// tooling around it.
type Config struct {
	// Compiler controls program compilation.
	Compiler CompilerConfig `yaml:"compiler"`

	// Cache controls the compiled-program cache.
	Cache CacheConfig `yaml:"cache"`

	// Store controls the validation-report archive.
	Store StoreConfig `yaml:"store"`

	// Logging controls structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics controls Prometheus metric naming and exposure.
	Metrics MetricsConfig `yaml:"metrics"`
}

// CompilerConfig mirrors the compilation option toggles. All toggles
// default to enabled; disabling them aids debugging and measuring what an
// optimization buys.
type CompilerConfig struct {
	// CompilePatterns de-duplicates the compiled-regex table.
	// Default: true.
	CompilePatterns *bool `yaml:"compile_patterns"`

	// OptimizeRanges fuses minimum and maximum bounds into one
	// instruction. Default: true.
	OptimizeRanges *bool `yaml:"optimize_ranges"`

	// OptimizeTypes memoizes range-to-type mapping. Default: true.
	OptimizeTypes *bool `yaml:"optimize_types"`

	// PrecomputeInheritance reuses induced-slot resolutions across
	// compiles. Default: true.
	PrecomputeInheritance *bool `yaml:"precompute_inheritance"`

	// CachePermissibleValues de-duplicates permissible-value sets.
	// Default: true.
	CachePermissibleValues *bool `yaml:"cache_permissible_values"`
}

// CacheConfig controls the compiled-program cache.
type CacheConfig struct {
	// Enabled turns program caching on. Default: true.
	Enabled *bool `yaml:"enabled"`

	// WatchSchemas enables filesystem invalidation for registered
	// schema files. Default: false.
	WatchSchemas bool `yaml:"watch_schemas"`
}

// StoreConfig controls the report archive.
type StoreConfig struct {
	// Backend selects the storage backend: "memory" or "sqlite".
	// Default: "memory".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "data/reports.db".
	Path string `yaml:"path"`

	// RetentionDays is the maximum report age in days; zero keeps
	// reports forever. Default: 0.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for automatic pruning; empty
	// disables the scheduler. Default: "".
	PruneSchedule string `yaml:"prune_schedule"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info".
	Level string `yaml:"level"`

	// Format selects the handler: text or json. Default: "text".
	Format string `yaml:"format"`
}

// MetricsConfig controls Prometheus metric naming.
type MetricsConfig struct {
	// Enabled turns metric registration on. Default: false.
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name. Default: "triton".
	Namespace string `yaml:"namespace"`

	// Subsystem is the second name component. Default: "validator".
	Subsystem string `yaml:"subsystem"`
}
