package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks configuration consistency. It assumes defaults have
// already been applied.
func Validate(cfg *Config) error {
	switch cfg.Store.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.backend must be \"memory\" or \"sqlite\", got %q", cfg.Store.Backend)
	}
	if cfg.Store.Backend == "sqlite" && cfg.Store.Path == "" {
		return fmt.Errorf("store.path is required when store.backend is \"sqlite\"")
	}
	if cfg.Store.RetentionDays < 0 {
		return fmt.Errorf("store.retention_days must not be negative, got %d", cfg.Store.RetentionDays)
	}
	if cfg.Store.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Store.PruneSchedule); err != nil {
			return fmt.Errorf("store.prune_schedule is not a valid cron expression: %w", err)
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}
	return nil
}
