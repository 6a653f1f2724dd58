package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"helios-hq/triton/pkg/config"
	"helios-hq/triton/pkg/schema/view"
	"helios-hq/triton/pkg/telemetry/metrics"
	"helios-hq/triton/pkg/validator"
	"helios-hq/triton/pkg/validator/cache"
	"helios-hq/triton/pkg/validator/report"
	"helios-hq/triton/pkg/validator/store"
)

// runtime bundles the process-scoped components the commands share: one
// program cache for the whole run, the schema-file watcher behind
// cache.watch_schemas, the metrics recorder behind metrics.enabled, and
// the retention machinery for the report store.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger

	registry  *prometheus.Registry
	metrics   *metrics.ValidationMetrics
	cache     *cache.ProgramCache
	watcher   *cache.Watcher
	scheduler *store.Scheduler
}

func newRuntime(cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	r := &runtime{cfg: cfg, logger: logger}

	if cfg.Metrics.Enabled {
		r.registry = prometheus.NewRegistry()
		r.metrics = metrics.New(metrics.Config{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
		}, r.registry)
	}

	if cfg.Cache.Enabled != nil && *cfg.Cache.Enabled {
		var opts []cache.Option
		if r.metrics != nil {
			opts = append(opts, cache.WithRecorder(r.metrics))
		}
		r.cache = cache.New(opts...)

		if cfg.Cache.WatchSchemas {
			w, err := cache.NewWatcher(r.cache, logger)
			if err != nil {
				return nil, err
			}
			r.watcher = w
		}
	}
	return r, nil
}

// compileTarget loads the schema and compiles the class, going through
// the shared program cache when caching is enabled. The schema file is
// registered with the watcher so edits invalidate its cached programs.
func (r *runtime) compileTarget(schemaPath, className string) (*validator.Program, error) {
	start := time.Now()

	sch, err := loadSchemaFile(schemaPath)
	if err != nil {
		return nil, err
	}
	if r.watcher != nil {
		if err := r.watcher.WatchSchema(schemaPath, sch.ID); err != nil {
			return nil, err
		}
	}

	compiler := validator.NewCompiler(view.NewSchemaView(sch), r.cfg.CompilerOptions())

	var program *validator.Program
	if r.cache != nil {
		program, err = r.cache.GetOrCompile(compiler, className)
	} else {
		program, err = compiler.CompileClass(className)
	}
	if r.metrics != nil {
		r.metrics.RecordCompilation(className, err, time.Since(start))
	}
	return program, err
}

// openStore opens the configured report store, prunes reports past the
// retention window once, and starts the cron scheduler when a prune
// schedule is configured.
func (r *runtime) openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch r.cfg.Store.Backend {
	case "sqlite":
		sqliteCfg := store.DefaultSQLiteConfig()
		sqliteCfg.Path = r.cfg.Store.Path
		s, err := store.NewSQLiteStore(sqliteCfg)
		if err != nil {
			return nil, err
		}
		st = s
	default:
		st = store.NewMemoryStore()
	}

	pruner := store.NewPruner(st, store.RetentionConfig{
		RetentionDays: r.cfg.Store.RetentionDays,
		PruneSchedule: r.cfg.Store.PruneSchedule,
	})
	if _, err := pruner.Prune(ctx); err != nil {
		st.Close()
		return nil, err
	}
	if r.cfg.Store.PruneSchedule != "" {
		r.scheduler = store.NewScheduler(pruner)
		if err := r.scheduler.Start(ctx); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

// recordExecution feeds one report into the metrics, when enabled.
func (r *runtime) recordExecution(className string, rep *report.ValidationReport, duration time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordExecution(className, rep.Valid(), duration)
	for _, issue := range rep.Issues {
		r.metrics.RecordIssue(issue.Code, string(issue.Severity))
	}
}

// close stops scheduled pruning and releases the schema watcher.
func (r *runtime) close() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
}
