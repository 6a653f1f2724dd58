package cache

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"helios-hq/triton/pkg/validator"
)

// Key identifies one cached program.
type Key struct {
	// SchemaID is the schema's identity.
	SchemaID string

	// Class is the compiled class name.
	Class string

	// Options is the compilation-option fingerprint.
	Options string
}

// String returns the key in schema/class/options form.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.SchemaID, k.Class, k.Options)
}

// Recorder receives cache hit/miss notifications. The telemetry metrics
// package provides an implementation; a nil recorder disables recording.
type Recorder interface {
	CacheHit()
	CacheMiss()
}

// ProgramCache memoizes compiled programs with at-most-once population
// per key. It is safe for concurrent use.
type ProgramCache struct {
	mu       sync.RWMutex
	programs map[Key]*validator.Program

	group    singleflight.Group
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a ProgramCache.
type Option func(*ProgramCache)

// WithRecorder attaches a hit/miss recorder.
func WithRecorder(r Recorder) Option {
	return func(c *ProgramCache) { c.recorder = r }
}

// WithLogger sets the cache's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ProgramCache) { c.logger = logger }
}

// New creates an empty program cache.
func New(opts ...Option) *ProgramCache {
	c := &ProgramCache{
		programs: make(map[Key]*validator.Program),
		logger:   slog.Default().With("component", "validator.cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompile returns the cached program for the class, compiling it at
// most once per key when absent. Concurrent first callers share one
// compilation; a failed compilation is not cached, so the next call after
// a schema fix retries.
func (c *ProgramCache) GetOrCompile(compiler *validator.Compiler, className string) (*validator.Program, error) {
	key := Key{
		SchemaID: compiler.SchemaID(),
		Class:    className,
		Options:  compiler.Options().Fingerprint(),
	}

	c.mu.RLock()
	program, ok := c.programs[key]
	c.mu.RUnlock()
	if ok {
		if c.recorder != nil {
			c.recorder.CacheHit()
		}
		return program, nil
	}

	if c.recorder != nil {
		c.recorder.CacheMiss()
	}

	result, err, _ := c.group.Do(key.String(), func() (any, error) {
		// Re-check under the flight: a racing invalidation may have
		// repopulated while this caller waited.
		c.mu.RLock()
		program, ok := c.programs[key]
		c.mu.RUnlock()
		if ok {
			return program, nil
		}

		program, err := compiler.CompileClass(className)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.programs[key] = program
		c.mu.Unlock()

		c.logger.Debug("program compiled and cached",
			"schema_id", key.SchemaID,
			"class", key.Class,
			"options", key.Options,
		)
		return program, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*validator.Program), nil
}

// Get returns the cached program for the key, if present.
func (c *ProgramCache) Get(key Key) (*validator.Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	program, ok := c.programs[key]
	return program, ok
}

// Len returns the number of cached programs.
func (c *ProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

// Invalidate removes one cached program.
func (c *ProgramCache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.programs, key)
}

// InvalidateSchema removes every program compiled from the schema and
// returns how many were dropped.
func (c *ProgramCache) InvalidateSchema(schemaID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key := range c.programs {
		if key.SchemaID == schemaID {
			delete(c.programs, key)
			dropped++
		}
	}
	if dropped > 0 {
		c.logger.Info("invalidated cached programs",
			"schema_id", schemaID,
			"count", dropped,
		)
	}
	return dropped
}

// Clear removes all cached programs.
func (c *ProgramCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs = make(map[Key]*validator.Program)
}
