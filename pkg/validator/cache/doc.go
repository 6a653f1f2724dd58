// Package cache memoizes compiled validation programs.
//
// Programs are keyed by (schema identity, class name, compilation-option
// fingerprint). Population is at-most-once per key even under concurrent
// first use: racing callers share a single compilation through
// singleflight and all receive the same program. Reads of an already
// populated entry take only a read lock.
//
// A cached program can only become stale when its schema changes, so
// invalidation is schema-scoped: InvalidateSchema drops every program
// compiled from one schema. The optional Watcher ties invalidation to the
// filesystem, dropping a schema's programs whenever its backing file is
// rewritten, the same hot-reload shape used for any externally managed
// artifact.
package cache
