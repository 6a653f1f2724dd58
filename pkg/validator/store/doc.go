// Package store archives validation reports for the reporting and
// aggregation layers above the core.
//
// Two backends implement the Store interface: an in-memory store for
// tests and short-lived tooling, and a SQLite store (modernc.org/sqlite,
// pure Go) for durable archives, with issues serialized as JSON payloads.
// Retention is handled by a Pruner that deletes reports past a configured
// age or count, optionally driven on a cron schedule by the Scheduler.
//
// The store is a consumer of the validation core, never a dependency of
// it: the compiler and executor know nothing about persistence.
package store
