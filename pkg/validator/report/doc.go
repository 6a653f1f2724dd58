// Package report defines the shared vocabulary for validation results:
// severities, issue codes, path-addressed issues, and the aggregate
// ValidationReport.
//
// The package is deliberately free of behavior beyond aggregation. The
// executor produces issues; how they are collected (fail-fast, collect-all,
// persisted, rendered) is the caller's concern, so alternate aggregation
// strategies can be layered without touching the execution engine. A value
// is "valid" exactly when it produced zero Error-severity issues; warnings
// and infos are always reported but never flip validity.
package report
