// Package telemetry groups the observability subpackages: structured
// logging (telemetry/logging) and Prometheus metrics (telemetry/metrics).
//
// The validation core stays free of telemetry so it remains a pure
// library; these packages are wired in by the hosts that embed it (the
// CLI, the program cache, the report store).
package telemetry
