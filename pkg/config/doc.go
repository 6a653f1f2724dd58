// Package config loads and validates the engine configuration.
//
// Configuration comes from a YAML file, with defaults applied for every
// unset field and optional environment-variable overrides using the
// TRITON_SECTION_FIELD naming convention (e.g. TRITON_STORE_PATH).
// Loading always validates the final configuration, so a successfully
// loaded Config is usable as-is.
package config
