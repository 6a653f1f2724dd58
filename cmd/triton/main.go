// Triton is a schema-driven data validation engine.
//
// It compiles schema classes into flat instruction programs and executes
// them against JSON documents, producing structured validation reports:
//   - Schema inheritance resolution (is_a chains, mixins, slot_usage)
//   - Constraint compilation with pattern and enum side tables
//   - Pure, concurrency-safe program execution
//   - Optional report archival with retention pruning
//
// Usage:
//
//	# Validate data files against a schema class
//	triton validate --schema person.yaml --class Person data.json
//
//	# Inspect the compiled program for a class
//	triton compile --schema person.yaml --class Person
//
//	# Show version information
//	triton version
package main

func main() {
	Execute()
}
