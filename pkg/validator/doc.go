// Package validator compiles resolved schema classes into reusable
// validation programs and executes those programs against JSON-like value
// trees.
//
// # Architecture
//
// The package splits into three pieces:
//
//  1. Compiler - turns a class's induced slots (and its class-level rules)
//     into an ordered list of validation instructions plus de-duplicated
//     side tables of compiled regular expressions and permissible-value
//     sets.
//  2. Program - the immutable compiled artifact. A program is compiled
//     once and reused for any number of executions, concurrently.
//  3. Executor - a pure interpreter that walks a program against a value
//     and collects path-addressed issues. It never stops early: every
//     instruction runs and every violation is reported in one pass.
//
// # Compilation Flow
//
//	SchemaDefinition
//	       ↓
//	SchemaView (induced slots per class)
//	       ↓
//	Compiler (per class: instructions + pattern/enum tables)
//	       ↓
//	Program (cached, shared)
//	       ↓
//	Executor (per data instance) → []report.ValidationIssue
//
// # Basic Usage
//
//	sv := view.NewSchemaView(sch)
//	compiler := validator.NewCompiler(sv, validator.DefaultOptions())
//	program, err := compiler.CompileClass("Person")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exec := validator.NewExecutor()
//	issues := exec.Execute(program, value)
//	for _, issue := range issues {
//	    fmt.Printf("%s %s: %s\n", issue.Severity, issue.Path, issue.Message)
//	}
//
// # Error Handling
//
// Compilation errors (cyclic inheritance, unresolved names, invalid regex
// patterns, abstract targets) abort CompileClass with a descriptive error
// and produce no partial program. Execution never returns an error: every
// constraint violation is a collected issue, and failures of the injected
// expression evaluator become issues with their own code instead of
// propagating.
//
// # Thread Safety
//
// A Compiler serializes access to its shared side tables and may be used
// from multiple goroutines. A Program is immutable after compilation. An
// Executor holds no mutable state; Execute is a pure function of
// (program, value) and is safe to call concurrently with a shared program.
package validator
