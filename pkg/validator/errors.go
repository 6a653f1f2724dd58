package validator

import "fmt"

// InvalidPatternError indicates a slot's regex pattern failed to compile.
// Pattern errors surface at compile time, never during execution.
type InvalidPatternError struct {
	// Slot names the slot carrying the pattern, when known.
	Slot string

	// Pattern is the offending pattern text.
	Pattern string

	// Cause is the underlying regexp error.
	Cause error
}

// Error returns the error message.
func (e *InvalidPatternError) Error() string {
	if e.Slot != "" {
		return fmt.Sprintf("slot %q: invalid pattern %q: %v", e.Slot, e.Pattern, e.Cause)
	}
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying regexp error.
func (e *InvalidPatternError) Unwrap() error { return e.Cause }

// AbstractClassError indicates an attempt to compile a validator for an
// abstract class. Abstract classes are only inherited from, never
// validated directly.
type AbstractClassError struct {
	// Class is the abstract class name.
	Class string
}

// Error returns the error message.
func (e *AbstractClassError) Error() string {
	return fmt.Sprintf("class %q is abstract and cannot be validated directly", e.Class)
}
