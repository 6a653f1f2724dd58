package view

import (
	"fmt"
	"strings"
)

// CyclicInheritanceError indicates a class participates in an is_a or
// mixin cycle.
type CyclicInheritanceError struct {
	// Class is the class whose resolution detected the cycle.
	Class string

	// Path is the inheritance path that closed the cycle.
	Path []string
}

// Error returns the error message.
func (e *CyclicInheritanceError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("cyclic inheritance involving class %q: %s",
			e.Class, strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("cyclic inheritance involving class %q", e.Class)
}

// UnresolvedReferenceError indicates a name used by a definition does not
// resolve to any definition in the schema.
type UnresolvedReferenceError struct {
	// Class is the class whose resolution hit the dangling name.
	Class string

	// Kind describes what the name was expected to be ("class", "mixin",
	// "slot").
	Kind string

	// Name is the dangling name.
	Name string
}

// Error returns the error message.
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("class %q references unknown %s %q", e.Class, e.Kind, e.Name)
}
