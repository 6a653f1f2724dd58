// Package view resolves a class's full constraint surface across its
// inheritance graph.
//
// The central operation is SchemaView.InducedSlots: given a class name it
// returns the ordered, flattened set of effective slots after walking the
// single is_a parent chain and the mixin list, applying field-level
// slot_usage overrides along the way. Parent slots come first, then the
// class's direct slots and attributes, then mixin slots in declaration
// order; a slot seen again keeps its first position but still merges the
// closer-scoped constraint fields.
//
// All walks carry an explicit visiting set, so a cyclic schema fails with
// a CyclicInheritanceError instead of overflowing the stack, and every
// dangling class or slot name fails with an UnresolvedReferenceError at
// resolution time rather than surfacing during validation.
package view
