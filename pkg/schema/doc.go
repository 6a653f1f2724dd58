// Package schema defines the in-memory model for a declarative validation
// schema: classes, slots, types, enumerations, and their constraint fields.
//
// The model is purely structural. It is built once by an external loader,
// is immutable for the lifetime of everything layered on top of it, and
// carries no behavior beyond ordered access to its definitions. Classes,
// slots, and enums reference each other by name, not by pointer; resolving
// those names is the job of pkg/schema/view, and dangling names surface as
// compile-time errors there rather than as invalid references here.
//
// Definition order is preserved everywhere it matters: the order classes
// and slots are registered is the order the resolver and compiler walk
// them, which in turn fixes diagnostic ordering.
package schema
