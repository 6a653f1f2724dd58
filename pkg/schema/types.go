package schema

// SchemaDefinition is the root of a schema: a named collection of class,
// slot, type, and enum definitions. Insertion order is preserved because it
// affects resolution and diagnostic ordering.
type SchemaDefinition struct {
	// ID uniquely identifies the schema (typically a URI). It keys the
	// compiled-program cache together with the class name and options.
	ID string

	// Name is the human-readable schema name.
	Name string

	// Version is an optional schema version string.
	Version string

	classes   *definitionMap[*ClassDefinition]
	slots     *definitionMap[*SlotDefinition]
	types     *definitionMap[*TypeDefinition]
	enums     *definitionMap[*EnumDefinition]
}

// NewSchema creates an empty schema with the given identity.
func NewSchema(id, name string) *SchemaDefinition {
	return &SchemaDefinition{
		ID:      id,
		Name:    name,
		classes: newDefinitionMap[*ClassDefinition](),
		slots:   newDefinitionMap[*SlotDefinition](),
		types:   newDefinitionMap[*TypeDefinition](),
		enums:   newDefinitionMap[*EnumDefinition](),
	}
}

// AddClass registers a class definition. A later registration with the same
// name replaces the earlier one in place, keeping its position.
func (s *SchemaDefinition) AddClass(c *ClassDefinition) { s.classes.put(c.Name, c) }

// AddSlot registers a top-level slot definition.
func (s *SchemaDefinition) AddSlot(sl *SlotDefinition) { s.slots.put(sl.Name, sl) }

// AddType registers a type definition.
func (s *SchemaDefinition) AddType(t *TypeDefinition) { s.types.put(t.Name, t) }

// AddEnum registers an enum definition.
func (s *SchemaDefinition) AddEnum(e *EnumDefinition) { s.enums.put(e.Name, e) }

// Class returns the class with the given name, or nil.
func (s *SchemaDefinition) Class(name string) *ClassDefinition { return s.classes.get(name) }

// Slot returns the top-level slot with the given name, or nil.
func (s *SchemaDefinition) Slot(name string) *SlotDefinition { return s.slots.get(name) }

// Type returns the type with the given name, or nil.
func (s *SchemaDefinition) Type(name string) *TypeDefinition { return s.types.get(name) }

// Enum returns the enum with the given name, or nil.
func (s *SchemaDefinition) Enum(name string) *EnumDefinition { return s.enums.get(name) }

// ClassNames returns all class names in registration order.
func (s *SchemaDefinition) ClassNames() []string { return s.classes.names() }

// SlotNames returns all top-level slot names in registration order.
func (s *SchemaDefinition) SlotNames() []string { return s.slots.names() }

// EnumNames returns all enum names in registration order.
func (s *SchemaDefinition) EnumNames() []string { return s.enums.names() }

// ClassDefinition describes one class: its single inheritance parent, its
// mixins, the slots it declares, and per-slot constraint overrides.
type ClassDefinition struct {
	// Name of the class.
	Name string

	// Description is optional documentation.
	Description string

	// Abstract classes are only inherited from, never validated directly.
	Abstract bool

	// Mixin marks a class intended for use in other classes' Mixins lists.
	Mixin bool

	// IsA names the single parent class, empty for a root class.
	IsA string

	// Mixins names secondary classes contributing slots, in declaration
	// order.
	Mixins []string

	// Slots names the directly declared slots, in declaration order. Each
	// name must resolve to a top-level SlotDefinition in the schema.
	Slots []string

	// SlotUsage refines inherited slot constraints for this class only.
	// Overrides are field-level: unset fields keep the inherited value.
	// The shared SlotDefinition is never mutated.
	SlotUsage map[string]*SlotDefinition

	// Attributes are inline slot definitions owned by this class. They
	// behave like direct slots declared after the Slots list.
	Attributes map[string]*SlotDefinition

	// attributeOrder preserves the declaration order of Attributes.
	attributeOrder []string

	// Rules are class-level if/then/else validation rules.
	Rules []*Rule
}

// AddAttribute registers an inline slot on the class, preserving order.
func (c *ClassDefinition) AddAttribute(sl *SlotDefinition) {
	if c.Attributes == nil {
		c.Attributes = make(map[string]*SlotDefinition)
	}
	if _, ok := c.Attributes[sl.Name]; !ok {
		c.attributeOrder = append(c.attributeOrder, sl.Name)
	}
	c.Attributes[sl.Name] = sl
}

// AttributeNames returns inline slot names in declaration order.
func (c *ClassDefinition) AttributeNames() []string {
	names := make([]string, len(c.attributeOrder))
	copy(names, c.attributeOrder)
	return names
}

// SlotDefinition describes one slot (field) and its constraints. Optional
// constraint fields use pointers so that "unset" is distinguishable from a
// zero value during field-level override merging.
type SlotDefinition struct {
	// Name of the slot.
	Name string

	// Description is optional documentation.
	Description string

	// Range names the slot's value space: a primitive type name, an enum
	// name, or a class name. Resolved by lookup at compile time; dangling
	// names are a compile error, never a runtime issue.
	Range string

	// Required marks the slot as mandatory on instances.
	Required *bool

	// Multivalued marks the slot as carrying a list of values.
	Multivalued *bool

	// Identifier marks the slot as the class's identifying key.
	Identifier *bool

	// Pattern is an anchoring-free regular expression the value must match.
	Pattern string

	// MinimumValue and MaximumValue bound numeric values, inclusive.
	MinimumValue *float64
	MaximumValue *float64

	// MinimumLength and MaximumLength bound string length, counted in
	// Unicode scalar values.
	MinimumLength *int
	MaximumLength *int

	// PermissibleValues inlines an enumeration on the slot itself. Only
	// meaningful when Range does not already name an EnumDefinition.
	PermissibleValues []PermissibleValue

	// EqualsExpression names an expression, in the companion expression
	// language, whose result the value must equal. Evaluated through the
	// evaluator injected into the executor.
	EqualsExpression string
}

// clone returns a shallow copy with fresh pointers for optional fields, so
// merged effective slots never alias the definitions they derive from.
func (s *SlotDefinition) clone() *SlotDefinition {
	out := *s
	out.Required = clonePtr(s.Required)
	out.Multivalued = clonePtr(s.Multivalued)
	out.Identifier = clonePtr(s.Identifier)
	out.MinimumValue = clonePtr(s.MinimumValue)
	out.MaximumValue = clonePtr(s.MaximumValue)
	out.MinimumLength = clonePtr(s.MinimumLength)
	out.MaximumLength = clonePtr(s.MaximumLength)
	if len(s.PermissibleValues) > 0 {
		out.PermissibleValues = append([]PermissibleValue(nil), s.PermissibleValues...)
	}
	return &out
}

// Clone returns an independent copy of the slot definition.
func (s *SlotDefinition) Clone() *SlotDefinition { return s.clone() }

// MergeFrom overlays the set fields of override onto s. Unset fields in
// override keep s's value. This is field-level override merging, not
// whole-record replacement.
func (s *SlotDefinition) MergeFrom(override *SlotDefinition) {
	if override == nil {
		return
	}
	if override.Description != "" {
		s.Description = override.Description
	}
	if override.Range != "" {
		s.Range = override.Range
	}
	if override.Required != nil {
		s.Required = clonePtr(override.Required)
	}
	if override.Multivalued != nil {
		s.Multivalued = clonePtr(override.Multivalued)
	}
	if override.Identifier != nil {
		s.Identifier = clonePtr(override.Identifier)
	}
	if override.Pattern != "" {
		s.Pattern = override.Pattern
	}
	if override.MinimumValue != nil {
		s.MinimumValue = clonePtr(override.MinimumValue)
	}
	if override.MaximumValue != nil {
		s.MaximumValue = clonePtr(override.MaximumValue)
	}
	if override.MinimumLength != nil {
		s.MinimumLength = clonePtr(override.MinimumLength)
	}
	if override.MaximumLength != nil {
		s.MaximumLength = clonePtr(override.MaximumLength)
	}
	if len(override.PermissibleValues) > 0 {
		s.PermissibleValues = append([]PermissibleValue(nil), override.PermissibleValues...)
	}
	if override.EqualsExpression != "" {
		s.EqualsExpression = override.EqualsExpression
	}
}

// IsRequired reports whether the slot is marked required.
func (s *SlotDefinition) IsRequired() bool { return s.Required != nil && *s.Required }

// IsMultivalued reports whether the slot carries a list of values.
func (s *SlotDefinition) IsMultivalued() bool { return s.Multivalued != nil && *s.Multivalued }

// TypeDefinition describes a named primitive type, optionally based on
// another type with additional constraints.
type TypeDefinition struct {
	// Name of the type.
	Name string

	// Base names the underlying representation ("string", "integer", ...).
	Base string

	// Pattern constrains string-based types.
	Pattern string

	// MinimumValue and MaximumValue bound numeric types, inclusive.
	MinimumValue *float64
	MaximumValue *float64
}

// EnumDefinition describes a named enumeration of permissible values.
type EnumDefinition struct {
	// Name of the enum.
	Name string

	// Description is optional documentation.
	Description string

	// PermissibleValues lists the allowed values in declaration order.
	PermissibleValues []PermissibleValue
}

// Bool returns a pointer to b, for building optional slot fields inline.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// definitionMap is an insertion-ordered name→definition map.
type definitionMap[T any] struct {
	byName map[string]T
	order  []string
}

func newDefinitionMap[T any]() *definitionMap[T] {
	return &definitionMap[T]{byName: make(map[string]T)}
}

func (m *definitionMap[T]) put(name string, def T) {
	if _, ok := m.byName[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byName[name] = def
}

func (m *definitionMap[T]) get(name string) T {
	return m.byName[name]
}

func (m *definitionMap[T]) names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
