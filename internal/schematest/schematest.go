// Package schematest provides schema fixtures shared by test packages.
package schematest

import (
	"helios-hq/triton/pkg/schema"
)

// PersonSchema builds the canonical test schema: a NamedThing base class,
// a Person subclass with constrained slots, a HasContact mixin, and a
// Status enum. Tests that need a specific shape should build their own
// minimal schema instead of growing this one.
func PersonSchema() *schema.SchemaDefinition {
	s := schema.NewSchema("https://example.org/person", "person")

	s.AddType(&schema.TypeDefinition{
		Name: "identifier",
		Base: "string",
		// Lowercase alphanumeric with dashes, as in URL slugs.
		Pattern: "^[a-z0-9-]+$",
	})

	s.AddEnum(&schema.EnumDefinition{
		Name: "Status",
		PermissibleValues: []schema.PermissibleValue{
			schema.SimpleValue("ACTIVE"),
			schema.SimpleValue("INACTIVE"),
			schema.StructuredValue("SUSPENDED", "temporarily disabled", ""),
		},
	})

	s.AddSlot(&schema.SlotDefinition{
		Name:       "id",
		Range:      "identifier",
		Identifier: schema.Bool(true),
		Required:   schema.Bool(true),
	})
	s.AddSlot(&schema.SlotDefinition{
		Name:          "name",
		Range:         "string",
		Required:      schema.Bool(true),
		Pattern:       "^[A-Za-z ]+$",
		MinimumLength: schema.Int(1),
		MaximumLength: schema.Int(80),
	})
	s.AddSlot(&schema.SlotDefinition{
		Name:         "age",
		Range:        "integer",
		MinimumValue: schema.Float(0),
		MaximumValue: schema.Float(150),
	})
	s.AddSlot(&schema.SlotDefinition{
		Name:        "tags",
		Range:       "string",
		Multivalued: schema.Bool(true),
	})
	s.AddSlot(&schema.SlotDefinition{
		Name:  "status",
		Range: "Status",
	})
	s.AddSlot(&schema.SlotDefinition{
		Name:  "email",
		Range: "string",
	})

	s.AddClass(&schema.ClassDefinition{
		Name:     "NamedThing",
		Abstract: true,
		Slots:    []string{"id", "name"},
	})
	s.AddClass(&schema.ClassDefinition{
		Name:  "HasContact",
		Mixin: true,
		Slots: []string{"email"},
	})
	s.AddClass(&schema.ClassDefinition{
		Name:   "Person",
		IsA:    "NamedThing",
		Mixins: []string{"HasContact"},
		Slots:  []string{"age", "tags", "status"},
	})

	return s
}

// ValidPerson returns a data record that satisfies PersonSchema's Person
// class.
func ValidPerson() map[string]any {
	return map[string]any{
		"id":     "person-1",
		"name":   "Ada Lovelace",
		"age":    float64(36),
		"tags":   []any{"mathematician", "programmer"},
		"status": "ACTIVE",
		"email":  "ada@example.org",
	}
}
