package schema

import (
	"reflect"
	"testing"
)

func TestSchemaDefinitionOrdering(t *testing.T) {
	s := NewSchema("https://example.org/s", "s")
	s.AddClass(&ClassDefinition{Name: "C"})
	s.AddClass(&ClassDefinition{Name: "A"})
	s.AddClass(&ClassDefinition{Name: "B"})

	got := s.ClassNames()
	want := []string{"C", "A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ClassNames() = %v, want registration order %v", got, want)
	}
}

func TestSchemaDefinitionReRegistration(t *testing.T) {
	s := NewSchema("https://example.org/s", "s")
	s.AddSlot(&SlotDefinition{Name: "a", Range: "string"})
	s.AddSlot(&SlotDefinition{Name: "b"})
	s.AddSlot(&SlotDefinition{Name: "a", Range: "integer"})

	if got := s.Slot("a").Range; got != "integer" {
		t.Errorf("re-registered slot range = %q, want %q", got, "integer")
	}
	if got := s.SlotNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("SlotNames() after re-registration = %v, want [a b]", got)
	}
}

func TestSchemaDefinitionUnknownLookups(t *testing.T) {
	s := NewSchema("https://example.org/s", "s")
	if s.Class("missing") != nil {
		t.Error("Class() for unknown name should be nil")
	}
	if s.Slot("missing") != nil {
		t.Error("Slot() for unknown name should be nil")
	}
	if s.Enum("missing") != nil {
		t.Error("Enum() for unknown name should be nil")
	}
}

func TestClassDefinitionAttributeOrder(t *testing.T) {
	c := &ClassDefinition{Name: "C"}
	c.AddAttribute(&SlotDefinition{Name: "z"})
	c.AddAttribute(&SlotDefinition{Name: "a"})
	c.AddAttribute(&SlotDefinition{Name: "m"})
	// Re-adding must not duplicate the order entry.
	c.AddAttribute(&SlotDefinition{Name: "a", Range: "string"})

	got := c.AttributeNames()
	want := []string{"z", "a", "m"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AttributeNames() = %v, want %v", got, want)
	}
	if c.Attributes["a"].Range != "string" {
		t.Error("re-added attribute should replace the definition")
	}
}

func TestSlotDefinitionClone(t *testing.T) {
	original := &SlotDefinition{
		Name:          "age",
		Range:         "integer",
		Required:      Bool(true),
		MinimumValue:  Float(0),
		MaximumValue:  Float(150),
		MinimumLength: Int(1),
	}

	cloned := original.Clone()
	*cloned.MinimumValue = 18
	cloned.Range = "float"

	if *original.MinimumValue != 0 {
		t.Error("mutating a clone's pointer field leaked into the original")
	}
	if original.Range != "integer" {
		t.Error("mutating a clone's value field leaked into the original")
	}
}

func TestSlotDefinitionMergeFrom(t *testing.T) {
	tests := []struct {
		name     string
		base     *SlotDefinition
		override *SlotDefinition
		check    func(t *testing.T, merged *SlotDefinition)
	}{
		{
			name:     "set field wins",
			base:     &SlotDefinition{Name: "name", Range: "string", Required: Bool(false)},
			override: &SlotDefinition{Required: Bool(true)},
			check: func(t *testing.T, merged *SlotDefinition) {
				if !merged.IsRequired() {
					t.Error("override Required=true should win")
				}
				if merged.Range != "string" {
					t.Errorf("unset override Range should keep base, got %q", merged.Range)
				}
			},
		},
		{
			name:     "unset fields inherit",
			base:     &SlotDefinition{Name: "age", MinimumValue: Float(0), MaximumValue: Float(150)},
			override: &SlotDefinition{MaximumValue: Float(120)},
			check: func(t *testing.T, merged *SlotDefinition) {
				if *merged.MinimumValue != 0 {
					t.Errorf("MinimumValue = %v, want inherited 0", *merged.MinimumValue)
				}
				if *merged.MaximumValue != 120 {
					t.Errorf("MaximumValue = %v, want overridden 120", *merged.MaximumValue)
				}
			},
		},
		{
			name:     "pattern and expression override",
			base:     &SlotDefinition{Name: "id", Pattern: "^x$", EqualsExpression: "old"},
			override: &SlotDefinition{Pattern: "^y$"},
			check: func(t *testing.T, merged *SlotDefinition) {
				if merged.Pattern != "^y$" {
					t.Errorf("Pattern = %q, want %q", merged.Pattern, "^y$")
				}
				if merged.EqualsExpression != "old" {
					t.Errorf("EqualsExpression = %q, want inherited %q", merged.EqualsExpression, "old")
				}
			},
		},
		{
			name: "permissible values replace wholesale",
			base: &SlotDefinition{Name: "status", PermissibleValues: []PermissibleValue{
				SimpleValue("A"), SimpleValue("B"),
			}},
			override: &SlotDefinition{PermissibleValues: []PermissibleValue{SimpleValue("C")}},
			check: func(t *testing.T, merged *SlotDefinition) {
				if len(merged.PermissibleValues) != 1 || merged.PermissibleValues[0].Text() != "C" {
					t.Errorf("PermissibleValues = %v, want just C", merged.PermissibleValues)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := tt.base.Clone()
			merged.MergeFrom(tt.override)
			tt.check(t, merged)

			// The override itself must never be mutated.
			if tt.base.Name != merged.Name {
				t.Error("MergeFrom must not change the slot name")
			}
		})
	}
}

func TestPermissibleValueAccessors(t *testing.T) {
	simple := SimpleValue("ACTIVE")
	if simple.Text() != "ACTIVE" || simple.Structured() {
		t.Errorf("SimpleValue: Text=%q Structured=%t", simple.Text(), simple.Structured())
	}

	structured := StructuredValue("GONE", "no longer here", "ex:Gone")
	if !structured.Structured() {
		t.Error("StructuredValue should report Structured")
	}
	if structured.Text() != "GONE" || structured.Description() != "no longer here" || structured.Meaning() != "ex:Gone" {
		t.Errorf("StructuredValue accessors = %q/%q/%q", structured.Text(), structured.Description(), structured.Meaning())
	}
}

func TestRuleConditionsEmpty(t *testing.T) {
	var nilConditions *RuleConditions
	if !nilConditions.Empty() {
		t.Error("nil RuleConditions should be empty")
	}

	rc := &RuleConditions{}
	if !rc.Empty() {
		t.Error("zero RuleConditions should be empty")
	}

	rc.AddSlotCondition("age", &SlotDefinition{MinimumValue: Float(18)})
	if rc.Empty() {
		t.Error("RuleConditions with a slot condition should not be empty")
	}

	expr := &RuleConditions{ExpressionConditions: []string{"age > 18"}}
	if expr.Empty() {
		t.Error("RuleConditions with an expression should not be empty")
	}
}

func TestRuleConditionsSlotOrder(t *testing.T) {
	rc := &RuleConditions{}
	rc.AddSlotCondition("c", &SlotDefinition{})
	rc.AddSlotCondition("a", &SlotDefinition{})
	rc.AddSlotCondition("b", &SlotDefinition{})

	got := rc.SlotConditionNames()
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SlotConditionNames() = %v, want declaration order %v", got, want)
	}
}
