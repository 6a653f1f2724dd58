package view

import (
	"errors"
	"reflect"
	"testing"

	"helios-hq/triton/pkg/schema"
)

func slotNames(slots []*schema.SlotDefinition) []string {
	names := make([]string, 0, len(slots))
	for _, s := range slots {
		names = append(names, s.Name)
	}
	return names
}

func addSlots(s *schema.SchemaDefinition, names ...string) {
	for _, name := range names {
		s.AddSlot(&schema.SlotDefinition{Name: name, Range: "string"})
	}
}

func TestInducedSlotsDirectOrder(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	addSlots(s, "b", "a", "c")
	s.AddClass(&schema.ClassDefinition{Name: "Thing", Slots: []string{"b", "a", "c"}})

	v := NewSchemaView(s)
	slots, err := v.InducedSlots("Thing")
	if err != nil {
		t.Fatalf("InducedSlots() error: %v", err)
	}
	if got := slotNames(slots); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("slot order = %v, want declaration order [b a c]", got)
	}
}

func TestInducedSlotsInheritanceChain(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	addSlots(s, "id", "name", "age", "salary")
	s.AddClass(&schema.ClassDefinition{Name: "NamedThing", Slots: []string{"id", "name"}})
	s.AddClass(&schema.ClassDefinition{Name: "Person", IsA: "NamedThing", Slots: []string{"age"}})
	s.AddClass(&schema.ClassDefinition{Name: "Employee", IsA: "Person", Slots: []string{"salary"}})

	v := NewSchemaView(s)
	slots, err := v.InducedSlots("Employee")
	if err != nil {
		t.Fatalf("InducedSlots() error: %v", err)
	}
	// Ancestral slots keep their position: root class slots first.
	want := []string{"id", "name", "age", "salary"}
	if got := slotNames(slots); !reflect.DeepEqual(got, want) {
		t.Errorf("slot order = %v, want %v", got, want)
	}
}

func TestInducedSlotsRedeclarationDedup(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	addSlots(s, "id", "name")
	s.AddClass(&schema.ClassDefinition{Name: "Base", Slots: []string{"id", "name"}})
	// Child redeclares id; the slot must keep the parent's position and
	// appear exactly once.
	s.AddClass(&schema.ClassDefinition{Name: "Child", IsA: "Base", Slots: []string{"id"}})

	v := NewSchemaView(s)
	slots, err := v.InducedSlots("Child")
	if err != nil {
		t.Fatalf("InducedSlots() error: %v", err)
	}
	if got := slotNames(slots); !reflect.DeepEqual(got, []string{"id", "name"}) {
		t.Errorf("slot order = %v, want [id name] with no duplicate", got)
	}
}

func TestInducedSlotsMixinsAfterDirect(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	addSlots(s, "email", "phone", "name")
	s.AddClass(&schema.ClassDefinition{Name: "HasEmail", Mixin: true, Slots: []string{"email"}})
	s.AddClass(&schema.ClassDefinition{Name: "HasPhone", Mixin: true, Slots: []string{"phone"}})
	s.AddClass(&schema.ClassDefinition{
		Name:   "Contact",
		Slots:  []string{"name"},
		Mixins: []string{"HasEmail", "HasPhone"},
	})

	v := NewSchemaView(s)
	slots, err := v.InducedSlots("Contact")
	if err != nil {
		t.Fatalf("InducedSlots() error: %v", err)
	}
	want := []string{"name", "email", "phone"}
	if got := slotNames(slots); !reflect.DeepEqual(got, want) {
		t.Errorf("slot order = %v, want direct then mixins %v", got, want)
	}
}

func TestInducedSlotsDiamondMixins(t *testing.T) {
	// Both mixins share a common base class. The shared ancestry must not
	// be reported as a cycle, and its slot appears once.
	s := schema.NewSchema("https://example.org/s", "s")
	addSlots(s, "common", "left", "right")
	s.AddClass(&schema.ClassDefinition{Name: "Common", Slots: []string{"common"}})
	s.AddClass(&schema.ClassDefinition{Name: "Left", IsA: "Common", Slots: []string{"left"}})
	s.AddClass(&schema.ClassDefinition{Name: "Right", IsA: "Common", Slots: []string{"right"}})
	s.AddClass(&schema.ClassDefinition{Name: "Bottom", Mixins: []string{"Left", "Right"}})

	v := NewSchemaView(s)
	slots, err := v.InducedSlots("Bottom")
	if err != nil {
		t.Fatalf("InducedSlots() error: %v", err)
	}
	want := []string{"common", "left", "right"}
	if got := slotNames(slots); !reflect.DeepEqual(got, want) {
		t.Errorf("slot order = %v, want %v", got, want)
	}
}

func TestInducedSlotsSlotUsageOverride(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	s.AddSlot(&schema.SlotDefinition{Name: "name", Range: "string", Required: schema.Bool(false)})
	s.AddClass(&schema.ClassDefinition{Name: "Base", Slots: []string{"name"}})
	s.AddClass(&schema.ClassDefinition{
		Name: "Strict",
		IsA:  "Base",
		SlotUsage: map[string]*schema.SlotDefinition{
			"name": {Required: schema.Bool(true), MinimumLength: schema.Int(1)},
		},
	})

	v := NewSchemaView(s)
	slot, err := v.InducedSlot("Strict", "name")
	if err != nil {
		t.Fatalf("InducedSlot() error: %v", err)
	}
	if !slot.IsRequired() {
		t.Error("slot_usage Required=true should override the inherited value")
	}
	if slot.MinimumLength == nil || *slot.MinimumLength != 1 {
		t.Error("slot_usage MinimumLength should apply")
	}
	if slot.Range != "string" {
		t.Errorf("unset slot_usage field changed Range to %q", slot.Range)
	}

	// The shared definition must be untouched.
	if s.Slot("name").IsRequired() {
		t.Error("resolution mutated the shared SlotDefinition")
	}
	base, err := v.InducedSlot("Base", "name")
	if err != nil {
		t.Fatalf("InducedSlot(Base) error: %v", err)
	}
	if base.IsRequired() {
		t.Error("override leaked into the parent class's induced slot")
	}
}

func TestInducedSlotsAttributes(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	addSlots(s, "id")
	cls := &schema.ClassDefinition{Name: "Thing", Slots: []string{"id"}}
	cls.AddAttribute(&schema.SlotDefinition{Name: "inline_a", Range: "integer"})
	cls.AddAttribute(&schema.SlotDefinition{Name: "inline_b", Range: "string"})
	s.AddClass(cls)

	v := NewSchemaView(s)
	slots, err := v.InducedSlots("Thing")
	if err != nil {
		t.Fatalf("InducedSlots() error: %v", err)
	}
	want := []string{"id", "inline_a", "inline_b"}
	if got := slotNames(slots); !reflect.DeepEqual(got, want) {
		t.Errorf("slot order = %v, want slots then attributes %v", got, want)
	}
}

func TestInducedSlotsCycleDetection(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *schema.SchemaDefinition)
		class string
	}{
		{
			name: "self cycle",
			build: func(s *schema.SchemaDefinition) {
				s.AddClass(&schema.ClassDefinition{Name: "A", IsA: "A"})
			},
			class: "A",
		},
		{
			name: "transitive cycle",
			build: func(s *schema.SchemaDefinition) {
				s.AddClass(&schema.ClassDefinition{Name: "A", IsA: "B"})
				s.AddClass(&schema.ClassDefinition{Name: "B", IsA: "C"})
				s.AddClass(&schema.ClassDefinition{Name: "C", IsA: "A"})
			},
			class: "A",
		},
		{
			name: "mixin cycle",
			build: func(s *schema.SchemaDefinition) {
				s.AddClass(&schema.ClassDefinition{Name: "A", Mixins: []string{"B"}})
				s.AddClass(&schema.ClassDefinition{Name: "B", Mixins: []string{"A"}})
			},
			class: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schema.NewSchema("https://example.org/s", "s")
			tt.build(s)

			v := NewSchemaView(s)
			_, err := v.InducedSlots(tt.class)
			var cycleErr *CyclicInheritanceError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("InducedSlots() error = %v, want CyclicInheritanceError", err)
			}
			if len(cycleErr.Path) < 2 {
				t.Errorf("cycle path %v should include the repeated class", cycleErr.Path)
			}
		})
	}
}

func TestInducedSlotsUnresolvedReferences(t *testing.T) {
	tests := []struct {
		name     string
		build    func(s *schema.SchemaDefinition)
		class    string
		wantKind string
		wantName string
	}{
		{
			name:     "unknown class",
			build:    func(s *schema.SchemaDefinition) {},
			class:    "Ghost",
			wantKind: "class",
			wantName: "Ghost",
		},
		{
			name: "unknown parent",
			build: func(s *schema.SchemaDefinition) {
				s.AddClass(&schema.ClassDefinition{Name: "A", IsA: "Missing"})
			},
			class:    "A",
			wantKind: "class",
			wantName: "Missing",
		},
		{
			name: "unknown slot",
			build: func(s *schema.SchemaDefinition) {
				s.AddClass(&schema.ClassDefinition{Name: "A", Slots: []string{"nope"}})
			},
			class:    "A",
			wantKind: "slot",
			wantName: "nope",
		},
		{
			name: "unknown mixin",
			build: func(s *schema.SchemaDefinition) {
				s.AddClass(&schema.ClassDefinition{Name: "A", Mixins: []string{"NoMixin"}})
			},
			class:    "A",
			wantKind: "mixin",
			wantName: "NoMixin",
		},
		{
			name: "slot_usage for a slot the class does not have",
			build: func(s *schema.SchemaDefinition) {
				s.AddClass(&schema.ClassDefinition{
					Name:      "A",
					SlotUsage: map[string]*schema.SlotDefinition{"phantom": {}},
				})
			},
			class:    "A",
			wantKind: "slot",
			wantName: "phantom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schema.NewSchema("https://example.org/s", "s")
			tt.build(s)

			v := NewSchemaView(s)
			_, err := v.InducedSlots(tt.class)
			var refErr *UnresolvedReferenceError
			if !errors.As(err, &refErr) {
				t.Fatalf("InducedSlots() error = %v, want UnresolvedReferenceError", err)
			}
			if refErr.Kind != tt.wantKind || refErr.Name != tt.wantName {
				t.Errorf("error = %s %q, want %s %q", refErr.Kind, refErr.Name, tt.wantKind, tt.wantName)
			}
		})
	}
}

func TestInducedSlotsMemoization(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	addSlots(s, "id")
	s.AddClass(&schema.ClassDefinition{Name: "Thing", Slots: []string{"id"}})

	v := NewSchemaView(s)
	first, err := v.InducedSlots("Thing")
	if err != nil {
		t.Fatalf("InducedSlots() error: %v", err)
	}
	second, err := v.InducedSlots("Thing")
	if err != nil {
		t.Fatalf("InducedSlots() second call error: %v", err)
	}
	// The memoized result hands out the same slot values in a fresh slice.
	if first[0] != second[0] {
		t.Error("memoized calls should share resolved slot values")
	}

	fresh, err := v.ResolveInducedSlots("Thing")
	if err != nil {
		t.Fatalf("ResolveInducedSlots() error: %v", err)
	}
	if first[0] == fresh[0] {
		t.Error("ResolveInducedSlots should resolve from scratch")
	}
}

func TestInducedSlotMissing(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	s.AddClass(&schema.ClassDefinition{Name: "Thing"})

	v := NewSchemaView(s)
	_, err := v.InducedSlot("Thing", "absent")
	var refErr *UnresolvedReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("InducedSlot() error = %v, want UnresolvedReferenceError", err)
	}
	if refErr.Kind != "slot" || refErr.Name != "absent" {
		t.Errorf("error = %s %q, want slot \"absent\"", refErr.Kind, refErr.Name)
	}
}

func TestClassAncestors(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	s.AddClass(&schema.ClassDefinition{Name: "A"})
	s.AddClass(&schema.ClassDefinition{Name: "B", IsA: "A"})
	s.AddClass(&schema.ClassDefinition{Name: "C", IsA: "B", Mixins: []string{"A"}})

	v := NewSchemaView(s)
	got, err := v.ClassAncestors("C")
	if err != nil {
		t.Fatalf("ClassAncestors() error: %v", err)
	}
	// Mixins are not ancestors; the chain is self-first.
	want := []string{"C", "B", "A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ClassAncestors() = %v, want %v", got, want)
	}
}
