package view

import (
	"sync"

	"helios-hq/triton/pkg/schema"
)

// SchemaView provides resolved, inheritance-aware access to a schema. It
// never mutates the underlying schema; every effective slot it returns is
// an independent merged copy. A SchemaView is safe for concurrent use.
type SchemaView struct {
	schema *schema.SchemaDefinition

	mu      sync.RWMutex
	induced map[string][]*schema.SlotDefinition
}

// NewSchemaView creates a view over the given schema.
func NewSchemaView(s *schema.SchemaDefinition) *SchemaView {
	return &SchemaView{
		schema:  s,
		induced: make(map[string][]*schema.SlotDefinition),
	}
}

// Schema returns the underlying schema.
func (v *SchemaView) Schema() *schema.SchemaDefinition { return v.schema }

// InducedSlots returns the class's effective slots in resolution order,
// memoized per class. The returned slots are shared read-only values;
// callers must not mutate them.
func (v *SchemaView) InducedSlots(className string) ([]*schema.SlotDefinition, error) {
	v.mu.RLock()
	cached, ok := v.induced[className]
	v.mu.RUnlock()
	if ok {
		return copySlots(cached), nil
	}

	slots, err := v.ResolveInducedSlots(className)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.induced[className] = slots
	v.mu.Unlock()

	return copySlots(slots), nil
}

// ResolveInducedSlots resolves the class's effective slots from scratch,
// bypassing the memoized results. InducedSlots is the cached equivalent.
func (v *SchemaView) ResolveInducedSlots(className string) ([]*schema.SlotDefinition, error) {
	if v.schema.Class(className) == nil {
		return nil, &UnresolvedReferenceError{Class: className, Kind: "class", Name: className}
	}

	walk := &classWalk{
		view:     v,
		visiting: make(map[string]bool),
		byName:   make(map[string]*schema.SlotDefinition),
	}
	if err := walk.resolveClass(className); err != nil {
		return nil, err
	}

	slots := make([]*schema.SlotDefinition, 0, len(walk.order))
	for _, name := range walk.order {
		slots = append(slots, walk.byName[name])
	}
	return slots, nil
}

// InducedSlot returns the effective definition of one slot as seen from
// the given class, or an UnresolvedReferenceError if the class does not
// carry the slot.
func (v *SchemaView) InducedSlot(className, slotName string) (*schema.SlotDefinition, error) {
	slots, err := v.InducedSlots(className)
	if err != nil {
		return nil, err
	}
	for _, s := range slots {
		if s.Name == slotName {
			return s, nil
		}
	}
	return nil, &UnresolvedReferenceError{Class: className, Kind: "slot", Name: slotName}
}

// ClassAncestors returns the class's is_a chain, nearest parent first,
// including the class itself in first position. Mixins are not ancestors.
func (v *SchemaView) ClassAncestors(className string) ([]string, error) {
	var ancestors []string
	visiting := make(map[string]bool)
	name := className
	for name != "" {
		if visiting[name] {
			return nil, &CyclicInheritanceError{Class: className, Path: append(ancestors, name)}
		}
		class := v.schema.Class(name)
		if class == nil {
			return nil, &UnresolvedReferenceError{Class: className, Kind: "class", Name: name}
		}
		visiting[name] = true
		ancestors = append(ancestors, name)
		name = class.IsA
	}
	return ancestors, nil
}

// classWalk accumulates effective slots across one top-level resolution.
type classWalk struct {
	view *SchemaView

	// visiting is the active inheritance path; revisiting a class on it
	// is a cycle. Classes fully processed are removed again so diamond
	// mixin graphs resolve without a false cycle.
	visiting map[string]bool
	path     []string

	byName map[string]*schema.SlotDefinition
	order  []string
}

func (w *classWalk) resolveClass(className string) error {
	if w.visiting[className] {
		return &CyclicInheritanceError{
			Class: className,
			Path:  append(append([]string(nil), w.path...), className),
		}
	}

	class := w.view.schema.Class(className)
	if class == nil {
		owner := className
		if len(w.path) > 0 {
			owner = w.path[len(w.path)-1]
		}
		return &UnresolvedReferenceError{Class: owner, Kind: "class", Name: className}
	}

	w.visiting[className] = true
	w.path = append(w.path, className)
	defer func() {
		delete(w.visiting, className)
		w.path = w.path[:len(w.path)-1]
	}()

	// Parent chain first: inherited slots keep their ancestral position.
	if class.IsA != "" {
		if err := w.resolveClass(class.IsA); err != nil {
			return err
		}
	}

	// Direct slots, then inline attributes, in declaration order.
	for _, slotName := range class.Slots {
		def := w.view.schema.Slot(slotName)
		if def == nil {
			return &UnresolvedReferenceError{Class: className, Kind: "slot", Name: slotName}
		}
		w.mergeSlot(def)
	}
	for _, attrName := range class.AttributeNames() {
		w.mergeSlot(class.Attributes[attrName])
	}

	// Mixins contribute after direct slots, in declaration order.
	for _, mixinName := range class.Mixins {
		if w.view.schema.Class(mixinName) == nil {
			return &UnresolvedReferenceError{Class: className, Kind: "mixin", Name: mixinName}
		}
		if err := w.resolveClass(mixinName); err != nil {
			return err
		}
	}

	// slot_usage overrides apply last so this class's refinements win over
	// everything it inherited, while still losing to any class closer to
	// the resolution root that processes after it.
	for usageName, usage := range class.SlotUsage {
		effective, ok := w.byName[usageName]
		if !ok {
			return &UnresolvedReferenceError{Class: className, Kind: "slot", Name: usageName}
		}
		effective.MergeFrom(usage)
	}

	return nil
}

// mergeSlot folds a slot declaration into the accumulated set: the first
// occurrence fixes the position, later occurrences merge field-level onto
// the accumulated copy.
func (w *classWalk) mergeSlot(def *schema.SlotDefinition) {
	if existing, ok := w.byName[def.Name]; ok {
		existing.MergeFrom(def)
		return
	}
	w.byName[def.Name] = def.Clone()
	w.order = append(w.order, def.Name)
}

func copySlots(slots []*schema.SlotDefinition) []*schema.SlotDefinition {
	out := make([]*schema.SlotDefinition, len(slots))
	copy(out, slots)
	return out
}
