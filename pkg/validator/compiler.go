package validator

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"helios-hq/triton/pkg/schema"
	"helios-hq/triton/pkg/schema/view"
)

// Compiler turns resolved classes and slots into validation programs. The
// pattern and enum side tables live on the compiler and are shared by
// every program it produces, so identical pattern text or the same enum
// compiles to a single table entry no matter how many slots or classes use
// it. A Compiler is safe for concurrent use.
type Compiler struct {
	view *view.SchemaView
	opts Options

	mu             sync.Mutex
	patterns       []*regexp.Regexp
	patternStrings []string
	patternIndex   map[string]int
	enums          []enumSet
	enumIndex      map[string]int
	rangeTypes     map[string]ValueType
}

// NewCompiler creates a compiler over the given schema view.
func NewCompiler(v *view.SchemaView, opts Options) *Compiler {
	return &Compiler{
		view:         v,
		opts:         opts,
		patternIndex: make(map[string]int),
		enumIndex:    make(map[string]int),
		rangeTypes:   make(map[string]ValueType),
	}
}

// Options returns the compiler's option set.
func (c *Compiler) Options() Options { return c.opts }

// SchemaID returns the identity of the schema the compiler compiles from.
func (c *Compiler) SchemaID() string { return c.view.Schema().ID }

// CompileClass compiles a validation program for the named class from its
// induced slots and class-level rules. Compilation fails, producing no
// program, on cyclic inheritance, unresolved references, invalid regex
// patterns, or an abstract target class.
func (c *Compiler) CompileClass(className string) (*Program, error) {
	sch := c.view.Schema()
	class := sch.Class(className)
	if class == nil {
		return nil, &view.UnresolvedReferenceError{Class: className, Kind: "class", Name: className}
	}
	if class.Abstract {
		return nil, &AbstractClassError{Class: className}
	}

	slots, err := c.inducedSlots(className)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var instructions []Instruction
	visiting := map[string]bool{className: true}
	for _, slot := range slots {
		slotInstructions, err := c.compileSlotLocked(slot, "$."+slot.Name, visiting)
		if err != nil {
			return nil, fmt.Errorf("compile class %q: %w", className, err)
		}
		instructions = append(instructions, slotInstructions...)
	}

	for _, rule := range class.Rules {
		if rule == nil || rule.Deactivated {
			continue
		}
		ruleInstructions, err := c.compileRuleLocked(rule, visiting)
		if err != nil {
			return nil, fmt.Errorf("compile class %q: %w", className, err)
		}
		instructions = append(instructions, ruleInstructions...)
	}

	return c.snapshotLocked(className, instructions), nil
}

// CompileSlot compiles the instruction list for a single slot addressed at
// path, for reuse inside array and object composition or for standalone
// slot validation. The returned instructions reference the compiler's
// shared side tables; build a program around them with CompileSlotProgram
// when they are to be executed directly.
func (c *Compiler) CompileSlot(slot *schema.SlotDefinition, path string) ([]Instruction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compileSlotLocked(slot, path, map[string]bool{})
}

// CompileSlotProgram compiles a standalone program validating a single
// slot at the root object.
func (c *Compiler) CompileSlotProgram(slot *schema.SlotDefinition) (*Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	instructions, err := c.compileSlotLocked(slot, "$."+slot.Name, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return c.snapshotLocked(slot.Name, instructions), nil
}

// inducedSlots resolves the class's effective slots, memoized when
// inheritance precomputation is enabled.
func (c *Compiler) inducedSlots(className string) ([]*schema.SlotDefinition, error) {
	if c.opts.PrecomputeInheritance {
		return c.view.InducedSlots(className)
	}
	return c.view.ResolveInducedSlots(className)
}

// compileSlotLocked emits the slot's instructions in the fixed order:
// required, pattern, range, length, type, enum, expression, nested
// object. For a multivalued slot the per-scalar instructions are wrapped
// in a single ValidateArray addressing each element; only the required
// check, which addresses the owning object, stays outside the wrapper.
func (c *Compiler) compileSlotLocked(slot *schema.SlotDefinition, path string, visiting map[string]bool) ([]Instruction, error) {
	var instructions []Instruction

	if slot.IsRequired() {
		container, field := splitFieldPath(path)
		instructions = append(instructions, &CheckRequired{At: container, Field: field})
	}

	scalarPath := path
	if slot.IsMultivalued() {
		// Scalar constraints compile element-relative and are rebased to
		// $.field[n] during execution.
		scalarPath = "$"
	}

	scalar, err := c.compileScalarLocked(slot, scalarPath, visiting)
	if err != nil {
		return nil, err
	}

	if slot.IsMultivalued() {
		instructions = append(instructions, &ValidateArray{At: path, Elements: scalar})
	} else {
		instructions = append(instructions, scalar...)
	}
	return instructions, nil
}

// compileScalarLocked emits the constraint instructions for one scalar
// value of the slot, addressed at path.
func (c *Compiler) compileScalarLocked(slot *schema.SlotDefinition, path string, visiting map[string]bool) ([]Instruction, error) {
	sch := c.view.Schema()
	var instructions []Instruction

	pattern := slot.Pattern
	minValue := slot.MinimumValue
	maxValue := slot.MaximumValue

	// A named type contributes its own pattern and bounds wherever the
	// slot does not override them.
	if typeDef := sch.Type(slot.Range); typeDef != nil {
		if pattern == "" {
			pattern = typeDef.Pattern
		}
		if minValue == nil {
			minValue = typeDef.MinimumValue
		}
		if maxValue == nil {
			maxValue = typeDef.MaximumValue
		}
	}

	if pattern != "" {
		patternID, err := c.internPatternLocked(slot.Name, pattern)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, &ValidatePattern{At: path, PatternID: patternID})
	}

	if minValue != nil || maxValue != nil {
		if c.opts.OptimizeRanges {
			instructions = append(instructions, &ValidateRange{
				At:        path,
				Min:       clonePtr(minValue),
				Max:       clonePtr(maxValue),
				Inclusive: true,
			})
		} else {
			if minValue != nil {
				instructions = append(instructions, &ValidateRange{At: path, Min: clonePtr(minValue), Inclusive: true})
			}
			if maxValue != nil {
				instructions = append(instructions, &ValidateRange{At: path, Max: clonePtr(maxValue), Inclusive: true})
			}
		}
	}

	if slot.MinimumLength != nil || slot.MaximumLength != nil {
		instructions = append(instructions, &ValidateLength{
			At:  path,
			Min: clonePtr(slot.MinimumLength),
			Max: clonePtr(slot.MaximumLength),
		})
	}

	if slot.Range != "" {
		expected, err := c.rangeTypeLocked(slot.Name, slot.Range)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, &ValidateType{At: path, Expected: expected})
	}

	if enumDef := sch.Enum(slot.Range); enumDef != nil {
		enumID := c.internEnumLocked("enum:"+enumDef.Name, enumDef.PermissibleValues)
		instructions = append(instructions, &ValidateEnum{At: path, EnumID: enumID})
	} else if len(slot.PermissibleValues) > 0 {
		enumID := c.internEnumLocked(inlineEnumKey(slot.PermissibleValues), slot.PermissibleValues)
		instructions = append(instructions, &ValidateEnum{At: path, EnumID: enumID})
	}

	if slot.EqualsExpression != "" {
		instructions = append(instructions, &ValidateExpression{At: path, Expression: slot.EqualsExpression})
	}

	// A class-valued range compiles the referenced class's own slot
	// instructions into a nested object check. The visiting set keeps
	// recursive schemas from diverging: a class already on the path
	// degrades to the bare Object type check emitted above.
	if nested := sch.Class(slot.Range); nested != nil && !visiting[slot.Range] {
		nestedInstructions, err := c.compileNestedClassLocked(nested, visiting)
		if err != nil {
			return nil, err
		}
		if len(nestedInstructions) > 0 {
			instructions = append(instructions, &ValidateObject{At: path, FieldInstructions: nestedInstructions})
		}
	}

	return instructions, nil
}

// compileNestedClassLocked compiles the slots of a class referenced as a
// slot range, addressed relative to the nested object.
func (c *Compiler) compileNestedClassLocked(class *schema.ClassDefinition, visiting map[string]bool) ([]Instruction, error) {
	visiting[class.Name] = true
	defer delete(visiting, class.Name)

	slots, err := c.inducedSlots(class.Name)
	if err != nil {
		return nil, err
	}

	var instructions []Instruction
	for _, slot := range slots {
		slotInstructions, err := c.compileSlotLocked(slot, "$."+slot.Name, visiting)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, slotInstructions...)
	}
	return instructions, nil
}

// compileRuleLocked compiles a class rule into conditional validation:
// multiple precondition instructions AND-compose by nesting, so the
// postconditions run only when every precondition produced zero issues,
// and the else-conditions run as soon as one fails.
func (c *Compiler) compileRuleLocked(rule *schema.Rule, visiting map[string]bool) ([]Instruction, error) {
	conditions, err := c.compileConditionsLocked(rule.Preconditions, visiting)
	if err != nil {
		return nil, err
	}
	then, err := c.compileConditionsLocked(rule.Postconditions, visiting)
	if err != nil {
		return nil, err
	}
	elseBranch, err := c.compileConditionsLocked(rule.ElseConditions, visiting)
	if err != nil {
		return nil, err
	}

	if len(then) == 0 && len(elseBranch) == 0 {
		return nil, nil
	}
	if len(conditions) == 0 {
		// No preconditions means the rule applies unconditionally.
		return then, nil
	}

	nested := then
	for i := len(conditions) - 1; i >= 0; i-- {
		nested = []Instruction{&ConditionalValidation{
			Condition: conditions[i],
			Then:      nested,
			Else:      elseBranch,
		}}
	}
	return nested, nil
}

// compileConditionsLocked compiles rule conditions into plain
// instructions: slot conditions compile exactly like slot constraints,
// expression conditions assert the expression's truth.
func (c *Compiler) compileConditionsLocked(rc *schema.RuleConditions, visiting map[string]bool) ([]Instruction, error) {
	if rc.Empty() {
		return nil, nil
	}

	var instructions []Instruction
	for _, slotName := range rc.SlotConditionNames() {
		cond := rc.SlotConditions[slotName]
		named := cond.Clone()
		named.Name = slotName
		slotInstructions, err := c.compileSlotLocked(named, "$."+slotName, visiting)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, slotInstructions...)
	}
	for _, expr := range rc.ExpressionConditions {
		instructions = append(instructions, &ValidateExpression{At: "$", Expression: expr, AssertTruth: true})
	}
	return instructions, nil
}

// internPatternLocked compiles a pattern and returns its table index. With
// pattern compilation enabled identical pattern text maps to one entry;
// disabled, every use appends a fresh entry.
func (c *Compiler) internPatternLocked(slotName, pattern string) (int, error) {
	if c.opts.CompilePatterns {
		if id, ok := c.patternIndex[pattern]; ok {
			return id, nil
		}
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return 0, &InvalidPatternError{Slot: slotName, Pattern: pattern, Cause: err}
	}

	id := len(c.patterns)
	c.patterns = append(c.patterns, compiled)
	c.patternStrings = append(c.patternStrings, pattern)
	if c.opts.CompilePatterns {
		c.patternIndex[pattern] = id
	}
	return id, nil
}

// inlineEnumKey derives a cache key for an inline permissible-value set
// from the value texts themselves. Same-named slots on different classes
// can carry different inline sets, so a name-based key would let one
// class's set shadow another's.
func inlineEnumKey(values []schema.PermissibleValue) string {
	var b strings.Builder
	b.WriteString("inline")
	for _, v := range values {
		b.WriteByte(0)
		b.WriteString(v.Text())
	}
	return b.String()
}

// internEnumLocked hashes permissible values into a set and returns its
// table index, de-duplicated by key when enum caching is enabled. Named
// enums key by enum name; inline sets key by their value texts.
func (c *Compiler) internEnumLocked(key string, values []schema.PermissibleValue) int {
	if c.opts.CachePermissibleValues {
		if id, ok := c.enumIndex[key]; ok {
			return id
		}
	}

	texts := make([]string, 0, len(values))
	for _, v := range values {
		texts = append(texts, v.Text())
	}

	id := len(c.enums)
	c.enums = append(c.enums, newEnumSet(texts))
	if c.opts.CachePermissibleValues {
		c.enumIndex[key] = id
	}
	return id
}

// rangeTypeLocked maps a range name to its value type, memoized when type
// optimization is enabled. A name that is no primitive, type, enum, or
// class is a dangling reference and fails compilation.
func (c *Compiler) rangeTypeLocked(slotName, rangeName string) (ValueType, error) {
	if c.opts.OptimizeTypes {
		if t, ok := c.rangeTypes[rangeName]; ok {
			return t, nil
		}
	}

	t, err := c.resolveRangeType(rangeName)
	if err != nil {
		return "", &view.UnresolvedReferenceError{Class: slotName, Kind: "range", Name: rangeName}
	}

	if c.opts.OptimizeTypes {
		c.rangeTypes[rangeName] = t
	}
	return t, nil
}

func (c *Compiler) resolveRangeType(rangeName string) (ValueType, error) {
	sch := c.view.Schema()
	seen := make(map[string]bool)
	name := rangeName
	for {
		if t, ok := primitiveType(name); ok {
			return t, nil
		}
		if sch.Class(name) != nil {
			return TypeObject, nil
		}
		if sch.Enum(name) != nil {
			// Enum values are strings in the data tree; membership is
			// checked by ValidateEnum.
			return TypeString, nil
		}
		typeDef := sch.Type(name)
		if typeDef == nil {
			return "", fmt.Errorf("unknown range %q", name)
		}
		if typeDef.Base == "" || seen[name] {
			return TypeString, nil
		}
		seen[name] = true
		name = typeDef.Base
	}
}

// snapshotLocked builds an immutable program over the current side
// tables. Later compiles may append to the compiler's tables, but a
// program's snapshot never changes underneath it.
func (c *Compiler) snapshotLocked(target string, instructions []Instruction) *Program {
	return &Program{
		Name:           "compiled_validator_" + target,
		SchemaID:       c.view.Schema().ID,
		Target:         target,
		Instructions:   instructions,
		patterns:       append([]*regexp.Regexp(nil), c.patterns...),
		patternStrings: append([]string(nil), c.patternStrings...),
		enums:          append([]enumSet(nil), c.enums...),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
