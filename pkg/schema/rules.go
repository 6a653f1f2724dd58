package schema

// Rule is a class-level if/then/else validation rule: when the
// preconditions hold on an instance, the postconditions must hold too;
// otherwise the optional else-conditions apply. Rules compile down to the
// same instruction set as ordinary slot constraints, so they need no
// separate evaluation machinery.
type Rule struct {
	// Title is an optional short name used in diagnostics.
	Title string

	// Description is optional documentation.
	Description string

	// Deactivated rules are skipped during compilation.
	Deactivated bool

	// Preconditions select the instances the rule applies to.
	Preconditions *RuleConditions

	// Postconditions must hold when the preconditions match.
	Postconditions *RuleConditions

	// ElseConditions apply when the preconditions do not match. Optional.
	ElseConditions *RuleConditions
}

// RuleConditions groups per-slot conditions and raw expression conditions.
type RuleConditions struct {
	// SlotConditions constrain named slots. Each condition is an ordinary
	// SlotDefinition carrying only the fields it constrains.
	SlotConditions map[string]*SlotDefinition

	// slotOrder preserves the declaration order of SlotConditions.
	slotOrder []string

	// ExpressionConditions are expressions in the companion expression
	// language, evaluated through the injected evaluator.
	ExpressionConditions []string
}

// AddSlotCondition registers a condition on a named slot, preserving order.
func (rc *RuleConditions) AddSlotCondition(slot string, cond *SlotDefinition) {
	if rc.SlotConditions == nil {
		rc.SlotConditions = make(map[string]*SlotDefinition)
	}
	if _, ok := rc.SlotConditions[slot]; !ok {
		rc.slotOrder = append(rc.slotOrder, slot)
	}
	rc.SlotConditions[slot] = cond
}

// SlotConditionNames returns the constrained slot names in declaration
// order.
func (rc *RuleConditions) SlotConditionNames() []string {
	names := make([]string, len(rc.slotOrder))
	copy(names, rc.slotOrder)
	return names
}

// Empty reports whether the conditions constrain nothing.
func (rc *RuleConditions) Empty() bool {
	return rc == nil || (len(rc.SlotConditions) == 0 && len(rc.ExpressionConditions) == 0)
}
