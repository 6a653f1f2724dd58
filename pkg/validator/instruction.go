package validator

// Instruction is one unit of compiled constraint checking. Instructions
// are immutable once compiled; re-addressing for array elements and nested
// object fields produces copies via rebase.
type Instruction interface {
	// Path returns the address the instruction checks.
	Path() string

	// rebase returns a copy of the instruction re-addressed so that its
	// paths, compiled relative to $, resolve under base instead. Composite
	// instructions rebase their nested instructions recursively.
	rebase(base string) Instruction
}

// CheckRequired reports an issue when Field is missing from the object at
// At. It is the only instruction that reports absence; every other
// instruction stays silent on absent values.
type CheckRequired struct {
	At    string
	Field string
}

func (i *CheckRequired) Path() string { return i.At }

func (i *CheckRequired) rebase(base string) Instruction {
	return &CheckRequired{At: rebasePath(i.At, base), Field: i.Field}
}

// ValidatePattern matches the string at At against a compiled pattern,
// referenced by index into the program's pattern table.
type ValidatePattern struct {
	At        string
	PatternID int
}

func (i *ValidatePattern) Path() string { return i.At }

func (i *ValidatePattern) rebase(base string) Instruction {
	return &ValidatePattern{At: rebasePath(i.At, base), PatternID: i.PatternID}
}

// ValidateRange bounds the numeric value at At. Bounds are inclusive by
// default; the Inclusive flag is carried for future exclusive-bound
// schemas but the compiler always sets it.
type ValidateRange struct {
	At        string
	Min       *float64
	Max       *float64
	Inclusive bool
}

func (i *ValidateRange) Path() string { return i.At }

func (i *ValidateRange) rebase(base string) Instruction {
	out := *i
	out.At = rebasePath(i.At, base)
	return &out
}

// ValidateLength bounds the length of the string at At, counted in
// Unicode scalar values, not bytes.
type ValidateLength struct {
	At  string
	Min *int
	Max *int
}

func (i *ValidateLength) Path() string { return i.At }

func (i *ValidateLength) rebase(base string) Instruction {
	out := *i
	out.At = rebasePath(i.At, base)
	return &out
}

// ValidateType checks that the value at At has the expected type.
type ValidateType struct {
	At       string
	Expected ValueType
}

func (i *ValidateType) Path() string { return i.At }

func (i *ValidateType) rebase(base string) Instruction {
	return &ValidateType{At: rebasePath(i.At, base), Expected: i.Expected}
}

// ValidateEnum checks the string at At against a cached permissible-value
// set, referenced by index into the program's enum table.
type ValidateEnum struct {
	At     string
	EnumID int
}

func (i *ValidateEnum) Path() string { return i.At }

func (i *ValidateEnum) rebase(base string) Instruction {
	return &ValidateEnum{At: rebasePath(i.At, base), EnumID: i.EnumID}
}

// ValidateExpression evaluates an expression through the injected
// evaluator. With AssertTruth set the expression result itself must be
// truthy; otherwise the result must equal the value at At. Evaluator
// failures become issues, never panics or errors.
type ValidateExpression struct {
	At          string
	Expression  string
	AssertTruth bool
}

func (i *ValidateExpression) Path() string { return i.At }

func (i *ValidateExpression) rebase(base string) Instruction {
	out := *i
	out.At = rebasePath(i.At, base)
	return &out
}

// ValidateArray applies Elements to every element of the array at At.
// Element instructions are compiled relative to $, where $ is the element
// itself, and are rebased to $.field[n] at execution time.
type ValidateArray struct {
	At       string
	Elements []Instruction
}

func (i *ValidateArray) Path() string { return i.At }

func (i *ValidateArray) rebase(base string) Instruction {
	// Element instructions stay element-relative; only the array address
	// moves.
	return &ValidateArray{At: rebasePath(i.At, base), Elements: i.Elements}
}

// ValidateObject applies FieldInstructions to the object at At. Field
// instructions are compiled relative to $, where $ is the nested object,
// and are rebased onto At at execution time.
type ValidateObject struct {
	At                string
	FieldInstructions []Instruction
}

func (i *ValidateObject) Path() string { return i.At }

func (i *ValidateObject) rebase(base string) Instruction {
	return &ValidateObject{At: rebasePath(i.At, base), FieldInstructions: i.FieldInstructions}
}

// ConditionalValidation evaluates Condition first: an empty issue list
// means the condition is satisfied and selects Then; any issue selects
// Else. A nil Else means "no further checks". The rule engine expresses
// if/then/else business rules with this instruction instead of a second
// interpreter.
type ConditionalValidation struct {
	Condition Instruction
	Then      []Instruction
	Else      []Instruction
}

func (i *ConditionalValidation) Path() string { return i.Condition.Path() }

func (i *ConditionalValidation) rebase(base string) Instruction {
	return &ConditionalValidation{
		Condition: i.Condition.rebase(base),
		Then:      rebaseAll(i.Then, base),
		Else:      rebaseAll(i.Else, base),
	}
}

func rebaseAll(instructions []Instruction, base string) []Instruction {
	if len(instructions) == 0 {
		return nil
	}
	out := make([]Instruction, len(instructions))
	for n, inst := range instructions {
		out[n] = inst.rebase(base)
	}
	return out
}
