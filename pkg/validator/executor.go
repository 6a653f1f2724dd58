package validator

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"helios-hq/triton/pkg/validator/report"
)

// Executor interprets compiled programs against JSON-like value trees. It
// holds no mutable state: Execute is a pure function of (program, value),
// so one executor, like one program, can serve any number of goroutines.
type Executor struct {
	evaluator ExpressionEvaluator
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithEvaluator injects the expression evaluator used by
// ValidateExpression instructions.
func WithEvaluator(e ExpressionEvaluator) ExecutorOption {
	return func(ex *Executor) { ex.evaluator = e }
}

// NewExecutor creates an executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	ex := &Executor{}
	for _, opt := range opts {
		opt(ex)
	}
	return ex
}

// Execute runs the program against value and returns every issue found,
// in instruction order and, within arrays, ascending element order.
// Execution never stops at the first violation.
func (e *Executor) Execute(p *Program, value any) []report.ValidationIssue {
	var issues []report.ValidationIssue
	for _, inst := range p.Instructions {
		issues = append(issues, e.executeInstruction(p, inst, value)...)
	}
	return issues
}

// Validate runs the program and wraps the issues in a report.
func (e *Executor) Validate(p *Program, value any) *report.ValidationReport {
	rep := report.NewReport(p.SchemaID, p.Target)
	rep.Add(e.Execute(p, value)...)
	return rep
}

// executeInstruction dispatches one instruction against the root value.
// Every instruction addresses the root through its own path; apart from
// CheckRequired and ValidateType, instructions are silent when the
// addressed value is absent or has a shape they do not check, so a single
// root cause never produces duplicate diagnostics.
func (e *Executor) executeInstruction(p *Program, inst Instruction, root any) []report.ValidationIssue {
	switch inst := inst.(type) {
	case *CheckRequired:
		return e.checkRequired(p, inst, root)
	case *ValidatePattern:
		return e.validatePattern(p, inst, root)
	case *ValidateRange:
		return e.validateRange(p, inst, root)
	case *ValidateLength:
		return e.validateLength(p, inst, root)
	case *ValidateType:
		return e.validateType(p, inst, root)
	case *ValidateEnum:
		return e.validateEnum(p, inst, root)
	case *ValidateExpression:
		return e.validateExpression(p, inst, root)
	case *ValidateArray:
		return e.validateArray(p, inst, root)
	case *ValidateObject:
		return e.validateObject(p, inst, root)
	case *ConditionalValidation:
		return e.validateConditional(p, inst, root)
	default:
		return nil
	}
}

func (e *Executor) checkRequired(p *Program, inst *CheckRequired, root any) []report.ValidationIssue {
	value, present := extractValueAtPath(root, inst.At)
	if !present {
		return nil
	}
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	if _, ok := obj[inst.Field]; ok {
		return nil
	}
	return []report.ValidationIssue{{
		Severity:  report.SeverityError,
		Path:      inst.At,
		Message:   fmt.Sprintf("required field %q is missing", inst.Field),
		Code:      report.CodeRequiredFieldMissing,
		Validator: p.Name,
		Context:   map[string]any{"field": inst.Field},
	}}
}

func (e *Executor) validatePattern(p *Program, inst *ValidatePattern, root any) []report.ValidationIssue {
	value, present := extractValueAtPath(root, inst.At)
	if !present {
		return nil
	}
	s, ok := asString(value)
	if !ok {
		return nil
	}
	pattern := p.pattern(inst.PatternID)
	if pattern == nil || pattern.MatchString(s) {
		return nil
	}
	return []report.ValidationIssue{{
		Severity:  report.SeverityError,
		Path:      inst.At,
		Message:   fmt.Sprintf("value does not match pattern %s", pattern.String()),
		Code:      report.CodePatternMismatch,
		Validator: p.Name,
		Context: map[string]any{
			"value":   s,
			"pattern": pattern.String(),
		},
	}}
}

func (e *Executor) validateRange(p *Program, inst *ValidateRange, root any) []report.ValidationIssue {
	value, present := extractValueAtPath(root, inst.At)
	if !present {
		return nil
	}
	num, ok := asFloat(value)
	if !ok {
		return nil
	}

	valid := true
	if inst.Min != nil {
		if inst.Inclusive {
			valid = num >= *inst.Min
		} else {
			valid = num > *inst.Min
		}
	}
	if valid && inst.Max != nil {
		if inst.Inclusive {
			valid = num <= *inst.Max
		} else {
			valid = num < *inst.Max
		}
	}
	if valid {
		return nil
	}

	ctx := map[string]any{"value": num}
	if inst.Min != nil {
		ctx["min"] = *inst.Min
	}
	if inst.Max != nil {
		ctx["max"] = *inst.Max
	}
	return []report.ValidationIssue{{
		Severity:  report.SeverityError,
		Path:      inst.At,
		Message:   fmt.Sprintf("value %v is out of range", num),
		Code:      report.CodeRangeViolation,
		Validator: p.Name,
		Context:   ctx,
	}}
}

func (e *Executor) validateLength(p *Program, inst *ValidateLength, root any) []report.ValidationIssue {
	value, present := extractValueAtPath(root, inst.At)
	if !present {
		return nil
	}
	s, ok := asString(value)
	if !ok {
		return nil
	}

	// Length counts Unicode scalar values, not bytes.
	length := utf8.RuneCountInString(s)
	valid := true
	if inst.Min != nil && length < *inst.Min {
		valid = false
	}
	if inst.Max != nil && length > *inst.Max {
		valid = false
	}
	if valid {
		return nil
	}

	ctx := map[string]any{"length": length, "value": s}
	if inst.Min != nil {
		ctx["min"] = *inst.Min
	}
	if inst.Max != nil {
		ctx["max"] = *inst.Max
	}
	return []report.ValidationIssue{{
		Severity:  report.SeverityError,
		Path:      inst.At,
		Message:   fmt.Sprintf("string length %d is out of range", length),
		Code:      report.CodeLengthViolation,
		Validator: p.Name,
		Context:   ctx,
	}}
}

func (e *Executor) validateType(p *Program, inst *ValidateType, root any) []report.ValidationIssue {
	value, present := extractValueAtPath(root, inst.At)
	if !present || value == nil {
		return nil
	}

	actual := kindOf(value)
	if matchesType(inst.Expected, actual) {
		return nil
	}
	return []report.ValidationIssue{{
		Severity:  report.SeverityError,
		Path:      inst.At,
		Message:   fmt.Sprintf("expected type %s, got %s", inst.Expected, actual),
		Code:      report.CodeTypeMismatch,
		Validator: p.Name,
		Context: map[string]any{
			"expected_type": string(inst.Expected),
			"actual_type":   string(actual),
			"value":         value,
		},
	}}
}

func (e *Executor) validateEnum(p *Program, inst *ValidateEnum, root any) []report.ValidationIssue {
	value, present := extractValueAtPath(root, inst.At)
	if !present {
		return nil
	}
	s, ok := asString(value)
	if !ok {
		return nil
	}
	set, ok := p.enum(inst.EnumID)
	if !ok || set.contains(s) {
		return nil
	}
	return []report.ValidationIssue{{
		Severity:  report.SeverityError,
		Path:      inst.At,
		Message:   fmt.Sprintf("value %q is not a permissible value", s),
		Code:      report.CodeEnumViolation,
		Validator: p.Name,
		Context: map[string]any{
			"value":              s,
			"permissible_values": set.ordered,
		},
	}}
}

// validateExpression evaluates the instruction's expression through the
// injected evaluator. Evaluator failures, including a missing evaluator,
// become issues with their own code; they never propagate as errors.
func (e *Executor) validateExpression(p *Program, inst *ValidateExpression, root any) []report.ValidationIssue {
	if e.evaluator == nil {
		return []report.ValidationIssue{{
			Severity:  report.SeverityError,
			Path:      inst.At,
			Message:   "no expression evaluator configured",
			Code:      report.CodeExpressionError,
			Validator: p.Name,
			Context:   map[string]any{"expression": inst.Expression},
		}}
	}

	ctx, _ := asObject(root)
	result, err := e.evaluator.Evaluate(inst.Expression, ctx)
	if err != nil {
		return []report.ValidationIssue{{
			Severity:  report.SeverityError,
			Path:      inst.At,
			Message:   fmt.Sprintf("expression evaluation failed: %v", err),
			Code:      report.CodeExpressionError,
			Validator: p.Name,
			Context: map[string]any{
				"expression": inst.Expression,
				"error":      err.Error(),
			},
		}}
	}

	if inst.AssertTruth {
		if truthy(result) {
			return nil
		}
		return []report.ValidationIssue{{
			Severity:  report.SeverityError,
			Path:      inst.At,
			Message:   fmt.Sprintf("expression %q is not satisfied", inst.Expression),
			Code:      report.CodeExpressionMismatch,
			Validator: p.Name,
			Context:   map[string]any{"expression": inst.Expression},
		}}
	}

	actual, present := extractValueAtPath(root, inst.At)
	if !present {
		return nil
	}
	if looselyEqual(actual, result) {
		return nil
	}
	return []report.ValidationIssue{{
		Severity:  report.SeverityError,
		Path:      inst.At,
		Message:   fmt.Sprintf("value does not equal computed expression %q", inst.Expression),
		Code:      report.CodeExpressionMismatch,
		Validator: p.Name,
		Context: map[string]any{
			"expression": inst.Expression,
			"value":      actual,
			"computed":   result,
		},
	}}
}

// validateArray is one of the executor's two recursion points: element
// instructions are rebased from $ onto $.field[n] and dispatched through
// the same instruction dispatcher. Issues come out in ascending element
// order.
func (e *Executor) validateArray(p *Program, inst *ValidateArray, root any) []report.ValidationIssue {
	value, present := extractValueAtPath(root, inst.At)
	if !present {
		return nil
	}
	arr, ok := asArray(value)
	if !ok {
		return nil
	}

	var issues []report.ValidationIssue
	for n := range arr {
		elemPath := fmt.Sprintf("%s[%d]", inst.At, n)
		for _, elem := range inst.Elements {
			issues = append(issues, e.executeInstruction(p, elem.rebase(elemPath), root)...)
		}
	}
	return issues
}

// validateObject rebases nested field instructions from $ onto the object
// path and delegates to the dispatcher, mirroring validateArray.
func (e *Executor) validateObject(p *Program, inst *ValidateObject, root any) []report.ValidationIssue {
	value, present := extractValueAtPath(root, inst.At)
	if !present {
		return nil
	}
	if _, ok := asObject(value); !ok {
		return nil
	}

	var issues []report.ValidationIssue
	for _, field := range inst.FieldInstructions {
		issues = append(issues, e.executeInstruction(p, field.rebase(inst.At), root)...)
	}
	return issues
}

// validateConditional runs the condition instruction: zero issues selects
// the then branch, any issue selects the else branch. The condition's own
// issues are never reported.
func (e *Executor) validateConditional(p *Program, inst *ConditionalValidation, root any) []report.ValidationIssue {
	conditionIssues := e.executeInstruction(p, inst.Condition, root)

	branch := inst.Then
	if len(conditionIssues) > 0 {
		branch = inst.Else
	}

	var issues []report.ValidationIssue
	for _, next := range branch {
		issues = append(issues, e.executeInstruction(p, next, root)...)
	}
	return issues
}

// truthy follows the expression language's notion of truth: nil, false,
// zero, and empty strings/containers are false.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// looselyEqual compares values with numeric widening, so the float64 the
// data layer produces compares equal to the int an evaluator may return.
func looselyEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}
