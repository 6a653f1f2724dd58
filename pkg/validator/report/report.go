package report

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies how serious a validation issue is.
type Severity string

const (
	// SeverityError marks a constraint violation; any Error makes the
	// validated value invalid.
	SeverityError Severity = "error"

	// SeverityWarning marks a problem that does not affect validity.
	SeverityWarning Severity = "warning"

	// SeverityInfo marks purely informational findings.
	SeverityInfo Severity = "info"
)

// Stable machine-readable issue codes. Tooling keys on these; they never
// change meaning.
const (
	CodeRequiredFieldMissing = "required_field_missing"
	CodePatternMismatch      = "pattern_mismatch"
	CodeRangeViolation       = "range_violation"
	CodeLengthViolation      = "length_violation"
	CodeEnumViolation        = "enum_violation"
	CodeTypeMismatch         = "type_mismatch"
	CodeExpressionError      = "expression_error"
	CodeExpressionMismatch   = "expression_mismatch"
)

// ValidationIssue is one reported constraint violation.
type ValidationIssue struct {
	// Severity of the issue.
	Severity Severity `json:"severity"`

	// Path addresses the offending value: $ is the root, $.field an
	// object field, $.field[3] an array element.
	Path string `json:"path"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Code is the stable machine-readable issue code.
	Code string `json:"code"`

	// Validator names the program that produced the issue.
	Validator string `json:"validator,omitempty"`

	// Context carries the concrete offending value and the relevant
	// bound, pattern, or enum so tooling can render rich diagnostics
	// without re-deriving them.
	Context map[string]any `json:"context,omitempty"`
}

// IsError reports whether the issue has Error severity.
func (i ValidationIssue) IsError() bool { return i.Severity == SeverityError }

// ValidationReport aggregates the issues from validating one value. It is
// append-only and order-preserving.
type ValidationReport struct {
	// ID uniquely identifies this validation run.
	ID string `json:"id"`

	// Target names the class or slot the value was validated against.
	Target string `json:"target"`

	// SchemaID identifies the schema the program was compiled from.
	SchemaID string `json:"schema_id"`

	// Timestamp records when the report was created.
	Timestamp time.Time `json:"timestamp"`

	// Issues lists all issues in production order.
	Issues []ValidationIssue `json:"issues"`
}

// NewReport creates an empty report for the given schema and target.
func NewReport(schemaID, target string) *ValidationReport {
	return &ValidationReport{
		ID:        uuid.NewString(),
		Target:    target,
		SchemaID:  schemaID,
		Timestamp: time.Now().UTC(),
	}
}

// Add appends issues to the report, preserving order.
func (r *ValidationReport) Add(issues ...ValidationIssue) {
	r.Issues = append(r.Issues, issues...)
}

// Valid reports whether the validated value passed: zero Error issues.
// Warnings and infos do not affect validity.
func (r *ValidationReport) Valid() bool {
	for _, issue := range r.Issues {
		if issue.IsError() {
			return false
		}
	}
	return true
}

// Errors returns the Error-severity issues in order.
func (r *ValidationReport) Errors() []ValidationIssue {
	return r.filter(SeverityError)
}

// Warnings returns the Warning-severity issues in order.
func (r *ValidationReport) Warnings() []ValidationIssue {
	return r.filter(SeverityWarning)
}

// Infos returns the Info-severity issues in order.
func (r *ValidationReport) Infos() []ValidationIssue {
	return r.filter(SeverityInfo)
}

func (r *ValidationReport) filter(sev Severity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}
