package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"helios-hq/triton/pkg/telemetry/logging"
	"helios-hq/triton/pkg/validator"
)

var compileFlags struct {
	schema string
	class  string
	format string
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Inspect the compiled program for a schema class",
	Long: `Compile a schema class and print the resulting instruction program.

Useful for understanding what a class's constraints compile down to and
for debugging schema definitions:
  - Flat instruction listing with paths
  - Pattern side table contents
  - Enum side table size

Examples:
  # Human-readable listing
  triton compile --schema person.yaml --class Person

  # JSON for tooling
  triton compile --schema person.yaml --class Person --format json`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileFlags.schema, "schema", "s", "", "schema file (required)")
	compileCmd.Flags().StringVar(&compileFlags.class, "class", "", "target class name (required)")
	compileCmd.Flags().StringVar(&compileFlags.format, "format", "text", "output format: text, json")
	_ = compileCmd.MarkFlagRequired("schema")
	_ = compileCmd.MarkFlagRequired("class")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Writer: os.Stderr})
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	program, err := rt.compileTarget(compileFlags.schema, compileFlags.class)
	if err != nil {
		return err
	}

	if compileFlags.format == "json" {
		return outputProgramJSON(program)
	}
	outputProgramText(program)
	return nil
}

type programSummary struct {
	Name         string   `json:"name"`
	SchemaID     string   `json:"schema_id"`
	Target       string   `json:"target"`
	Instructions []string `json:"instructions"`
	Patterns     []string `json:"patterns"`
	EnumCount    int      `json:"enum_count"`
}

func summarize(p *validator.Program) programSummary {
	instructions := make([]string, 0, len(p.Instructions))
	for _, inst := range p.Instructions {
		instructions = append(instructions, describeInstruction(inst, 0))
	}
	return programSummary{
		Name:         p.Name,
		SchemaID:     p.SchemaID,
		Target:       p.Target,
		Instructions: instructions,
		Patterns:     p.PatternStrings(),
		EnumCount:    p.EnumCount(),
	}
}

func outputProgramJSON(p *validator.Program) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summarize(p))
}

func outputProgramText(p *validator.Program) {
	fmt.Printf("%s (schema %s)\n", p.Name, p.SchemaID)
	fmt.Printf("instructions: %d, patterns: %d, enums: %d\n\n", len(p.Instructions), p.PatternCount(), p.EnumCount())
	for i, inst := range p.Instructions {
		fmt.Printf("%3d  %s\n", i, describeInstruction(inst, 0))
	}
	if patterns := p.PatternStrings(); len(patterns) > 0 {
		fmt.Println("\npattern table:")
		for i, pattern := range patterns {
			fmt.Printf("%3d  %s\n", i, pattern)
		}
	}
}

// describeInstruction renders one instruction, recursing into composites.
func describeInstruction(inst validator.Instruction, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch v := inst.(type) {
	case *validator.CheckRequired:
		return fmt.Sprintf("%scheck_required    %s field=%s", indent, v.At, v.Field)
	case *validator.ValidatePattern:
		return fmt.Sprintf("%svalidate_pattern  %s pattern_id=%d", indent, v.At, v.PatternID)
	case *validator.ValidateRange:
		return fmt.Sprintf("%svalidate_range    %s min=%s max=%s", indent, v.At, formatFloat(v.Min), formatFloat(v.Max))
	case *validator.ValidateLength:
		return fmt.Sprintf("%svalidate_length   %s min=%s max=%s", indent, v.At, formatInt(v.Min), formatInt(v.Max))
	case *validator.ValidateType:
		return fmt.Sprintf("%svalidate_type     %s expected=%s", indent, v.At, v.Expected)
	case *validator.ValidateEnum:
		return fmt.Sprintf("%svalidate_enum     %s enum_id=%d", indent, v.At, v.EnumID)
	case *validator.ValidateExpression:
		return fmt.Sprintf("%svalidate_expr     %s expr=%q assert=%t", indent, v.At, v.Expression, v.AssertTruth)
	case *validator.ValidateArray:
		lines := []string{fmt.Sprintf("%svalidate_array    %s", indent, v.At)}
		for _, el := range v.Elements {
			lines = append(lines, describeInstruction(el, depth+1))
		}
		return strings.Join(lines, "\n")
	case *validator.ValidateObject:
		lines := []string{fmt.Sprintf("%svalidate_object   %s", indent, v.At)}
		for _, fi := range v.FieldInstructions {
			lines = append(lines, describeInstruction(fi, depth+1))
		}
		return strings.Join(lines, "\n")
	case *validator.ConditionalValidation:
		lines := []string{indent + "conditional"}
		lines = append(lines, indent+"  if:")
		lines = append(lines, describeInstruction(v.Condition, depth+2))
		if len(v.Then) > 0 {
			lines = append(lines, indent+"  then:")
			for _, ti := range v.Then {
				lines = append(lines, describeInstruction(ti, depth+2))
			}
		}
		if len(v.Else) > 0 {
			lines = append(lines, indent+"  else:")
			for _, ei := range v.Else {
				lines = append(lines, describeInstruction(ei, depth+2))
			}
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprintf("%s%T %s", indent, inst, inst.Path())
	}
}

func formatFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}

func formatInt(i *int) string {
	if i == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *i)
}
