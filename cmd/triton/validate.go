package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"helios-hq/triton/pkg/telemetry/logging"
	"helios-hq/triton/pkg/validator"
	"helios-hq/triton/pkg/validator/report"
	"helios-hq/triton/pkg/validator/store"
)

var validateFlags struct {
	schema string
	class  string
	format string
	save   bool
}

var validateCmd = &cobra.Command{
	Use:   "validate [data files...]",
	Short: "Validate data files against a schema class",
	Long: `Validate JSON data files against a class in a schema.

The schema is compiled into an instruction program for the target class,
then each data file is executed against the program. The exit status is
non-zero when any file is invalid.

Examples:
  # Validate one file
  triton validate --schema person.yaml --class Person data.json

  # Validate many files with JSON output for CI/CD
  triton validate --schema person.yaml --class Person --format json *.json

  # Persist reports to the configured store
  triton validate --schema person.yaml --class Person --save data.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.schema, "schema", "s", "", "schema file (required)")
	validateCmd.Flags().StringVar(&validateFlags.class, "class", "", "target class name (required)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
	validateCmd.Flags().BoolVar(&validateFlags.save, "save", false, "persist reports to the configured store")
	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("class")
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	program, err := rt.compileTarget(validateFlags.schema, validateFlags.class)
	if err != nil {
		return err
	}
	logger.Debug("program compiled",
		"class", validateFlags.class,
		"instructions", len(program.Instructions),
		"patterns", program.PatternCount(),
		"enums", program.EnumCount())

	var reportStore store.Store
	if validateFlags.save {
		reportStore, err = rt.openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer reportStore.Close()
	}

	executor := validator.NewExecutor()
	reports := make([]*report.ValidationReport, 0, len(args))
	invalid := 0

	for _, file := range args {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read data file %q: %w", file, err)
		}
		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("parse data file %q: %w", file, err)
		}

		start := time.Now()
		rep := executor.Validate(program, value)
		rep.Target = file
		rt.recordExecution(validateFlags.class, rep, time.Since(start))
		reports = append(reports, rep)
		if !rep.Valid() {
			invalid++
		}

		if reportStore != nil {
			if err := reportStore.SaveReport(cmd.Context(), rep); err != nil {
				return fmt.Errorf("save report for %q: %w", file, err)
			}
		}
	}

	if validateFlags.format == "json" {
		if err := outputJSON(reports); err != nil {
			return err
		}
	} else {
		outputText(reports)
	}

	if invalid > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d of %d files invalid", invalid, len(args))
	}
	return nil
}

func outputJSON(reports []*report.ValidationReport) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

func outputText(reports []*report.ValidationReport) {
	for _, rep := range reports {
		if rep.Valid() {
			fmt.Printf("✓ %s\n", rep.Target)
			continue
		}
		fmt.Printf("✗ %s\n", rep.Target)
		for _, issue := range rep.Issues {
			fmt.Printf("  [%s] %s: %s (%s)\n", issue.Severity, issue.Path, issue.Message, issue.Code)
		}
	}
}
