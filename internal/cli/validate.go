package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationIssue is one problem found in a scenario file.
type ValidationIssue struct {
	File    string `json:"file,omitempty"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Scenarios int               `json:"scenarios"`
	Errors    []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios-dir>",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files without running them.

Each file is decoded strictly, checked against the scenario schema, and its
publisher is looked up in the registry. Faster than test for development
feedback.

Exit codes:
  0 - All scenarios valid
  1 - One or more scenarios invalid
  2 - Command error (directory not found, no scenario files)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loaded, loadErrors := LoadScenarios(dir, "", opts.registry(), LoadModeCollectAll)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) && loadErr.File == "" {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message, nil)
		}
	}

	total := len(loaded) + len(loadErrors)
	formatter.VerboseLog("Found %d scenario file(s) in %s", total, dir)
	for _, ls := range loaded {
		formatter.VerboseLog("Valid: %s (%s)", ls.Scenario.Name, ls.Path)
	}

	var issues []ValidationIssue
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			issues = append(issues, ValidationIssue{
				File:    loadErr.File,
				Field:   loadErr.Field,
				Code:    loadErr.Code,
				Message: loadErr.Message,
			})
			continue
		}
		issues = append(issues, ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()})
	}

	if len(issues) > 0 {
		return outputValidationErrors(formatter, total, issues)
	}
	return outputValidateSuccess(formatter, len(loaded))
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, count int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Scenarios: count})
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d scenario(s) valid\n", count)
	return nil
}

// outputCommandError outputs a single command-level error.
func outputCommandError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, count int, issues []ValidationIssue) error {
	message := fmt.Sprintf("validation failed with %d error(s)", len(issues))

	if formatter.Format == "json" {
		return formatter.Fail(CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:     false,
				Scenarios: count,
				Errors:    issues,
			},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}, ExitFailure, message)
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.File != "" {
			fmt.Fprintln(formatter.Writer, issue.File)
		}
		if issue.Field != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", issue.Code, issue.Field, issue.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
		}
	}

	return NewExitError(ExitFailure, message)
}
