package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pubtest/internal/harness"
	"github.com/roach88/pubtest/internal/ir"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	RunID string // overrides the scenario's run_id
}

// RunOutput is the JSON payload of the run command.
type RunOutput struct {
	Scenario string               `json:"scenario"`
	Pass     bool                 `json:"pass"`
	Error    string               `json:"error,omitempty"`
	Errors   []string             `json:"errors,omitempty"`
	Output   ir.Object            `json:"output,omitempty"`
	Trace    []harness.TraceEvent `json:"trace"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario-file>",
		Short: "Run a single scenario and print its trace",
		Long: `Run a single scenario file and print the publisher call timeline.

Golden files are not consulted. Use --verbose to include request arguments,
fingerprints and results in the timeline.

Exit codes:
  0 - Scenario passed
  1 - Scenario failed
  2 - Command error (file not found, invalid scenario, unknown publisher)

Examples:
  pubtest run ./scenarios/orders.yaml
  pubtest run ./scenarios/orders.yaml --run-id debug-1 --verbose
  pubtest run ./scenarios/orders.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "pin the run ID (overrides the scenario's run_id)")

	return cmd
}

func runScenario(opts *RunOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg := opts.registry()
	sc, err := LoadScenarioFile(file, reg)
	if err != nil {
		code, message := ErrCodeGeneric, err.Error()
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			code = loadErr.Code
		}
		return outputCommandError(formatter, code, message, nil)
	}
	if opts.RunID != "" {
		sc.RunID = opts.RunID
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter.VerboseLog("Running %s with publisher %s", sc.Name, sc.Publisher)
	result, err := harness.Run(ctx, sc,
		harness.WithRegistry(reg),
		harness.WithLogger(opts.logger(cmd.ErrOrStderr())),
	)
	if err != nil {
		return outputCommandError(formatter, ErrCodeRunFailed, fmt.Sprintf("failed to run scenario: %v", err), nil)
	}

	if opts.Format == "json" {
		return outputRunJSON(formatter, sc, result)
	}
	return outputRunText(formatter.Writer, sc, result, opts.Verbose)
}

func outputRunJSON(formatter *OutputFormatter, sc *harness.Scenario, result *harness.Result) error {
	payload := RunOutput{
		Scenario: sc.Name,
		Pass:     result.Pass,
		Error:    result.ErrorMessage(),
		Errors:   result.Errors,
		Output:   result.Output,
		Trace:    result.Trace,
	}
	if result.Pass {
		return formatter.WriteJSON(CLIResponse{Status: "ok", Data: payload, RunID: result.RunID})
	}

	message := fmt.Sprintf("scenario %s failed", sc.Name)
	return formatter.Fail(CLIResponse{
		Status: "error",
		Data:   payload,
		RunID:  result.RunID,
		Error:  &CLIError{Code: ErrCodeTestFailed, Message: message, Details: result.Errors},
	}, ExitFailure, message)
}

func outputRunText(w io.Writer, sc *harness.Scenario, result *harness.Result, verbose bool) error {
	fmt.Fprintf(w, "Scenario: %s\n", sc.Name)
	fmt.Fprintf(w, "Publisher: %s\n", sc.Publisher)
	fmt.Fprintf(w, "Run ID: %s\n", result.RunID)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	for _, event := range result.Trace {
		formatTimelineEvent(w, event, verbose)
	}
	fmt.Fprintln(w)

	if result.Err == nil {
		fmt.Fprintf(w, "Rows: %d\n", rowCount(result.Output))
	} else {
		fmt.Fprintf(w, "Publisher error: %s\n", result.ErrorMessage())
	}

	if !result.Pass {
		fmt.Fprintf(w, "✗ %s\n", sc.Name)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", sc.Name))
	}

	fmt.Fprintf(w, "✓ %s\n", sc.Name)
	return nil
}

// formatTimelineEvent formats a single trace event for text output.
func formatTimelineEvent(w io.Writer, event harness.TraceEvent, verbose bool) {
	switch event.Type {
	case harness.EventCall:
		fmt.Fprintf(w, "  [%d] CALL %s\n", event.Seq, event.Op)
		if verbose {
			fmt.Fprintf(w, "       Args: %s\n", formatObject(event.Args))
			fmt.Fprintf(w, "       Fingerprint: %s\n", truncateID(event.Fingerprint))
		}

	case harness.EventReturn:
		if event.Error != "" {
			fmt.Fprintf(w, "  [%d] FAIL %s: %s\n", event.Seq, event.Op, event.Error)
			return
		}
		fmt.Fprintf(w, "  [%d] RET  %s\n", event.Seq, event.Op)
		if verbose && event.Result != nil {
			fmt.Fprintf(w, "       Result: %s\n", formatObject(event.Result))
		}
	}
}

// formatObject renders obj as canonical JSON for display.
func formatObject(obj ir.Object) string {
	if len(obj) == 0 {
		return "{}"
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}

// truncateID shortens a hex digest for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:16] + "..."
}

func rowCount(output ir.Object) int64 {
	if n, ok := output["row_count"].(ir.Int); ok {
		return int64(n)
	}
	return 0
}
