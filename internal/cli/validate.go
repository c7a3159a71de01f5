package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/TheBiochemic/tickets/internal/adapter"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool // also compile, catching misplaced ;; separators
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                      `json:"valid"`
	Errors []adapter.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <expression|->",
		Short: "Check a filter expression without running it",
		Long: `Tokenize a filter expression and report whether it is valid.

Variables such as ::me are resolved from the configuration. Pass - to read
the expression from stdin. With --strict the expression is also compiled,
which additionally rejects a leading ;; and two ;; in a row.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "also compile the expression")

	return cmd
}

func runValidate(opts *ValidateOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	expr, err := readExpression(arg, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read expression", err)
	}

	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	a := adapter.NewWithoutStore(cfg)

	errs := a.ValidateExpression(expr)
	if len(errs) == 0 && opts.Strict {
		formatter.VerboseLog("Compiling expression")
		if _, err := a.CompileExpression(expr); err != nil {
			message := err.Error()
			var ae *adapter.Error
			if errors.As(err, &ae) {
				message = ae.Message
			}
			errs = append(errs, adapter.ValidationError{Field: "operation", Message: message})
		}
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	return outputValidateSuccess(formatter)
}

// readExpression returns arg, or all of in when arg is "-".
func readExpression(arg string, in io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading expression from stdin: %w", err)
	}
	return string(data), nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ Filter valid")
	return nil
}

// outputValidationErrors outputs validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []adapter.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    ErrCodeExpression,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
