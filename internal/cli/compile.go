package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TheBiochemic/tickets/internal/adapter"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult holds the compiled query.
type CompilationResult struct {
	Expression string `json:"expression"`
	SQL        string `json:"sql"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <expression|->",
		Short: "Compile a filter expression to SQL",
		Long: `Compile a filter expression to the SQL query that selects the matching
tickets. The query is printed (or written to --output) and not executed.

Pass - to read the expression from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, arg string, cmd *cobra.Command) error {
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

	query, err := adapter.NewWithoutStore(cfg).CompileExpression(expr)
	if err != nil {
		return reportAdapterError(formatter, err)
	}
	formatter.VerboseLog("Compiled %d byte(s) of SQL", len(query))

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(query+"\n"), 0o644); err != nil {
			_ = formatter.Error(ErrCodeWrite, fmt.Sprintf("failed to write output: %v", err), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(map[string]string{"output": opts.Output})
		}
		fmt.Fprintf(formatter.Writer, "✓ Wrote query to %s\n", opts.Output)
		return nil
	}

	if formatter.Format == "json" {
		return formatter.Success(CompilationResult{Expression: expr, SQL: query})
	}
	fmt.Fprintln(formatter.Writer, query)
	return nil
}
