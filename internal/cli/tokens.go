package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TheBiochemic/tickets/internal/adapter"
)

// TokensResult holds the canonical form of a tokenized expression.
type TokensResult struct {
	Instructions []string `json:"instructions"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <expression|->",
		Short: "Print the instructions of a filter expression",
		Long: `Tokenize a filter expression and print its instructions in canonical
form, one per line. The output is itself a valid expression.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(rootOpts, args[0], cmd)
		},
	}
}

func runTokens(opts *RootOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	expr, err := readExpression(arg, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read expression", err)
	}

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}

	rendered, err := adapter.NewWithoutStore(cfg).Tokenize(expr)
	if err != nil {
		return reportAdapterError(formatter, err)
	}

	if formatter.Format == "json" {
		result := TokensResult{Instructions: []string{}}
		for _, line := range strings.Split(rendered, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				result.Instructions = append(result.Instructions, line)
			}
		}
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, rendered)
	return nil
}
