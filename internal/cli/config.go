package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, tickets.yaml and TICKETS_*
environment variables have been applied.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(rootOpts, cmd)
		},
	})

	return cmd
}

func runConfigShow(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}

	if formatter.Format == "json" {
		return formatter.Success(cfg)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to render config", err)
	}
	_, err = fmt.Fprint(formatter.Writer, string(out))
	return err
}
