package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitResult describes the initialized database.
type InitResult struct {
	Path   string `json:"path"`
	Seeded bool   `json:"seeded"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ticket database",
		Long: `Create the ticket database at database.path (or --db) and apply the
schema. With database.include_default_data the default buckets, tags,
states and filters are added. Running init on an existing database only
applies pending migrations and adds missing defaults.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	result := InitResult{Path: cfg.Database.Path, Seeded: cfg.Database.IncludeDefaultData}
	if result.Seeded {
		formatter.VerboseLog("Adding default data for adapter %s", cfg.Adapter.Name)
		if err := st.Seed(ctx, cfg.Adapter.Name); err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to seed database", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Database ready at %s\n", result.Path)
	return nil
}
