package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TheBiochemic/tickets/internal/store"
)

// NewFilterCommand creates the filter command and its subcommands.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage saved filters",
		Long: `List, save and drop named filter expressions.

The default filters created with the database are read only.`,
	}

	cmd.AddCommand(newFilterListCommand(rootOpts))
	cmd.AddCommand(newFilterSaveCommand(rootOpts))
	cmd.AddCommand(newFilterDropCommand(rootOpts))

	return cmd
}

func newFilterListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Aliases:       []string{"list"},
		Short:         "List saved filters",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilterList(rootOpts, cmd)
		},
	}
}

func runFilterList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	a, st, err := openAdapter(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	filters, err := a.Filters(ctx)
	if err != nil {
		return reportAdapterError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(filters)
	}

	if len(filters) == 0 {
		fmt.Fprintln(formatter.Writer, "No saved filters.")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBUILTIN\tOPERATION")
	for _, f := range filters {
		fmt.Fprintf(tw, "%s\t%t\t%s\n", f.Name, f.Builtin, f.Operation)
	}
	return tw.Flush()
}

func newFilterSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <expression|->",
		Short: "Save a filter expression under a name",
		Long: `Validate a filter expression and save it under name, replacing any
filter of that name that is not builtin.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilterSave(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runFilterSave(opts *RootOptions, name, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	expr, err := readExpression(arg, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read expression", err)
	}

	a, st, err := openAdapter(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	f := store.Filter{Name: name, Operation: expr}
	if err := a.WriteFilter(ctx, f); err != nil {
		return reportAdapterError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(f)
	}
	fmt.Fprintf(formatter.Writer, "✓ Saved filter %s\n", name)
	return nil
}

func newFilterDropCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "drop <name>",
		Aliases:       []string{"rm"},
		Short:         "Delete a saved filter",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilterDrop(rootOpts, args[0], cmd)
		},
	}
}

func runFilterDrop(opts *RootOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	a, st, err := openAdapter(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := a.DropFilter(ctx, name); err != nil {
		return reportAdapterError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"dropped": name})
	}
	fmt.Fprintf(formatter.Writer, "✓ Dropped filter %s\n", name)
	return nil
}
