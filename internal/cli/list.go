package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheBiochemic/tickets/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Filter string // saved filter name
}

// ListResult holds the tickets matched by one list run.
type ListResult struct {
	Expression string         `json:"expression,omitempty"`
	Filter     string         `json:"filter,omitempty"`
	Count      int            `json:"count"`
	Tickets    []store.Ticket `json:"tickets"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list [expression|-]",
		Short: "List the tickets matching a filter",
		Long: `Run a filter expression, or a saved filter given with --filter, against
the ticket database and print the matching tickets.

Example:
  tickets list 'with_state(open) assigned_to(::me)'
  tickets list --filter local_state_open --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "name of a saved filter")

	return cmd
}

func runList(opts *ListOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if (len(args) == 0) == (opts.Filter == "") {
		_ = formatter.Error(ErrCodeGeneric, "give either an expression or --filter", nil)
		return NewExitError(ExitCommandError, "give either an expression or --filter")
	}

	result := ListResult{Filter: opts.Filter}
	if len(args) == 1 {
		expr, err := readExpression(args[0], cmd.InOrStdin())
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read expression", err)
		}
		result.Expression = expr
	}

	ctx := commandContext(cmd)
	a, st, err := openAdapter(ctx, opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	var tickets []store.Ticket
	if result.Filter != "" {
		tickets, err = a.ListFilterTickets(ctx, result.Filter)
	} else {
		tickets, err = a.ListTickets(ctx, result.Expression)
	}
	if err != nil {
		return reportAdapterError(formatter, err)
	}

	result.Count = len(tickets)
	result.Tickets = tickets

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return writeTicketTable(formatter.Writer, tickets)
}

// writeTicketTable prints tickets as an aligned table.
func writeTicketTable(w io.Writer, tickets []store.Ticket) error {
	if len(tickets) == 0 {
		_, err := fmt.Fprintln(w, "No tickets match.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tBUCKET\tTITLE\tASSIGNED\tDUE\tTAGS")
	for _, t := range tickets {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.State, t.BucketID, t.Title,
			dash(t.AssignedTo), formatDue(t.DueAt), dash(strings.Join(t.Tags, ",")))
	}
	return tw.Flush()
}

func formatDue(due time.Time) string {
	if due.IsZero() {
		return "-"
	}
	return due.UTC().Format(time.DateOnly)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
