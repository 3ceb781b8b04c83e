package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

func newFundCommand(opts *rootOptions) *cobra.Command {
	fundCmd := &cobra.Command{
		Use:   "fund",
		Short: "Manage funds",
	}
	fundCmd.AddCommand(
		newFundAddCommand(opts),
		newFundListCommand(opts),
		newFundShowCommand(opts),
		newFundDeleteCommand(opts),
	)
	return fundCmd
}

func newFundAddCommand(opts *rootOptions) *cobra.Command {
	var currency string
	var temporary bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a fund",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				code := currency
				if code == "" {
					code = a.cfg.Fund.Currency
				}
				cur, err := a.asset(ctx, code)
				if err != nil {
					return fmt.Errorf("currency: %w", err)
				}
				f, err := a.funds.Create(ctx, args[0], temporary, cur.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Created %s fund %s %s in %s\n", fundKind(f), id.Format(f.ID), f.Name, cur.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "valuation currency (defaults to the configured currency)")
	cmd.Flags().BoolVar(&temporary, "temporary", false, "allow the fund to be deleted with its transactions")

	return cmd
}

func fundKind(f model.Fund) string {
	if f.Temporary {
		return "temporary"
	}
	return "permanent"
}

func newFundListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List funds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				all, err := a.funds.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tKIND\tCURRENCY")
				for _, f := range all {
					cur, err := a.assets.Get(ctx, f.AssetID)
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id.Format(f.ID), f.Name, fundKind(f), cur.Name)
				}
				return tw.Flush()
			})
		},
	}
}

func newFundShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [fund]",
		Short: "Show a fund",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				f, err := a.fund(ctx, firstArg(args))
				if err != nil {
					return err
				}
				cur, err := a.assets.Get(ctx, f.AssetID)
				if err != nil {
					return err
				}
				txns, err := a.journal.List(ctx, f.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "ID:           %s\n", id.Format(f.ID))
				fmt.Fprintf(w, "Name:         %s\n", f.Name)
				fmt.Fprintf(w, "Kind:         %s\n", fundKind(f))
				fmt.Fprintf(w, "Currency:     %s\n", cur.Name)
				fmt.Fprintf(w, "Transactions: %d\n", len(txns))
				return nil
			})
		},
	}
}

func newFundDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <fund>",
		Short: "Delete a temporary fund and everything recorded in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				f, err := a.fund(ctx, args[0])
				if err != nil {
					return err
				}
				if err := a.funds.Delete(ctx, f.ID); err != nil {
					return err
				}
				fmt.Fprintf(w, "Deleted fund %s %s\n", id.Format(f.ID), f.Name)
				return nil
			})
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
