package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/render"
)

func newBalanceCommand(opts *rootOptions) *cobra.Command {
	var fund, asOf string
	var all, check bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the balance sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				when, err := parseAsOf(asOf)
				if err != nil {
					return err
				}
				var fundID int64
				currency := a.cfg.Fund.Currency
				if !all {
					f, err := a.fund(ctx, fund)
					if err != nil {
						return err
					}
					cur, err := a.assets.Get(ctx, f.AssetID)
					if err != nil {
						return err
					}
					fundID, currency = f.ID, cur.Name
				}

				if check {
					total, err := a.finance.TrialBalance(ctx, fundID, when)
					if err != nil {
						return err
					}
					if !total.IsZero() {
						return fmt.Errorf("trial balance is off by %s", total)
					}
					tree, err := a.accounts.Tree(ctx)
					if err != nil {
						return err
					}
					warnEmptyGroups(cmd.ErrOrStderr(), tree)
					fmt.Fprintln(w, "Trial balance OK")
					return nil
				}

				root, err := a.finance.BalanceSheet(ctx, fundID, when)
				if err != nil {
					return err
				}
				return render.BalanceTree(w, root, currency)
			})
		},
	}

	cmd.Flags().StringVar(&fund, "fund", "", "fund (defaults to the configured fund)")
	cmd.Flags().BoolVar(&all, "all", false, "aggregate every fund")
	cmd.Flags().StringVar(&asOf, "as-of", "", "include entries dated up to this date, YYYY-MM-DD or RFC 3339 (default now)")
	cmd.Flags().BoolVar(&check, "check", false, "only verify that postable balances sum to zero")

	return cmd
}

// parseAsOf treats a bare date as the end of that day.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.Parse(dateFormat, s); err == nil {
		return d.Add(24*time.Hour - time.Millisecond), nil
	}
	return parseWhen(s, time.Time{})
}
