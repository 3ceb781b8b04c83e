package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/importer"
	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/render"
)

func newTxnCommand(opts *rootOptions) *cobra.Command {
	txnCmd := &cobra.Command{
		Use:   "txn",
		Short: "Record and inspect transactions",
	}
	txnCmd.AddCommand(
		newTxnAddCommand(opts),
		newTxnListCommand(opts),
		newTxnShowCommand(opts),
		newTxnCancelCommand(opts),
		newTxnImportCommand(opts),
	)
	return txnCmd
}

func newTxnAddCommand(opts *rootOptions) *cobra.Command {
	var date, description, fund string
	var entries []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a balanced transaction",
		Long: `Record a transaction from one --entry per posting. Each entry is
ACCOUNT:VALUE[:ASSET[:QUANTITY]]; the asset defaults to the fund currency
and the quantity to the value. Values must sum to zero.`,
		Example: `  ledger txn add --desc "Owner deposit" --entry Cash:1000 --entry "Shares Issued:-1000"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				p, err := a.txnParams(ctx, date, description, fund, entries)
				if err != nil {
					return err
				}
				txn, err := a.journal.Create(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Recorded transaction %s (%d entries, value %s)\n", id.Format(txn.ID), len(txn.Entries), txn.Value)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date, YYYY-MM-DD or RFC 3339 (default now)")
	cmd.Flags().StringVar(&description, "desc", "", "description")
	cmd.Flags().StringVar(&fund, "fund", "", "fund (defaults to the configured fund)")
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "posting as ACCOUNT:VALUE[:ASSET[:QUANTITY]] (repeatable)")

	return cmd
}

func (a *app) txnParams(ctx context.Context, date, description, fundRef string, entries []string) (journal.CreateParams, error) {
	when, err := parseWhen(date, time.Now())
	if err != nil {
		return journal.CreateParams{}, err
	}
	f, err := a.fund(ctx, fundRef)
	if err != nil {
		return journal.CreateParams{}, fmt.Errorf("fund: %w", err)
	}

	p := journal.CreateParams{Datetime: when, Description: description, FundID: f.ID}
	for _, raw := range entries {
		e, err := parseEntryFlag(raw)
		if err != nil {
			return journal.CreateParams{}, err
		}
		acct, err := a.account(ctx, e.account)
		if err != nil {
			return journal.CreateParams{}, err
		}
		assetID := f.AssetID
		if e.asset != "" {
			asset, err := a.asset(ctx, e.asset)
			if err != nil {
				return journal.CreateParams{}, err
			}
			assetID = asset.ID
		}
		p.Entries = append(p.Entries, journal.EntryParams{
			AccountID: acct.ID,
			AssetID:   assetID,
			Value:     e.value,
			Quantity:  e.quantity,
		})
	}
	return p, nil
}

func newTxnListCommand(opts *rootOptions) *cobra.Command {
	var fund string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				var fundID int64
				if !all {
					f, err := a.fund(ctx, fund)
					if err != nil {
						return err
					}
					fundID = f.ID
				}
				txns, err := a.journal.List(ctx, fundID)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tVALUE\tENTRIES\tSTATUS\tDESCRIPTION")
				for _, txn := range txns {
					status := "posted"
					if txn.Cancel {
						status = "cancelled"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
						id.Format(txn.ID), txn.Datetime.Format(dateFormat), txn.Value, len(txn.Entries), status, txn.Description)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&fund, "fund", "", "fund (defaults to the configured fund)")
	cmd.Flags().BoolVar(&all, "all", false, "list every fund")

	return cmd
}

func newTxnShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a transaction and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txnID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				txn, err := a.journal.Get(ctx, txnID)
				if err != nil {
					return err
				}
				if err := render.Entries(w, txn, a.nameOf(ctx, a.accountName), a.nameOf(ctx, a.assetName)); err != nil {
					return err
				}
				if origID, ok := id.ParseCancelDescription(txn.Description); ok && txn.Cancel {
					fmt.Fprintf(w, "Reverses transaction %s\n", id.Format(origID))
				}
				return nil
			})
		},
	}
}

func (a *app) accountName(ctx context.Context, n int64) (string, error) {
	acct, err := a.accounts.Get(ctx, n)
	return acct.Name, err
}

func (a *app) assetName(ctx context.Context, n int64) (string, error) {
	asset, err := a.assets.Get(ctx, n)
	return asset.Name, err
}

// nameOf adapts a lookup for render, falling back to the formatted ID.
func (a *app) nameOf(ctx context.Context, lookup func(context.Context, int64) (string, error)) func(int64) string {
	return func(n int64) string {
		name, err := lookup(ctx, n)
		if err != nil {
			return id.Format(n)
		}
		return name
	}
}

func newTxnCancelCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a transaction by recording its reversal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txnID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				rev, err := a.journal.Cancel(ctx, txnID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Cancelled transaction %s with reversal %s\n", id.Format(txnID), id.Format(rev.ID))
				return nil
			})
		},
	}
}

func newTxnImportCommand(opts *rootOptions) *cobra.Command {
	var format, fund, bank, offset, currency string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import transactions from CSV",
		Long: `Import transactions from a CSV file. Without a file, every CSV in the
ledger's import/ directory is imported and moved to import/processed/.
Each transaction is recorded on its own; rejected ones are reported and
skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				f, err := a.fund(ctx, fund)
				if err != nil {
					return fmt.Errorf("fund: %w", err)
				}
				code := currency
				if code == "" {
					code = a.cfg.Fund.Currency
				}
				reg := importer.DefaultRegistry(importer.StatementAccounts{Bank: bank, Offset: offset, Asset: code})
				parser := reg.Get(format)
				if parser == nil {
					return fmt.Errorf("unknown import format %q", format)
				}

				if len(args) == 1 {
					return a.importFile(ctx, w, parser, args[0], f.ID)
				}
				files, err := importer.Scan(a.root)
				if err != nil {
					return err
				}
				for _, file := range files {
					if err := a.importFile(ctx, w, parser, file.Path, f.ID); err != nil {
						return err
					}
					if err := importer.MarkProcessed(a.root, file.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "entries", "file format (entries or chase)")
	cmd.Flags().StringVar(&fund, "fund", "", "fund (defaults to the configured fund)")
	cmd.Flags().StringVar(&bank, "bank", "Cash", "account a bank statement is posted to")
	cmd.Flags().StringVar(&offset, "offset", "Other", "account absorbing the other side of bank statement lines")
	cmd.Flags().StringVar(&currency, "currency", "", "currency of bank statement lines (defaults to the configured currency)")

	return cmd
}

func (a *app) importFile(ctx context.Context, w io.Writer, parser importer.Parser, path string, fundID int64) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer fh.Close()

	drafts, err := parser.Parse(fh)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var recorded, rejected int
	for _, d := range drafts {
		p, err := d.Params(ctx, fundID, a)
		if err == nil {
			_, err = a.journal.Create(ctx, p)
		}
		if err != nil {
			rejected++
			a.log.Warn("import rejected", zap.String("file", filepath.Base(path)), zap.String("ref", d.Ref), zap.Error(err))
			fmt.Fprintf(w, "  skipped %s: %v\n", d.Ref, err)
			continue
		}
		recorded++
	}
	fmt.Fprintf(w, "Imported %s: %d recorded, %d rejected\n", filepath.Base(path), recorded, rejected)
	return nil
}

var _ importer.Resolver = (*app)(nil)

