package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

func newAssetCommand(opts *rootOptions) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage assets",
	}
	assetCmd.AddCommand(newAssetAddCommand(opts), newAssetListCommand(opts))
	return assetCmd
}

type assetFlags struct {
	kind        string
	description string
	priceAsset  string
	expiration  string
	amount      string
}

func newAssetAddCommand(opts *rootOptions) *cobra.Command {
	var f assetFlags

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				attrs, err := f.attrs(ctx, a)
				if err != nil {
					return err
				}
				asset, err := a.assets.Create(ctx, model.Asset{
					Name:        args[0],
					Description: f.description,
					Active:      true,
					Attrs:       attrs,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Created %s %s %s\n", asset.Kind(), id.Format(asset.ID), asset.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.kind, "type", string(model.AssetKindCurrency), "currency, stock, fund, bond, option, future or index")
	cmd.Flags().StringVar(&f.description, "description", "", "free-form description")
	cmd.Flags().StringVar(&f.priceAsset, "price-asset", "", "currency a stock or fund share is priced in")
	cmd.Flags().StringVar(&f.expiration, "expiration", "", "expiration date of a bond, option or future (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "face value of a bond or strike of an option")

	return cmd
}

func (f assetFlags) attrs(ctx context.Context, a *app) (model.AssetAttrs, error) {
	rec := model.AssetRecord{Kind: model.AssetKind(strings.ToLower(f.kind))}
	if f.priceAsset != "" {
		price, err := a.asset(ctx, f.priceAsset)
		if err != nil {
			return nil, fmt.Errorf("price asset: %w", err)
		}
		rec.PriceAssetID = price.ID
	}
	if f.expiration != "" {
		exp, err := time.Parse(dateFormat, f.expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration %q: %w", f.expiration, err)
		}
		rec.Expiration = exp
	}
	if f.amount != "" {
		amt, err := decimal.NewFromString(f.amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", f.amount, err)
		}
		rec.Amount = amt
	}
	return rec.Attrs()
}

func newAssetListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				all, err := a.assets.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tDETAILS\tDESCRIPTION")
				for _, asset := range all {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id.Format(asset.ID), asset.Name, asset.Kind(), details(asset.Attrs), asset.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func details(attrs model.AssetAttrs) string {
	switch v := attrs.(type) {
	case model.Stock:
		return priced(v.PriceAssetID)
	case model.FundShare:
		return priced(v.PriceAssetID)
	case model.Bond:
		return fmt.Sprintf("expires %s, face %s", v.Expiration.Format(dateFormat), v.FaceValue)
	case model.Option:
		return fmt.Sprintf("expires %s, strike %s", v.Expiration.Format(dateFormat), v.Strike)
	case model.Future:
		return "expires " + v.Expiration.Format(dateFormat)
	default:
		return "-"
	}
}

func priced(assetID int64) string {
	if assetID == 0 {
		return "-"
	}
	return "priced in " + id.Format(assetID)
}
