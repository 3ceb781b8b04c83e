// Package render formats ledger data for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// Amount formats d in currency code, like "$1,234.50" for USD. Codes
// unknown to the currency table fall back to "1234.5 BTC" with full
// precision.
func Amount(d decimal.Decimal, code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return strings.TrimSpace(d.String() + " " + code)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// BalanceTree writes a balance sheet as an indented two-column table.
// Group names are suffixed with "/".
func BalanceTree(w io.Writer, root *model.AccountBalance, code string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var walk func(n *model.AccountBalance, depth int)
	walk = func(n *model.AccountBalance, depth int) {
		name := n.Name
		if !n.Postable {
			name += "/"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t\n", strings.Repeat("  ", depth), name, Amount(n.Balance, code))
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return tw.Flush()
}

// Entries writes the entries of a transaction, one per line.
func Entries(w io.Writer, txn model.Transaction, accountName, assetName func(int64) string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\n", txn.ID, txn.Datetime.Format("2006-01-02 15:04:05"), txn.Description, status(txn.Cancel))
	for _, e := range txn.Entries {
		fmt.Fprintf(tw, "\t%s\t%s\t%s %s\n", accountName(e.AccountID), e.Value.String(), e.Quantity.String(), assetName(e.AssetID))
	}
	return tw.Flush()
}

func status(cancelled bool) string {
	if cancelled {
		return "cancelled"
	}
	return ""
}
