package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for values and quantities.
const Scale = 10

// Entry is one signed posting against one account within a transaction.
//
// Entries are immutable once written except for Cancel, which is set when
// the owning transaction is reversed.
type Entry struct {
	ID            int64
	Datetime      time.Time
	AccountID     int64
	TransactionID int64
	AssetID       int64
	FundID        int64
	Value         decimal.Decimal
	Quantity      decimal.Decimal
	Cancel        bool
}

// Mirror returns the cancelling counterpart of e: same account and asset,
// negated value and quantity, flagged as cancelled.
func (e Entry) Mirror() Entry {
	return Entry{
		Datetime:  e.Datetime,
		AccountID: e.AccountID,
		AssetID:   e.AssetID,
		FundID:    e.FundID,
		Value:     e.Value.Neg(),
		Quantity:  e.Quantity.Neg(),
		Cancel:    true,
	}
}

// FitsScale reports whether d has no more than Scale fractional digits.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}
