package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an atomic, zero-sum group of entries.
type Transaction struct {
	ID          int64
	Datetime    time.Time // business date
	Timestamp   time.Time // write time
	Description string
	Value       decimal.Decimal // gross size: sum of the positive entries
	Cancel      bool
	FundID      int64
	Entries     []Entry
}

// Sum returns the signed total of all entry values.
func (t Transaction) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.Entries {
		sum = sum.Add(e.Value)
	}
	return sum
}

// GrossValue returns the sum of the positive entry values.
func GrossValue(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Value.IsPositive() {
			total = total.Add(e.Value)
		}
	}
	return total
}

// Fund partitions transactions. Only temporary funds may be deleted.
type Fund struct {
	ID        int64
	Name      string
	Temporary bool
	AssetID   int64 // valuation currency
}
