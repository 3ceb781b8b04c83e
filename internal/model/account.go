package model

import "github.com/shopspring/decimal"

// Account is a node in the chart of accounts.
//
// Postable accounts are leaves that accept entries; group accounts only
// aggregate the balances of their descendants.
type Account struct {
	ID       int64
	Name     string
	Postable bool
	ParentID int64 // 0 = root
	Active   bool
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentID == 0
}

// AccountBalance is one node of a balance sheet tree.
type AccountBalance struct {
	ID       int64
	Name     string
	ParentID int64
	Postable bool
	Balance  decimal.Decimal
	Children []*AccountBalance
}
