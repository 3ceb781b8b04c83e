package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatementAccounts names where bank statement lines are posted: the
// bank's own account, the account absorbing the other side, and the
// currency.
type StatementAccounts struct {
	Bank   string
	Offset string
	Asset  string
}

// ChaseParser parses Chase bank checking CSV exports. Each line becomes a
// two-entry transaction: the amount against the bank account and its
// negation against the offset account.
type ChaseParser struct {
	Accounts StatementAccounts
}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns Drafts.
func (p *ChaseParser) Parse(r io.Reader) ([]Draft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var drafts []Draft
	for i, rec := range records[1:] {
		d, err := p.parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (p *ChaseParser) parseRow(rec []string) (Draft, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return Draft{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return Draft{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	desc := rec[chaseColDesc]
	return Draft{
		Ref:         makeChaseRef(date, desc),
		Datetime:    date,
		Description: desc,
		Entries: []DraftEntry{
			{Account: p.Accounts.Bank, Asset: p.Accounts.Asset, Value: amount, Quantity: amount},
			{Account: p.Accounts.Offset, Asset: p.Accounts.Asset, Value: amount.Neg(), Quantity: amount.Neg()},
		},
	}, nil
}

// makeChaseRef creates a reference like chase_20250103_GITHUB.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
