package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntriesParser reads one entry per row. Rows sharing a ref form one
// transaction; the first row of a ref supplies its datetime and
// description. A blank quantity defaults to the value.
//
//	ref,datetime,description,account,asset,value,quantity
//	t1,2025-01-15,Deposit,Cash,USD,10,
//	t1,2025-01-15,,Payables,USD,-10,
type EntriesParser struct{}

var entriesHeader = []string{"ref", "datetime", "description", "account", "asset", "value", "quantity"}

const (
	colRef = iota
	colDatetime
	colDescription
	colAccount
	colAsset
	colValue
	colQuantity
)

// Format returns the parser name.
func (p *EntriesParser) Format() string { return "entries" }

// Parse reads an entries CSV and returns Drafts in first-seen ref order.
func (p *EntriesParser) Parse(r io.Reader) ([]Draft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(entriesHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading entries CSV: %w", err)
	}
	for i, h := range entriesHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), h) {
			return nil, fmt.Errorf("entries CSV: column %d is %q, want %q", i+1, header[i], h)
		}
	}

	var drafts []Draft
	index := make(map[string]int)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading entries CSV: %w", err)
		}

		ref := strings.TrimSpace(rec[colRef])
		if ref == "" {
			return nil, fmt.Errorf("row %d: ref is required", line)
		}
		entry, err := parseEntryRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		i, ok := index[ref]
		if !ok {
			when, err := parseDatetime(rec[colDatetime])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
			i = len(drafts)
			index[ref] = i
			drafts = append(drafts, Draft{Ref: ref, Datetime: when, Description: strings.TrimSpace(rec[colDescription])})
		}
		drafts[i].Entries = append(drafts[i].Entries, entry)
	}
	return drafts, nil
}

func parseEntryRow(rec []string) (DraftEntry, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(rec[colValue]))
	if err != nil {
		return DraftEntry{}, fmt.Errorf("parsing value %q: %w", rec[colValue], err)
	}
	qty := value
	if q := strings.TrimSpace(rec[colQuantity]); q != "" {
		qty, err = decimal.NewFromString(q)
		if err != nil {
			return DraftEntry{}, fmt.Errorf("parsing quantity %q: %w", q, err)
		}
	}
	return DraftEntry{
		Account:  strings.TrimSpace(rec[colAccount]),
		Asset:    strings.TrimSpace(rec[colAsset]),
		Value:    value,
		Quantity: qty,
	}, nil
}

// parseDatetime accepts a date or an RFC 3339 timestamp; dates are
// midnight UTC.
func parseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing datetime %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}
