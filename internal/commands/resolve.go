package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

// account resolves ref by name first, then by ID, so a numeric account
// name still resolves to itself.
func (a *app) account(ctx context.Context, ref string) (model.Account, error) {
	acct, err := a.accounts.GetByName(ctx, ref)
	if errors.Is(err, model.ErrNotFound) {
		if n, perr := id.Parse(ref); perr == nil {
			return a.accounts.Get(ctx, n)
		}
	}
	return acct, err
}

func (a *app) asset(ctx context.Context, ref string) (model.Asset, error) {
	asset, err := a.assets.GetByName(ctx, ref)
	if errors.Is(err, model.ErrNotFound) {
		if n, perr := id.Parse(ref); perr == nil {
			return a.assets.Get(ctx, n)
		}
	}
	return asset, err
}

// fund resolves ref, or the configured default fund when ref is empty.
func (a *app) fund(ctx context.Context, ref string) (model.Fund, error) {
	if ref == "" {
		ref = a.cfg.Fund.Name
	}
	f, err := a.funds.GetByName(ctx, ref)
	if errors.Is(err, model.ErrNotFound) {
		if n, perr := id.Parse(ref); perr == nil {
			return a.funds.Get(ctx, n)
		}
	}
	return f, err
}

// AccountID implements importer.Resolver.
func (a *app) AccountID(ctx context.Context, name string) (int64, error) {
	acct, err := a.account(ctx, name)
	return acct.ID, err
}

// AssetID implements importer.Resolver.
func (a *app) AssetID(ctx context.Context, name string) (int64, error) {
	asset, err := a.asset(ctx, name)
	return asset.ID, err
}

// entryFlag is one --entry value: ACCOUNT:VALUE[:ASSET[:QUANTITY]].
type entryFlag struct {
	account  string
	value    decimal.Decimal
	asset    string
	quantity decimal.Decimal
}

func parseEntryFlag(s string) (entryFlag, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return entryFlag{}, fmt.Errorf("invalid entry %q: want ACCOUNT:VALUE[:ASSET[:QUANTITY]]", s)
	}
	e := entryFlag{account: strings.TrimSpace(parts[0])}
	if e.account == "" {
		return entryFlag{}, fmt.Errorf("invalid entry %q: account is required", s)
	}
	var err error
	e.value, err = decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return entryFlag{}, fmt.Errorf("invalid entry %q: value: %w", s, err)
	}
	e.quantity = e.value
	if len(parts) > 2 {
		e.asset = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		e.quantity, err = decimal.NewFromString(strings.TrimSpace(parts[3]))
		if err != nil {
			return entryFlag{}, fmt.Errorf("invalid entry %q: quantity: %w", s, err)
		}
	}
	return e, nil
}

// parseWhen accepts a date, an RFC 3339 timestamp, or "" for now.
func parseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(dateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

const dateFormat = "2006-01-02"
