package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// Catalog resolves the accounts and assets referenced by entries.
type Catalog interface {
	Account(ctx context.Context, id int64) (model.Account, error)
	Asset(ctx context.Context, id int64) (model.Asset, error)
}

// ValidateOptions relaxes ValidateEntries.
type ValidateOptions struct {
	// AllowInactive lets entries post to deactivated accounts. Reversals
	// use it so that a transaction can always be cancelled.
	AllowInactive bool
}

// ValidateEntries enforces the posting invariants on the entries of one
// transaction. Checks run in stages and stop at the first stage that
// fails; every violation within that stage is reported.
//
//  1. at least one entry
//  2. value and quantity non-zero and within model.Scale digits
//  3. values sum to exactly zero
//  4. every account exists, is postable and active
//  5. every asset exists
func ValidateEntries(ctx context.Context, entries []model.Entry, catalog Catalog, opts ValidateOptions) error {
	// Invariant 1: something to post.
	if len(entries) == 0 {
		return model.UnbalancedEntriesError{Reason: "no entries"}
	}

	// Invariant 2: no zero-magnitude postings, fixed-point scale.
	var errs []error
	for i, e := range entries {
		if e.Value.IsZero() {
			errs = append(errs, model.ZeroMagnitudeEntryError{Index: i, Field: "value"})
		}
		if e.Quantity.IsZero() {
			errs = append(errs, model.ZeroMagnitudeEntryError{Index: i, Field: "quantity"})
		}
		if !model.FitsScale(e.Value) || !model.FitsScale(e.Quantity) {
			errs = append(errs, model.ValidationError{
				Field:  fmt.Sprintf("entries[%d]", i),
				Reason: fmt.Sprintf("more than %d decimal places", model.Scale),
			})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	// Invariant 3: exact zero sum.
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Value)
	}
	if !sum.IsZero() {
		return model.UnbalancedEntriesError{Sum: sum}
	}

	// Invariant 4: postable, active accounts.
	accounts := make(map[int64]model.Account)
	for i, e := range entries {
		a, ok := accounts[e.AccountID]
		if !ok {
			var err error
			a, err = catalog.Account(ctx, e.AccountID)
			if errors.Is(err, model.ErrNotFound) {
				errs = append(errs, err)
				continue
			}
			if err != nil {
				return err
			}
			accounts[e.AccountID] = a
		}
		switch {
		case !a.Postable:
			errs = append(errs, model.NotPostableError{Index: i, AccountID: a.ID, Name: a.Name, Reason: "group account"})
		case !a.Active && !opts.AllowInactive:
			errs = append(errs, model.NotPostableError{Index: i, AccountID: a.ID, Name: a.Name, Reason: "inactive account"})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	// Invariant 5: known assets.
	seen := make(map[int64]bool)
	for _, e := range entries {
		if seen[e.AssetID] {
			continue
		}
		seen[e.AssetID] = true
		if _, err := catalog.Asset(ctx, e.AssetID); err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
