package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors. Every typed error below matches exactly one of them
// with errors.Is, except ConflictError on a duplicate name which matches
// both ErrConflict and ErrValidation.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrUnbalanced    = errors.New("unbalanced entries")
	ErrZeroMagnitude = errors.New("zero magnitude entry")
	ErrNotPostable   = errors.New("account not postable")
	ErrConflict      = errors.New("conflict")
)

// Kind names a ledger record type in error messages.
type Kind string

const (
	KindAccount     Kind = "account"
	KindAsset       Kind = "asset"
	KindFund        Kind = "fund"
	KindTransaction Kind = "transaction"
)

// ValidationError reports malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a missing record, looked up by ID or by Name.
type NotFoundError struct {
	Kind Kind
	ID   int64
	Name string
}

func (e NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UnbalancedEntriesError reports a set of entries that does not sum to zero.
type UnbalancedEntriesError struct {
	Sum    decimal.Decimal
	Reason string
}

func (e UnbalancedEntriesError) Error() string {
	if e.Reason != "" {
		return "unbalanced entries: " + e.Reason
	}
	return fmt.Sprintf("unbalanced entries: sum is %s", e.Sum.String())
}

func (e UnbalancedEntriesError) Is(target error) bool { return target == ErrUnbalanced }

// ZeroMagnitudeEntryError reports an entry whose value or quantity is zero.
type ZeroMagnitudeEntryError struct {
	Index int
	Field string // "value" or "quantity"
}

func (e ZeroMagnitudeEntryError) Error() string {
	return fmt.Sprintf("entry %d: %s must be non-zero", e.Index, e.Field)
}

func (e ZeroMagnitudeEntryError) Is(target error) bool { return target == ErrZeroMagnitude }

// NotPostableError reports an entry against a group or inactive account.
type NotPostableError struct {
	Index     int
	AccountID int64
	Name      string
	Reason    string
}

func (e NotPostableError) Error() string {
	return fmt.Sprintf("entry %d: account %d (%s) is not postable: %s", e.Index, e.AccountID, e.Name, e.Reason)
}

func (e NotPostableError) Is(target error) bool { return target == ErrNotPostable }

// ConflictError reports an operation rejected by the current ledger state.
type ConflictError struct {
	Kind      Kind
	ID        int64
	Reason    string
	Duplicate bool // unique name violation
}

func (e ConflictError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s conflict: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s %d conflict: %s", e.Kind, e.ID, e.Reason)
}

func (e ConflictError) Is(target error) bool {
	return target == ErrConflict || (e.Duplicate && target == ErrValidation)
}
