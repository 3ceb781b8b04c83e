// Package journal records balanced transactions and their reversals.
package journal

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Service provides business logic for transactions.
type Service struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a journal Service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, log: logger.Named("journal"), now: time.Now}
}

// EntryParams describes one posting of a new transaction.
type EntryParams struct {
	AccountID int64
	AssetID   int64
	Value     decimal.Decimal
	Quantity  decimal.Decimal
}

// CreateParams holds parameters for recording a transaction.
type CreateParams struct {
	Datetime    time.Time
	Description string
	FundID      int64
	Entries     []EntryParams
}

// Create validates and records a transaction atomically. Nothing is
// written when any entry is rejected.
func (s *Service) Create(ctx context.Context, p CreateParams) (model.Transaction, error) {
	if p.Datetime.IsZero() {
		return model.Transaction{}, model.ValidationError{Field: "datetime", Reason: "transaction datetime is required"}
	}

	when := p.Datetime.UTC().Truncate(time.Millisecond)
	txn := model.Transaction{
		Datetime:    when,
		Timestamp:   s.now().UTC().Truncate(time.Millisecond),
		Description: strings.TrimSpace(p.Description),
		FundID:      p.FundID,
		Entries:     make([]model.Entry, len(p.Entries)),
	}
	for i, ep := range p.Entries {
		txn.Entries[i] = model.Entry{
			Datetime:  when,
			AccountID: ep.AccountID,
			AssetID:   ep.AssetID,
			FundID:    p.FundID,
			Value:     ep.Value,
			Quantity:  ep.Quantity,
		}
	}

	err := s.store.Update(ctx, func(tx *store.Tx) error {
		return record(ctx, tx, &txn, ValidateOptions{})
	})
	if err != nil {
		s.log.Debug("transaction rejected", zap.String("description", txn.Description), zap.Error(err))
		return model.Transaction{}, err
	}

	s.log.Info("transaction recorded",
		zap.Int64("id", txn.ID),
		zap.Int64("fund_id", txn.FundID),
		zap.Int("entries", len(txn.Entries)),
		zap.String("value", txn.Value.String()),
	)
	return txn, nil
}

// record validates txn against the store and inserts it. The transaction
// value is the gross of its positive entry values.
func record(ctx context.Context, tx *store.Tx, txn *model.Transaction, opts ValidateOptions) error {
	if err := ValidateEntries(ctx, txn.Entries, tx, opts); err != nil {
		return err
	}
	if _, err := tx.Fund(ctx, txn.FundID); err != nil {
		return err
	}
	txn.Value = model.GrossValue(txn.Entries)
	return tx.InsertTransaction(ctx, txn)
}

// Get returns the transaction with the given ID and its entries.
func (s *Service) Get(ctx context.Context, id int64) (model.Transaction, error) {
	var txn model.Transaction
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		txn, err = tx.Transaction(ctx, id)
		return err
	})
	return txn, err
}

// List returns the transactions of one fund, or of every fund when fundID
// is 0, in insertion order.
func (s *Service) List(ctx context.Context, fundID int64) ([]model.Transaction, error) {
	var out []model.Transaction
	err := s.store.View(ctx, func(tx *store.Tx) error {
		if fundID != 0 {
			if _, err := tx.Fund(ctx, fundID); err != nil {
				return err
			}
		}
		var err error
		out, err = tx.ListTransactions(ctx, fundID)
		return err
	})
	return out, err
}
