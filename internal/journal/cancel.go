package journal

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Cancel reverses transaction id. The original and its entries are flagged
// cancelled and a mirror transaction is recorded in the same write, so
// every account nets back to where it was. The reversal itself is flagged
// cancelled and cannot be cancelled again.
func (s *Service) Cancel(ctx context.Context, txnID int64) (model.Transaction, error) {
	var reversal model.Transaction
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		orig, err := tx.Transaction(ctx, txnID)
		if err != nil {
			return err
		}
		if orig.Cancel {
			return model.ConflictError{Kind: model.KindTransaction, ID: txnID, Reason: "transaction is already cancelled"}
		}

		reversal = Reverse(orig, s.now())
		if err := tx.MarkCancelled(ctx, txnID); err != nil {
			return err
		}
		return record(ctx, tx, &reversal, ValidateOptions{AllowInactive: true})
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.log.Info("transaction cancelled", zap.Int64("id", txnID), zap.Int64("reversal_id", reversal.ID))
	return reversal, nil
}

// Reverse builds the reversal of orig: same datetime and fund, every entry
// mirrored, stamped at now.
func Reverse(orig model.Transaction, now time.Time) model.Transaction {
	r := model.Transaction{
		Datetime:    orig.Datetime,
		Timestamp:   now.UTC().Truncate(time.Millisecond),
		Description: id.CancelDescription(orig.ID),
		Cancel:      true,
		FundID:      orig.FundID,
		Entries:     make([]model.Entry, len(orig.Entries)),
	}
	for i, e := range orig.Entries {
		r.Entries[i] = e.Mirror()
	}
	return r
}
