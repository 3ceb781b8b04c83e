// Package finance derives balances from the entry log.
package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Service computes balances.
type Service struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a finance Service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, log: logger.Named("finance"), now: time.Now}
}

// BalanceSheet returns the chart of accounts annotated with balances as of
// asOf. Postable accounts carry the sum of their entry values dated at or
// before asOf; groups carry the sum of their children. A fundID of 0 covers
// every fund and a zero asOf means now. Cancelled transactions stay in the
// sum: they net to zero against their reversal.
func (s *Service) BalanceSheet(ctx context.Context, fundID int64, asOf time.Time) (*model.AccountBalance, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}

	var root *model.AccountBalance
	err := s.store.View(ctx, func(tx *store.Tx) error {
		if fundID != 0 {
			if _, err := tx.Fund(ctx, fundID); err != nil {
				return err
			}
		}
		tree, err := accounts.LoadTree(ctx, tx)
		if err != nil {
			return err
		}
		postings, err := tx.PostingsAsOf(ctx, fundID, asOf)
		if err != nil {
			return err
		}
		root, err = fold(tree, postings)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("balance sheet computed",
		zap.Int64("fund_id", fundID),
		zap.Time("as_of", asOf),
		zap.String("root_balance", root.Balance.String()),
	)
	return root, nil
}

// fold sums postings into their accounts, then rolls every account up into
// its parent in post-order.
func fold(tree *accounts.Tree, postings []store.PostingValue) (*model.AccountBalance, error) {
	rootAcct, ok := tree.Root()
	if !ok {
		return nil, model.NotFoundError{Kind: model.KindAccount, Name: accounts.DefaultRootName}
	}

	order := tree.PostOrder()
	nodes := make(map[int64]*model.AccountBalance, len(order))
	for _, a := range order {
		nodes[a.ID] = &model.AccountBalance{
			ID:       a.ID,
			Name:     a.Name,
			ParentID: a.ParentID,
			Postable: a.Postable,
			Balance:  decimal.Zero,
		}
	}

	for _, p := range postings {
		n, ok := nodes[p.AccountID]
		if !ok {
			return nil, fmt.Errorf("entry references account %d outside the chart", p.AccountID)
		}
		n.Balance = n.Balance.Add(p.Value)
	}

	for _, a := range order {
		n := nodes[a.ID]
		children, err := tree.Children(a.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			child := nodes[c.ID]
			n.Children = append(n.Children, child)
			n.Balance = n.Balance.Add(child.Balance)
		}
	}
	return nodes[rootAcct.ID], nil
}

// TrialBalance returns the sum of every postable account's balance. A
// consistent ledger always returns zero.
func (s *Service) TrialBalance(ctx context.Context, fundID int64, asOf time.Time) (decimal.Decimal, error) {
	root, err := s.BalanceSheet(ctx, fundID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, n := range Flatten(root) {
		if n.Postable {
			total = total.Add(n.Balance)
		}
	}
	return total, nil
}

// Flatten lists a balance tree in pre-order.
func Flatten(root *model.AccountBalance) []*model.AccountBalance {
	if root == nil {
		return nil
	}
	var out []*model.AccountBalance
	stack := []*model.AccountBalance{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}
