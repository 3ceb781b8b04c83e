package accounts

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st, nil), st
}

func TestBootstrapBasicChart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root, err := svc.Bootstrap(ctx, DefaultChart("basic"))
	require.NoError(t, err)
	assert.Equal(t, "root", root.Name)
	assert.False(t, root.Postable)

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, []string{"root", "Assets", "Cash", "Liabilities", "Payables"}, names(all))
	for i, a := range all {
		assert.Equal(t, int64(i+1), a.ID, "ids follow depth-first order")
	}

	cash, err := svc.GetByName(ctx, "Cash")
	require.NoError(t, err)
	assets, err := svc.GetByName(ctx, "Assets")
	require.NoError(t, err)
	assert.Equal(t, assets.ID, cash.ParentID)
	assert.Equal(t, root.ID, assets.ParentID)
	assert.True(t, cash.Postable)
	assert.False(t, assets.Postable)

	below, err := svc.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, below, 4)
}

func TestBootstrapDefaultChart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Bootstrap(ctx, DefaultChart("fund"))
	require.NoError(t, err)

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 18)

	broker, err := svc.GetByName(ctx, "Broker")
	require.NoError(t, err)
	assert.Equal(t, int64(15), broker.ID)

	chain, err := svc.Ancestors(ctx, broker.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fees", "Expenses", "root"}, names(chain))
}

func TestBootstrapRejectsNonEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Bootstrap(ctx, DefaultChart("basic"))
	require.NoError(t, err)
	_, err = svc.Bootstrap(ctx, DefaultChart("basic"))
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestBootstrapRejectsEmptyGroup(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Bootstrap(ctx, Group("root", Group("Assets", Leaf("Cash")), Group("Equity")))
	assert.ErrorIs(t, err, model.ErrValidation)

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, "root", false, 0)
	require.NoError(t, err)
	assets, err := svc.Create(ctx, "Assets", false, root.ID)
	require.NoError(t, err)
	cash, err := svc.Create(ctx, "  Cash ", true, assets.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cash", cash.Name)
	assert.True(t, cash.Active)

	got, err := svc.Get(ctx, cash.ID)
	require.NoError(t, err)
	assert.Equal(t, cash, got)

	kids, err := svc.Children(ctx, assets.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cash"}, names(kids))
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, "root", false, 0)
	require.NoError(t, err)
	cash, err := svc.Create(ctx, "Cash", true, root.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "", true, root.ID)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(ctx, "second root", false, 0)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(ctx, "Orphan", true, 99)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Create(ctx, "Under leaf", true, cash.ID)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(ctx, "Cash", true, root.ID)
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.ErrorIs(t, err, model.ErrValidation)

	group, err := svc.Create(ctx, "Closed", false, root.ID)
	require.NoError(t, err)
	_, err = svc.SetActive(ctx, group.ID, false)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Under closed", true, group.ID)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreatePostableRootRejected(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "root", true, 0)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestTraversalNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Bootstrap(ctx, DefaultChart("basic"))
	require.NoError(t, err)

	_, err = svc.Children(ctx, 404)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = svc.Ancestors(ctx, 404)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = svc.Get(ctx, 404)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = svc.GetByName(ctx, "Nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRenameAndDeactivate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Bootstrap(ctx, DefaultChart("basic"))
	require.NoError(t, err)

	cash, err := svc.GetByName(ctx, "Cash")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, cash.ID, "Bank")
	require.NoError(t, err)
	assert.Equal(t, "Bank", renamed.Name)

	_, err = svc.Rename(ctx, cash.ID, "Payables")
	assert.ErrorIs(t, err, model.ErrConflict)

	off, err := svc.SetActive(ctx, cash.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)
}

func TestDelete(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	root, err := svc.Bootstrap(ctx, DefaultChart("basic"))
	require.NoError(t, err)

	cash, err := svc.GetByName(ctx, "Cash")
	require.NoError(t, err)
	payables, err := svc.GetByName(ctx, "Payables")
	require.NoError(t, err)
	spare, err := svc.Create(ctx, "Spare", true, root.ID)
	require.NoError(t, err)

	postTransfer(t, st, cash.ID, payables.ID)

	assert.ErrorIs(t, svc.Delete(ctx, root.ID), model.ErrConflict)
	assert.ErrorIs(t, svc.Delete(ctx, cash.ID), model.ErrConflict)
	assert.ErrorIs(t, svc.Delete(ctx, cash.ParentID), model.ErrConflict)
	assert.ErrorIs(t, svc.Delete(ctx, 404), model.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, spare.ID))
	_, err = svc.Get(ctx, spare.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func postTransfer(t *testing.T, st *store.Store, debit, credit int64) {
	t.Helper()
	ctx := context.Background()
	when := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	ten := decimal.NewFromInt(10)
	err := st.Update(ctx, func(tx *store.Tx) error {
		usd, err := tx.InsertAsset(ctx, model.Asset{Name: "USD", Active: true, Attrs: model.Currency{}})
		if err != nil {
			return err
		}
		fund, err := tx.InsertFund(ctx, model.Fund{Name: "main", AssetID: usd})
		if err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, &model.Transaction{
			Datetime: when, Timestamp: when, Value: ten, FundID: fund,
			Entries: []model.Entry{
				{Datetime: when, AccountID: debit, AssetID: usd, FundID: fund, Value: ten, Quantity: ten},
				{Datetime: when, AccountID: credit, AssetID: usd, FundID: fund, Value: ten.Neg(), Quantity: ten.Neg()},
			},
		})
	})
	require.NoError(t, err)
}

func TestDeleteKeepsGroupsPostable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	root, err := svc.Bootstrap(ctx, DefaultChart("basic"))
	require.NoError(t, err)

	payables, err := svc.GetByName(ctx, "Payables")
	require.NoError(t, err)
	err = svc.Delete(ctx, payables.ID)
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.ErrorContains(t, err, `group "Liabilities"`)
	_, err = svc.Get(ctx, payables.ID)
	require.NoError(t, err, "rejected delete must not remove the row")

	_, err = svc.Create(ctx, "Loans", true, payables.ParentID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, payables.ID))

	equity, err := svc.Create(ctx, "Equity", false, root.ID)
	require.NoError(t, err)
	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Equity"}, names(tree.EmptyGroups()))
	require.NoError(t, svc.Delete(ctx, equity.ID))
}
