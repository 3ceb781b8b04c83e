package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
)

// mockCatalog implements Catalog for testing.
type mockCatalog struct {
	accounts map[int64]model.Account
	assets   map[int64]model.Asset
	err      error
}

func (m *mockCatalog) Account(_ context.Context, id int64) (model.Account, error) {
	if m.err != nil {
		return model.Account{}, m.err
	}
	a, ok := m.accounts[id]
	if !ok {
		return model.Account{}, model.NotFoundError{Kind: model.KindAccount, ID: id}
	}
	return a, nil
}

func (m *mockCatalog) Asset(_ context.Context, id int64) (model.Asset, error) {
	a, ok := m.assets[id]
	if !ok {
		return model.Asset{}, model.NotFoundError{Kind: model.KindAsset, ID: id}
	}
	return a, nil
}

// Accounts: 1 root group, 2 Cash, 3 Payables, 4 Closed (inactive).
// Assets: 1 USD.
func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		accounts: map[int64]model.Account{
			1: {ID: 1, Name: "root", Active: true},
			2: {ID: 2, Name: "Cash", Postable: true, ParentID: 1, Active: true},
			3: {ID: 3, Name: "Payables", Postable: true, ParentID: 1, Active: true},
			4: {ID: 4, Name: "Closed", Postable: true, ParentID: 1},
		},
		assets: map[int64]model.Asset{
			1: {ID: 1, Name: "USD", Active: true, Attrs: model.Currency{}},
		},
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(account int64, value string) model.Entry {
	return model.Entry{AccountID: account, AssetID: 1, FundID: 1, Value: d(value), Quantity: d(value)}
}

func TestValidate_Balanced(t *testing.T) {
	err := ValidateEntries(context.Background(), []model.Entry{entry(2, "100.00"), entry(3, "-100.00")}, newMockCatalog(), ValidateOptions{})
	assert.NoError(t, err)
}

func TestValidate_ThreeWaySplit(t *testing.T) {
	entries := []model.Entry{entry(2, "0.1"), entry(2, "0.2"), entry(3, "-0.3")}
	assert.NoError(t, ValidateEntries(context.Background(), entries, newMockCatalog(), ValidateOptions{}))
}

func TestValidate_Empty(t *testing.T) {
	err := ValidateEntries(context.Background(), nil, newMockCatalog(), ValidateOptions{})
	assert.ErrorIs(t, err, model.ErrUnbalanced)
}

func TestValidate_Unbalanced(t *testing.T) {
	err := ValidateEntries(context.Background(), []model.Entry{entry(2, "10"), entry(3, "-5")}, newMockCatalog(), ValidateOptions{})
	require.ErrorIs(t, err, model.ErrUnbalanced)

	var ue model.UnbalancedEntriesError
	require.True(t, errors.As(err, &ue))
	assert.True(t, ue.Sum.Equal(d("5")))
}

func TestValidate_SingleEntryIsUnbalanced(t *testing.T) {
	err := ValidateEntries(context.Background(), []model.Entry{entry(2, "10")}, newMockCatalog(), ValidateOptions{})
	assert.ErrorIs(t, err, model.ErrUnbalanced)
}

func TestValidate_ZeroMagnitude(t *testing.T) {
	zeroQty := entry(2, "10")
	zeroQty.Quantity = decimal.Zero
	entries := []model.Entry{entry(2, "0"), zeroQty, entry(3, "-10")}

	err := ValidateEntries(context.Background(), entries, newMockCatalog(), ValidateOptions{})
	require.ErrorIs(t, err, model.ErrZeroMagnitude)
	assert.NotErrorIs(t, err, model.ErrUnbalanced)

	var ze model.ZeroMagnitudeEntryError
	require.True(t, errors.As(err, &ze))
	assert.Equal(t, 0, ze.Index)
}

func TestValidate_ZeroCheckedBeforeBalance(t *testing.T) {
	// Unbalanced as well, but the zero entry is reported first.
	err := ValidateEntries(context.Background(), []model.Entry{entry(2, "0"), entry(3, "-5")}, newMockCatalog(), ValidateOptions{})
	assert.ErrorIs(t, err, model.ErrZeroMagnitude)
	assert.NotErrorIs(t, err, model.ErrUnbalanced)
}

func TestValidate_TooPrecise(t *testing.T) {
	err := ValidateEntries(context.Background(),
		[]model.Entry{entry(2, "0.00000000001"), entry(3, "-0.00000000001")}, newMockCatalog(), ValidateOptions{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestValidate_GroupAccount(t *testing.T) {
	err := ValidateEntries(context.Background(), []model.Entry{entry(1, "10"), entry(3, "-10")}, newMockCatalog(), ValidateOptions{})
	require.ErrorIs(t, err, model.ErrNotPostable)

	var np model.NotPostableError
	require.True(t, errors.As(err, &np))
	assert.Equal(t, int64(1), np.AccountID)
	assert.Equal(t, "group account", np.Reason)
}

func TestValidate_InactiveAccount(t *testing.T) {
	entries := []model.Entry{entry(4, "10"), entry(3, "-10")}

	err := ValidateEntries(context.Background(), entries, newMockCatalog(), ValidateOptions{})
	assert.ErrorIs(t, err, model.ErrNotPostable)

	err = ValidateEntries(context.Background(), entries, newMockCatalog(), ValidateOptions{AllowInactive: true})
	assert.NoError(t, err)
}

func TestValidate_UnknownAccount(t *testing.T) {
	err := ValidateEntries(context.Background(), []model.Entry{entry(99, "10"), entry(3, "-10")}, newMockCatalog(), ValidateOptions{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestValidate_UnknownAsset(t *testing.T) {
	e := entry(3, "-10")
	e.AssetID = 7
	err := ValidateEntries(context.Background(), []model.Entry{entry(2, "10"), e}, newMockCatalog(), ValidateOptions{})
	require.ErrorIs(t, err, model.ErrNotFound)

	var nf model.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, model.KindAsset, nf.Kind)
}

func TestValidate_ReportsEveryViolationInStage(t *testing.T) {
	entries := []model.Entry{entry(1, "10"), entry(4, "5"), entry(3, "-15")}
	err := ValidateEntries(context.Background(), entries, newMockCatalog(), ValidateOptions{})
	require.ErrorIs(t, err, model.ErrNotPostable)
	assert.Contains(t, err.Error(), "root")
	assert.Contains(t, err.Error(), "Closed")
}

func TestValidate_StorageFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	cat := newMockCatalog()
	cat.err = boom
	err := ValidateEntries(context.Background(), []model.Entry{entry(2, "10"), entry(3, "-10")}, cat, ValidateOptions{})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}
