package assets

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

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st, nil)
}

func TestBootstrapDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Bootstrap(ctx, DefaultAssets())
	require.NoError(t, err)
	assert.Len(t, created, 11)

	usd, err := svc.GetByName(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, model.AssetKindCurrency, usd.Kind())
	assert.Equal(t, int64(1), usd.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 11)
}

func TestBootstrapResolvesPriceAssets(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	specs, err := ParseAssets([]byte(`
USD:
  type: currency
  description: US Dollar
  children:
    ACME:
      type: stock
BRL:
  type: currency
ITSA4:
  type: stock
  price_asset: BRL
T-2030:
  type: bond
  expiration: 2030-06-01
  face_value: 1000.25
`))
	require.NoError(t, err)
	require.Len(t, specs, 5)
	assert.Equal(t, []string{"USD", "ACME", "BRL", "ITSA4", "T-2030"},
		[]string{specs[0].Asset.Name, specs[1].Asset.Name, specs[2].Asset.Name, specs[3].Asset.Name, specs[4].Asset.Name})
	assert.Equal(t, "USD", specs[1].PriceAsset)

	_, err = svc.Bootstrap(ctx, specs)
	require.NoError(t, err)

	usd, err := svc.GetByName(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, "US Dollar", usd.Description)

	acme, err := svc.GetByName(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, model.Stock{PriceAssetID: usd.ID}, acme.Attrs)

	brl, err := svc.GetByName(ctx, "BRL")
	require.NoError(t, err)
	itsa, err := svc.GetByName(ctx, "ITSA4")
	require.NoError(t, err)
	assert.Equal(t, model.Stock{PriceAssetID: brl.ID}, itsa.Attrs)

	bond, err := svc.GetByName(ctx, "T-2030")
	require.NoError(t, err)
	b, ok := bond.Attrs.(model.Bond)
	require.True(t, ok)
	assert.True(t, b.Expiration.Equal(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, b.FaceValue.Equal(decimal.RequireFromString("1000.25")))
}

func TestBootstrapIsAtomic(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Bootstrap(ctx, []Spec{
		{Asset: model.Asset{Name: "USD", Active: true, Attrs: model.Currency{}}},
		{Asset: model.Asset{Name: "ACME", Active: true, Attrs: model.Stock{}}, PriceAsset: "GBP"},
	})
	assert.ErrorIs(t, err, model.ErrNotFound)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.Asset{Name: "", Attrs: model.Currency{}})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(ctx, model.Asset{Name: "USD"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(ctx, model.Asset{Name: "ACME", Attrs: model.Stock{PriceAssetID: 9}})
	assert.ErrorIs(t, err, model.ErrNotFound)

	usd, err := svc.Create(ctx, model.Asset{Name: "USD", Active: true, Attrs: model.Currency{}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.Asset{Name: "USD", Attrs: model.Currency{}})
	assert.ErrorIs(t, err, model.ErrConflict)

	got, err := svc.Get(ctx, usd.ID)
	require.NoError(t, err)
	assert.Equal(t, usd, got)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestParseAssetsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown type", "X:\n  type: art\n"},
		{"bad expiration", "B:\n  type: bond\n  expiration: soon\n"},
		{"bad amount", "B:\n  type: bond\n  face_value: lots\n"},
		{"not a mapping", "- USD\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssets([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
