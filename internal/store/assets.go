package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

const assetColumns = `id, name, description, is_active, type, price_asset_id, expiration, amount`

// InsertAsset inserts a and returns its new ID.
func (t *Tx) InsertAsset(ctx context.Context, a model.Asset) (int64, error) {
	rec := model.RecordOf(a.Attrs)
	var expiration sql.NullInt64
	if !rec.Expiration.IsZero() {
		expiration = sql.NullInt64{Int64: toMillis(rec.Expiration), Valid: true}
	}
	var amount sql.NullString
	if rec.Kind == model.AssetKindBond || rec.Kind == model.AssetKindOption {
		amount = sql.NullString{String: fixed(rec.Amount), Valid: true}
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO asset (name, description, is_active, type, price_asset_id, expiration, amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Description, boolInt(a.Active), string(rec.Kind), nullID(rec.PriceAssetID), expiration, amount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, model.ConflictError{
				Kind:      model.KindAsset,
				Reason:    fmt.Sprintf("name %q already exists", a.Name),
				Duplicate: true,
			}
		}
		return 0, fmt.Errorf("inserting asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading asset id: %w", err)
	}
	return id, nil
}

// Asset returns the asset with the given ID.
func (t *Tx) Asset(ctx context.Context, id int64) (model.Asset, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM asset WHERE id = ?`, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, model.NotFoundError{Kind: model.KindAsset, ID: id}
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("getting asset %d: %w", id, err)
	}
	return a, nil
}

// AssetByName returns the asset with the given name.
func (t *Tx) AssetByName(ctx context.Context, name string) (model.Asset, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM asset WHERE name = ?`, name)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, model.NotFoundError{Kind: model.KindAsset, Name: name}
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("getting asset %q: %w", name, err)
	}
	return a, nil
}

// ListAssets returns all assets ordered by ID.
func (t *Tx) ListAssets(ctx context.Context) ([]model.Asset, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+assetColumns+` FROM asset ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}
	return assets, nil
}

func scanAsset(row rowScanner) (model.Asset, error) {
	var (
		a          model.Asset
		kind       string
		priceAsset sql.NullInt64
		expiration sql.NullInt64
		amount     decimal.NullDecimal
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Active, &kind, &priceAsset, &expiration, &amount); err != nil {
		return model.Asset{}, err
	}

	rec := model.AssetRecord{
		Kind:         model.AssetKind(kind),
		PriceAssetID: priceAsset.Int64,
	}
	if expiration.Valid {
		rec.Expiration = fromMillis(expiration.Int64)
	}
	if amount.Valid {
		rec.Amount = amount.Decimal
	}
	attrs, err := rec.Attrs()
	if err != nil {
		return model.Asset{}, fmt.Errorf("asset %d: %w", a.ID, err)
	}
	a.Attrs = attrs
	return a, nil
}
