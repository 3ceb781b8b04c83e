package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cleared-dev/ledger/internal/model"
)

// InsertFund inserts f and returns its new ID.
func (t *Tx) InsertFund(ctx context.Context, f model.Fund) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO fund (name, temporary, asset_id) VALUES (?, ?, ?)`,
		f.Name, boolInt(f.Temporary), f.AssetID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, model.ConflictError{
				Kind:      model.KindFund,
				Reason:    fmt.Sprintf("name %q already exists", f.Name),
				Duplicate: true,
			}
		}
		return 0, fmt.Errorf("inserting fund: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading fund id: %w", err)
	}
	return id, nil
}

// Fund returns the fund with the given ID.
func (t *Tx) Fund(ctx context.Context, id int64) (model.Fund, error) {
	var f model.Fund
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, name, temporary, asset_id FROM fund WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.Temporary, &f.AssetID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, model.NotFoundError{Kind: model.KindFund, ID: id}
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("getting fund %d: %w", id, err)
	}
	return f, nil
}

// FundByName returns the fund with the given name.
func (t *Tx) FundByName(ctx context.Context, name string) (model.Fund, error) {
	var f model.Fund
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, name, temporary, asset_id FROM fund WHERE name = ?`, name,
	).Scan(&f.ID, &f.Name, &f.Temporary, &f.AssetID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, model.NotFoundError{Kind: model.KindFund, Name: name}
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("getting fund %q: %w", name, err)
	}
	return f, nil
}

// ListFunds returns all funds ordered by ID.
func (t *Tx) ListFunds(ctx context.Context) ([]model.Fund, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT id, name, temporary, asset_id FROM fund ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing funds: %w", err)
	}
	defer rows.Close()

	var funds []model.Fund
	for rows.Next() {
		var f model.Fund
		if err := rows.Scan(&f.ID, &f.Name, &f.Temporary, &f.AssetID); err != nil {
			return nil, fmt.Errorf("scanning fund: %w", err)
		}
		funds = append(funds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating funds: %w", err)
	}
	return funds, nil
}

// DeleteFund physically removes a fund with all its transactions and
// entries, returning how many transactions were removed. Callers are
// responsible for checking that the fund is temporary.
func (t *Tx) DeleteFund(ctx context.Context, id int64) (int64, error) {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM entry WHERE fund_id = ?`, id); err != nil {
		return 0, fmt.Errorf("deleting entries of fund %d: %w", id, err)
	}
	res, err := t.tx.ExecContext(ctx, `DELETE FROM "transaction" WHERE fund_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("deleting transactions of fund %d: %w", id, err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	res, err = t.tx.ExecContext(ctx, `DELETE FROM fund WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("deleting fund %d: %w", id, err)
	}
	if err := requireAffected(res, model.KindFund, id); err != nil {
		return 0, err
	}
	return removed, nil
}
