package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cleared-dev/ledger/internal/model"
)

const accountColumns = `id, name, postable, is_active, parent_id`

// InsertAccount inserts a and returns its new ID.
func (t *Tx) InsertAccount(ctx context.Context, a model.Account) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO account (name, postable, is_active, parent_id) VALUES (?, ?, ?, ?)`,
		a.Name, boolInt(a.Postable), boolInt(a.Active), nullID(a.ParentID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, model.ConflictError{
				Kind:      model.KindAccount,
				Reason:    fmt.Sprintf("name %q already exists", a.Name),
				Duplicate: true,
			}
		}
		return 0, fmt.Errorf("inserting account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading account id: %w", err)
	}
	return id, nil
}

// Account returns the account with the given ID.
func (t *Tx) Account(ctx context.Context, id int64) (model.Account, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, model.NotFoundError{Kind: model.KindAccount, ID: id}
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("getting account %d: %w", id, err)
	}
	return a, nil
}

// AccountByName returns the account with the given name.
func (t *Tx) AccountByName(ctx context.Context, name string) (model.Account, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE name = ?`, name)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, model.NotFoundError{Kind: model.KindAccount, Name: name}
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("getting account %q: %w", name, err)
	}
	return a, nil
}

// RootAccount returns the account without a parent.
func (t *Tx) RootAccount(ctx context.Context) (model.Account, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE parent_id IS NULL ORDER BY id LIMIT 1`)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, model.NotFoundError{Kind: model.KindAccount, Name: "root"}
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("getting root account: %w", err)
	}
	return a, nil
}

// ListAccounts returns accounts ordered by ID. A limit <= 0 means no limit.
func (t *Tx) ListAccounts(ctx context.Context, offset, limit int) ([]model.Account, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM account ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return collectAccounts(rows)
}

// ChildAccounts returns the direct children of parentID ordered by ID.
func (t *Tx) ChildAccounts(ctx context.Context, parentID int64) ([]model.Account, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM account WHERE parent_id = ? ORDER BY id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing children of account %d: %w", parentID, err)
	}
	return collectAccounts(rows)
}

// CountAccounts returns the number of accounts.
func (t *Tx) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting accounts: %w", err)
	}
	return n, nil
}

// UpdateAccount rewrites the mutable fields of a: name and active flag.
func (t *Tx) UpdateAccount(ctx context.Context, a model.Account) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE account SET name = ?, is_active = ? WHERE id = ?`,
		a.Name, boolInt(a.Active), a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ConflictError{
				Kind:      model.KindAccount,
				ID:        a.ID,
				Reason:    fmt.Sprintf("name %q already exists", a.Name),
				Duplicate: true,
			}
		}
		return fmt.Errorf("updating account %d: %w", a.ID, err)
	}
	return requireAffected(res, model.KindAccount, a.ID)
}

// DeleteAccount removes an account row.
func (t *Tx) DeleteAccount(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM account WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting account %d: %w", id, err)
	}
	return requireAffected(res, model.KindAccount, id)
}

// CountAccountEntries returns how many entries post to the account.
func (t *Tx) CountAccountEntries(ctx context.Context, accountID int64) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM entry WHERE account_id = ?`, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting entries of account %d: %w", accountID, err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var a model.Account
	var parent sql.NullInt64
	if err := row.Scan(&a.ID, &a.Name, &a.Postable, &a.Active, &parent); err != nil {
		return model.Account{}, err
	}
	a.ParentID = parent.Int64
	return a, nil
}

func collectAccounts(rows *sql.Rows) ([]model.Account, error) {
	defer rows.Close()
	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

func requireAffected(res sql.Result, kind model.Kind, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return model.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}
