package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

const (
	transactionColumns = `id, timestamp, datetime, value, description, cancel, fund_id`
	entryColumns       = `id, datetime, account_id, transaction_id, asset_id, value, quantity, cancel, fund_id`
)

// InsertTransaction inserts txn and its entries, filling in the generated
// IDs on txn and on each entry.
func (t *Tx) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO "transaction" (timestamp, datetime, value, description, cancel, fund_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		toMillis(txn.Timestamp), toMillis(txn.Datetime), fixed(txn.Value), txn.Description,
		boolInt(txn.Cancel), txn.FundID,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	txn.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading transaction id: %w", err)
	}

	stmt, err := t.tx.PrepareContext(ctx,
		`INSERT INTO entry (datetime, account_id, transaction_id, asset_id, value, quantity, cancel, fund_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for i := range txn.Entries {
		e := &txn.Entries[i]
		e.TransactionID = txn.ID
		res, err := stmt.ExecContext(ctx,
			toMillis(e.Datetime), e.AccountID, e.TransactionID, e.AssetID,
			fixed(e.Value), fixed(e.Quantity), boolInt(e.Cancel), e.FundID,
		)
		if err != nil {
			return fmt.Errorf("inserting entry %d: %w", i, err)
		}
		e.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading entry id: %w", err)
		}
	}
	return nil
}

// Transaction returns the transaction with the given ID and its entries.
func (t *Tx) Transaction(ctx context.Context, id int64) (model.Transaction, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM "transaction" WHERE id = ?`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, model.NotFoundError{Kind: model.KindTransaction, ID: id}
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("getting transaction %d: %w", id, err)
	}

	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entry WHERE transaction_id = ? ORDER BY id`, id)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("listing entries of transaction %d: %w", id, err)
	}
	txn.Entries, err = collectEntries(rows)
	if err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

// ListTransactions returns transactions with their entries, ordered by ID.
// A fundID of 0 lists every fund.
func (t *Tx) ListTransactions(ctx context.Context, fundID int64) ([]model.Transaction, error) {
	txnQuery := `SELECT ` + transactionColumns + ` FROM "transaction"`
	entryQuery := `SELECT ` + entryColumns + ` FROM entry`
	var args []any
	if fundID != 0 {
		txnQuery += ` WHERE fund_id = ?`
		entryQuery += ` WHERE fund_id = ?`
		args = append(args, fundID)
	}
	txnQuery += ` ORDER BY id`
	entryQuery += ` ORDER BY id`

	rows, err := t.tx.QueryContext(ctx, txnQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	var txns []model.Transaction
	index := make(map[int64]int)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		index[txn.ID] = len(txns)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}
	rows.Close()

	rows, err = t.tx.QueryContext(ctx, entryQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if i, ok := index[e.TransactionID]; ok {
			txns[i].Entries = append(txns[i].Entries, e)
		}
	}
	return txns, nil
}

// MarkCancelled sets the cancel flag on a transaction and all its entries.
func (t *Tx) MarkCancelled(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE "transaction" SET cancel = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("cancelling transaction %d: %w", id, err)
	}
	if err := requireAffected(res, model.KindTransaction, id); err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, `UPDATE entry SET cancel = 1 WHERE transaction_id = ?`, id); err != nil {
		return fmt.Errorf("cancelling entries of transaction %d: %w", id, err)
	}
	return nil
}

// PostingValue is the value of one entry against one account.
type PostingValue struct {
	AccountID int64
	Value     decimal.Decimal
}

// PostingsAsOf returns the account and value of every entry dated at or
// before asOf. A fundID of 0 covers every fund. Values are returned
// unaggregated so callers can sum them exactly.
func (t *Tx) PostingsAsOf(ctx context.Context, fundID int64, asOf time.Time) ([]PostingValue, error) {
	query := `SELECT account_id, value FROM entry WHERE datetime <= ?`
	args := []any{toMillis(asOf)}
	if fundID != 0 {
		query += ` AND fund_id = ?`
		args = append(args, fundID)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying postings: %w", err)
	}
	defer rows.Close()

	var postings []PostingValue
	for rows.Next() {
		var p PostingValue
		if err := rows.Scan(&p.AccountID, &p.Value); err != nil {
			return nil, fmt.Errorf("scanning posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating postings: %w", err)
	}
	return postings, nil
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var txn model.Transaction
	var timestamp, datetime int64
	if err := row.Scan(&txn.ID, &timestamp, &datetime, &txn.Value, &txn.Description, &txn.Cancel, &txn.FundID); err != nil {
		return model.Transaction{}, err
	}
	txn.Timestamp = fromMillis(timestamp)
	txn.Datetime = fromMillis(datetime)
	return txn, nil
}

func collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	defer rows.Close()
	var entries []model.Entry
	for rows.Next() {
		var e model.Entry
		var datetime int64
		if err := rows.Scan(&e.ID, &datetime, &e.AccountID, &e.TransactionID, &e.AssetID,
			&e.Value, &e.Quantity, &e.Cancel, &e.FundID); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Datetime = fromMillis(datetime)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}
