// Package txindex records applied transactions in a SQL database so they
// can be looked up by id or by the accounts they touched.
package txindex

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	_ "github.com/lib/pq"   // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/LeJamon/goRippled/internal/types"
)

// Record is one applied transaction. TxnSeq is its position in the ledger.
// Accounts lists the accounts besides Account it is indexed under; they are
// written but not read back.
type Record struct {
	ID        types.Hash256
	LedgerSeq uint32
	TxnSeq    uint32
	Account   types.AccountID
	Sequence  uint32
	Type      string
	Result    string
	Raw       []byte
	Accounts  []types.AccountID
}

// executor allows using both sql.DB and sql.Tx
type executor interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Index is an open transaction index.
type Index struct {
	db     *sql.DB
	config *Config
}

// Open connects to the database and creates the tables when missing.
func Open(ctx context.Context, config *Config) (*Index, error) {
	if err := config.Validate(); err != nil {
		return nil, newError("open", "invalid configuration", err)
	}

	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, newError("open", "failed to open database connection", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	ctx, cancel := context.WithTimeout(ctx, config.DefaultTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, newError("open", "failed to ping database", err)
	}

	idx := &Index{db: db, config: config}
	if err := idx.initSchema(ctx); err != nil {
		db.Close()
		return nil, newError("open", "failed to initialize schema", err)
	}
	return idx, nil
}

func (idx *Index) initSchema(ctx context.Context) error {
	blob := "BLOB"
	if idx.config.Driver == DriverPostgres {
		blob = "BYTEA"
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			trans_id ` + blob + ` PRIMARY KEY,
			ledger_seq BIGINT NOT NULL,
			txn_seq INTEGER NOT NULL,
			account VARCHAR(40) NOT NULL,
			account_seq BIGINT NOT NULL,
			txn_type VARCHAR(32) NOT NULL,
			status VARCHAR(32) NOT NULL,
			raw_txn ` + blob + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS account_transactions (
			trans_id ` + blob + ` NOT NULL,
			account VARCHAR(40) NOT NULL,
			ledger_seq BIGINT NOT NULL,
			txn_seq INTEGER NOT NULL,
			PRIMARY KEY (trans_id, account)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_ledger_seq ON transactions(ledger_seq)`,
		`CREATE INDEX IF NOT EXISTS idx_account_transactions_account_ledger_txn ON account_transactions(account, ledger_seq, txn_seq)`,
	}

	for _, query := range queries {
		if _, err := idx.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	if idx.db == nil {
		return nil
	}
	err := idx.db.Close()
	idx.db = nil
	if err != nil {
		return newError("close", "failed to close database connection", err)
	}
	return nil
}

// rebind rewrites ? placeholders into the driver's form.
func (idx *Index) rebind(query string) string {
	if idx.config.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record stores rec. Recording a transaction id twice keeps the first.
func (idx *Index) Record(ctx context.Context, rec Record) error {
	if idx.db == nil {
		return ErrDatabaseClosed
	}
	ctx, cancel := context.WithTimeout(ctx, idx.config.DefaultTimeout)
	defer cancel()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return newError("record", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := idx.insert(ctx, tx, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return newError("record", "failed to commit", err)
	}
	return nil
}

func (idx *Index) insert(ctx context.Context, ex executor, rec Record) error {
	_, err := ex.ExecContext(ctx, idx.rebind(`INSERT INTO transactions
		(trans_id, ledger_seq, txn_seq, account, account_seq, txn_type, status, raw_txn)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (trans_id) DO NOTHING`),
		rec.ID[:], int64(rec.LedgerSeq), int64(rec.TxnSeq), rec.Account.String(),
		int64(rec.Sequence), rec.Type, rec.Result, rec.Raw)
	if err != nil {
		return newError("record", "failed to insert transaction", err)
	}

	seen := make(map[types.AccountID]bool, len(rec.Accounts)+1)
	for _, account := range append([]types.AccountID{rec.Account}, rec.Accounts...) {
		if seen[account] {
			continue
		}
		seen[account] = true
		_, err := ex.ExecContext(ctx, idx.rebind(`INSERT INTO account_transactions
			(trans_id, account, ledger_seq, txn_seq) VALUES (?, ?, ?, ?)
			ON CONFLICT (trans_id, account) DO NOTHING`),
			rec.ID[:], account.String(), int64(rec.LedgerSeq), int64(rec.TxnSeq))
		if err != nil {
			return newError("record", "failed to insert account transaction", err)
		}
	}
	return nil
}

// Get returns the transaction with the given id, or ErrTransactionNotFound.
func (idx *Index) Get(ctx context.Context, id types.Hash256) (*Record, error) {
	if idx.db == nil {
		return nil, ErrDatabaseClosed
	}
	row := idx.db.QueryRowContext(ctx, idx.rebind(`SELECT trans_id, ledger_seq, txn_seq, account,
		account_seq, txn_type, status, raw_txn FROM transactions WHERE trans_id = ?`), id[:])
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, newError("get", "failed to query transaction", err)
	}
	return rec, nil
}

// AccountTransactions returns up to limit transactions listed under
// account, oldest first.
func (idx *Index) AccountTransactions(ctx context.Context, account types.AccountID, limit int) ([]Record, error) {
	if idx.db == nil {
		return nil, ErrDatabaseClosed
	}
	rows, err := idx.db.QueryContext(ctx, idx.rebind(`SELECT t.trans_id, t.ledger_seq, t.txn_seq,
		t.account, t.account_seq, t.txn_type, t.status, t.raw_txn
		FROM account_transactions a JOIN transactions t ON t.trans_id = a.trans_id
		WHERE a.account = ? ORDER BY a.ledger_seq, a.txn_seq LIMIT ?`), account.String(), limit)
	if err != nil {
		return nil, newError("account_transactions", "failed to query", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, newError("account_transactions", "failed to scan row", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, newError("account_transactions", "failed to read rows", err)
	}
	return out, nil
}

// Count returns the number of recorded transactions.
func (idx *Index) Count(ctx context.Context) (int64, error) {
	if idx.db == nil {
		return 0, ErrDatabaseClosed
	}
	var count int64
	if err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, newError("count", "failed to count transactions", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var (
		rec                          Record
		id                           []byte
		account                      string
		ledgerSeq, txSeq, accountSeq int64
	)
	if err := s.Scan(&id, &ledgerSeq, &txSeq, &account, &accountSeq, &rec.Type, &rec.Result, &rec.Raw); err != nil {
		return nil, err
	}
	if len(id) != len(rec.ID) {
		return nil, errors.New("stored transaction id has the wrong length")
	}
	copy(rec.ID[:], id)
	acct, err := types.ParseAccountID(account)
	if err != nil {
		return nil, err
	}
	rec.Account = acct
	rec.LedgerSeq, rec.TxnSeq, rec.Sequence = uint32(ledgerSeq), uint32(txSeq), uint32(accountSeq)
	return &rec, nil
}
