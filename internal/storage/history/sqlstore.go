package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	hash       TEXT PRIMARY KEY,
	ledger_seq INTEGER NOT NULL,
	txn_seq    INTEGER NOT NULL,
	account    TEXT NOT NULL,
	tx_type    TEXT NOT NULL,
	result     TEXT NOT NULL,
	raw_txn    BLOB
);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account, ledger_seq, txn_seq);
CREATE INDEX IF NOT EXISTS idx_transactions_ledger ON transactions (ledger_seq);

CREATE TABLE IF NOT EXISTS sales (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL,
	asset      TEXT NOT NULL,
	seller     TEXT NOT NULL,
	buyer      TEXT NOT NULL,
	price      INTEGER NOT NULL,
	fee        INTEGER NOT NULL,
	ledger_seq INTEGER NOT NULL,
	close_time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_collection ON sales (collection, ledger_seq);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	hash       TEXT PRIMARY KEY,
	ledger_seq BIGINT NOT NULL,
	txn_seq    BIGINT NOT NULL,
	account    TEXT NOT NULL,
	tx_type    TEXT NOT NULL,
	result     TEXT NOT NULL,
	raw_txn    BYTEA
);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account, ledger_seq, txn_seq);
CREATE INDEX IF NOT EXISTS idx_transactions_ledger ON transactions (ledger_seq);

CREATE TABLE IF NOT EXISTS sales (
	id         BIGSERIAL PRIMARY KEY,
	collection TEXT NOT NULL,
	asset      TEXT NOT NULL,
	seller     TEXT NOT NULL,
	buyer      TEXT NOT NULL,
	price      BIGINT NOT NULL,
	fee        BIGINT NOT NULL,
	ledger_seq BIGINT NOT NULL,
	close_time BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_collection ON sales (collection, ledger_seq);
`

// SQLStore implements Store over database/sql, backed by SQLite or
// PostgreSQL depending on the configuration.
type SQLStore struct {
	db     *sql.DB
	config *Config
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a store from a validated configuration
func NewSQLStore(config *Config) (*SQLStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SQLStore{config: config}, nil
}

// Open opens the connection and initializes the schema
func (s *SQLStore) Open(ctx context.Context) error {
	db, err := sql.Open(s.config.driverName(), s.config.connectionString())
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	db.SetMaxOpenConns(s.config.MaxOpenConns)
	db.SetMaxIdleConns(s.config.MaxIdleConns)
	db.SetConnMaxLifetime(s.config.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping history store: %w", err)
	}

	schema := sqliteSchema
	if s.config.Driver == DriverPostgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return fmt.Errorf("initialize history schema: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the connection
func (s *SQLStore) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ping tests the connection
func (s *SQLStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrStoreClosed
	}
	return s.db.PingContext(ctx)
}

// InsertTransactions inserts a batch of transaction records atomically
func (s *SQLStore) InsertTransactions(ctx context.Context, records []TransactionRecord) error {
	if s.db == nil {
		return ErrStoreClosed
	}
	if len(records) == 0 {
		return nil
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history batch: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.PrepareContext(ctx,
		`INSERT INTO transactions (hash, ledger_seq, txn_seq, account, tx_type, result, raw_txn)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Hash, r.LedgerSeq, r.TxnSeq, r.Account, r.TxType, r.Result, r.RawTxn); err != nil {
			return fmt.Errorf("insert transaction %s: %w", r.Hash, err)
		}
	}

	return sqlTx.Commit()
}

// GetTransaction returns a transaction by hash
func (s *SQLStore) GetTransaction(ctx context.Context, hash string) (*TransactionRecord, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	var r TransactionRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT hash, ledger_seq, txn_seq, account, tx_type, result, raw_txn
		 FROM transactions WHERE hash = $1`, hash).
		Scan(&r.Hash, &r.LedgerSeq, &r.TxnSeq, &r.Account, &r.TxType, &r.Result, &r.RawTxn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("query transaction %s: %w", hash, err)
	}
	return &r, nil
}

// GetAccountTransactions returns an account's transactions, newest first
func (s *SQLStore) GetAccountTransactions(ctx context.Context, opts AccountTxOptions) ([]TransactionRecord, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	query := `SELECT hash, ledger_seq, txn_seq, account, tx_type, result, raw_txn
		 FROM transactions WHERE account = $1`
	args := []any{opts.Account}
	argCount := 1

	if opts.MinLedger > 0 {
		argCount++
		query += fmt.Sprintf(" AND ledger_seq >= $%d", argCount)
		args = append(args, opts.MinLedger)
	}
	if opts.MaxLedger > 0 {
		argCount++
		query += fmt.Sprintf(" AND ledger_seq <= $%d", argCount)
		args = append(args, opts.MaxLedger)
	}

	query += " ORDER BY ledger_seq DESC, txn_seq DESC"

	if opts.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query account transactions: %w", err)
	}
	defer rows.Close()

	var results []TransactionRecord
	for rows.Next() {
		var r TransactionRecord
		if err := rows.Scan(&r.Hash, &r.LedgerSeq, &r.TxnSeq, &r.Account, &r.TxType, &r.Result, &r.RawTxn); err != nil {
			return nil, fmt.Errorf("scan account transaction: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// InsertSale records a completed auction
func (s *SQLStore) InsertSale(ctx context.Context, record SaleRecord) error {
	if s.db == nil {
		return ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sales (collection, asset, seller, buyer, price, fee, ledger_seq, close_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.Collection, record.Asset, record.Seller, record.Buyer,
		record.Price, record.Fee, record.LedgerSeq, record.CloseTime)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetCollectionSales returns a collection's sales, newest first
func (s *SQLStore) GetCollectionSales(ctx context.Context, collection string, limit uint32) ([]SaleRecord, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}
	if limit == 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT collection, asset, seller, buyer, price, fee, ledger_seq, close_time
		 FROM sales WHERE collection = $1
		 ORDER BY ledger_seq DESC, id DESC LIMIT $2`, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("query collection sales: %w", err)
	}
	defer rows.Close()

	var results []SaleRecord
	for rows.Next() {
		var r SaleRecord
		if err := rows.Scan(&r.Collection, &r.Asset, &r.Seller, &r.Buyer, &r.Price, &r.Fee, &r.LedgerSeq, &r.CloseTime); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// TransactionCount returns the total number of stored transactions
func (s *SQLStore) TransactionCount(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrStoreClosed
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}
