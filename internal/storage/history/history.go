// Package history stores the relational view of chain activity: every
// applied transaction and every completed auction sale, queryable by
// account, collection, and ledger range.
package history

import (
	"context"
	"errors"
)

var (
	ErrStoreClosed         = errors.New("history store is closed")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidDriver       = errors.New("invalid history driver")
)

// TransactionRecord is one applied transaction
type TransactionRecord struct {
	Hash      string `json:"hash"`
	LedgerSeq uint32 `json:"ledger_seq"`
	TxnSeq    uint32 `json:"txn_seq"`
	Account   string `json:"account"`
	TxType    string `json:"tx_type"`
	Result    string `json:"result"`
	RawTxn    []byte `json:"raw_txn"`
}

// SaleRecord is one completed auction
type SaleRecord struct {
	Collection string `json:"collection"`
	Asset      string `json:"asset"`
	Seller     string `json:"seller"`
	Buyer      string `json:"buyer"`
	Price      uint64 `json:"price"`
	Fee        uint64 `json:"fee"`
	LedgerSeq  uint32 `json:"ledger_seq"`
	CloseTime  int64  `json:"close_time"`
}

// AccountTxOptions narrow an account transaction query
type AccountTxOptions struct {
	Account   string
	MinLedger uint32
	MaxLedger uint32
	Limit     uint32
}

// Store is the relational history backend
type Store interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error
	Ping(ctx context.Context) error

	InsertTransactions(ctx context.Context, records []TransactionRecord) error
	GetTransaction(ctx context.Context, hash string) (*TransactionRecord, error)
	GetAccountTransactions(ctx context.Context, opts AccountTxOptions) ([]TransactionRecord, error)

	InsertSale(ctx context.Context, record SaleRecord) error
	GetCollectionSales(ctx context.Context, collection string, limit uint32) ([]SaleRecord, error)

	TransactionCount(ctx context.Context) (int64, error)
}
