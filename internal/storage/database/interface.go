// Package database defines the key-value storage abstraction the node
// persists ledgers and transactions through.
package database

import "context"

// DB defines the operations any storage backend must support
type DB interface {
	// Read returns the value for a key, or ErrKeyNotFound
	Read(ctx context.Context, key []byte) ([]byte, error)

	// Has reports whether a key exists
	Has(ctx context.Context, key []byte) (bool, error)

	// Write stores a value under a key
	Write(ctx context.Context, key []byte, value []byte) error

	// Delete removes a key
	Delete(ctx context.Context, key []byte) error

	// Batch applies a set of operations atomically
	Batch(ctx context.Context, ops []BatchOperation) error

	// Iterator traverses keys in [start, end)
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

// Iterator allows traversing over database entries
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOperation represents a single operation in a batch
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
