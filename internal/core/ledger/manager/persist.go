package manager

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
	"github.com/coreauction/auctiond/internal/storage/database"
)

// Storage layout:
//
//	l:<seq BE4>  -> CBOR storedLedger (header, state entries, transactions)
//	h:<hash>     -> seq BE4
//	tip          -> seq BE4 of the latest closed ledger
var (
	ledgerPrefix = []byte("l:")
	hashPrefix   = []byte("h:")
	tipKey       = []byte("tip")
)

type storedEntry struct {
	Key  [32]byte `codec:"Key"`
	Data []byte   `codec:"Data"`
}

type storedTxn struct {
	Hash   [32]byte `codec:"Hash"`
	Blob   []byte   `codec:"Blob"`
	Result string   `codec:"Result"`
}

type storedLedger struct {
	Sequence      uint32        `codec:"Sequence"`
	Hash          [32]byte      `codec:"Hash"`
	ParentHash    [32]byte      `codec:"ParentHash"`
	StateHash     [32]byte      `codec:"StateHash"`
	CloseTime     int64         `codec:"CloseTime"`
	FeesDestroyed uint64        `codec:"FeesDestroyed"`
	Entries       []storedEntry `codec:"Entries"`
	Txns          []storedTxn   `codec:"Txns"`
}

func ledgerKey(seq uint32) []byte {
	key := make([]byte, len(ledgerPrefix)+4)
	copy(key, ledgerPrefix)
	binary.BigEndian.PutUint32(key[len(ledgerPrefix):], seq)
	return key
}

func hashKey(hash [32]byte) []byte {
	key := make([]byte, len(hashPrefix)+32)
	copy(key, hashPrefix)
	copy(key[len(hashPrefix):], hash[:])
	return key
}

func seqBytes(seq uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, seq)
	return b
}

// persist writes a closed ledger and its lookup indexes
func (m *Manager) persist(l *ledger.Ledger) error {
	if !l.Header.Closed {
		return ledger.ErrNotClosed
	}

	stored := storedLedger{
		Sequence:      l.Header.Sequence,
		Hash:          l.Header.Hash,
		ParentHash:    l.Header.ParentHash,
		StateHash:     l.Header.StateHash,
		CloseTime:     l.Header.CloseTime,
		FeesDestroyed: l.Header.FeesDestroyed,
	}
	l.State.ForEach(func(key [32]byte, data []byte) bool {
		stored.Entries = append(stored.Entries, storedEntry{Key: key, Data: data})
		return true
	})
	for _, txn := range l.Txns {
		stored.Txns = append(stored.Txns, storedTxn{
			Hash:   txn.Hash,
			Blob:   txn.Blob,
			Result: txn.Result,
		})
	}

	blob, err := sle.Marshal(stored)
	if err != nil {
		return fmt.Errorf("serialize ledger %d: %w", l.Header.Sequence, err)
	}

	ctx := context.Background()
	ops := []database.BatchOperation{
		{Type: database.BatchPut, Key: ledgerKey(l.Header.Sequence), Value: blob},
		{Type: database.BatchPut, Key: hashKey(l.Header.Hash), Value: seqBytes(l.Header.Sequence)},
		{Type: database.BatchPut, Key: tipKey, Value: seqBytes(l.Header.Sequence)},
	}
	if err := m.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("persist ledger %d: %w", l.Header.Sequence, err)
	}
	return nil
}

// load reads a closed ledger back from storage
func (m *Manager) load(seq uint32) (*ledger.Ledger, error) {
	blob, err := m.db.Read(context.Background(), ledgerKey(seq))
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}

	var stored storedLedger
	if err := sle.Unmarshal(blob, &stored); err != nil {
		return nil, fmt.Errorf("deserialize ledger %d: %w", seq, err)
	}

	state := ledger.NewStateMap()
	for _, e := range stored.Entries {
		if err := state.Insert(keylet.Keylet{Key: e.Key}, e.Data); err != nil {
			return nil, fmt.Errorf("rebuild ledger %d state: %w", seq, err)
		}
	}

	l := &ledger.Ledger{
		Header: ledger.Header{
			Sequence:      stored.Sequence,
			Hash:          stored.Hash,
			ParentHash:    stored.ParentHash,
			StateHash:     stored.StateHash,
			CloseTime:     stored.CloseTime,
			FeesDestroyed: stored.FeesDestroyed,
			Closed:        true,
		},
		State: state,
	}
	for _, txn := range stored.Txns {
		l.Txns = append(l.Txns, ledger.AppliedTxn{
			Hash:   txn.Hash,
			Blob:   txn.Blob,
			Result: txn.Result,
		})
	}
	return l, nil
}

// loadHashIndex resolves a ledger hash to its sequence
func (m *Manager) loadHashIndex(hash [32]byte) (uint32, error) {
	data, err := m.db.Read(context.Background(), hashKey(hash))
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return 0, ErrLedgerNotFound
		}
		return 0, err
	}
	if len(data) != 4 {
		return 0, fmt.Errorf("corrupt ledger hash index for %x", hash)
	}
	return binary.BigEndian.Uint32(data), nil
}
