// Package ledger implements the ledger chain: per-ledger state maps,
// headers, and the open/closed ledger lifecycle.
package ledger

import (
	"encoding/binary"
	"errors"
	"time"

	crypto "github.com/coreauction/auctiond/internal/crypto/common"
	"github.com/coreauction/auctiond/internal/protocol"
)

var (
	ErrAlreadyClosed = errors.New("ledger is already closed")
	ErrNotClosed     = errors.New("ledger is not closed")
)

// Header identifies a ledger and commits to its state
type Header struct {
	Sequence      uint32   `json:"ledger_index"`
	Hash          [32]byte `json:"-"`
	ParentHash    [32]byte `json:"-"`
	StateHash     [32]byte `json:"-"`
	CloseTime     int64    `json:"close_time"`
	FeesDestroyed uint64   `json:"fees_destroyed"`
	Closed        bool     `json:"closed"`
}

// AppliedTxn records a transaction applied while the ledger was open
type AppliedTxn struct {
	Hash     [32]byte
	Blob     []byte // submitted JSON
	Result   string
	Metadata any
}

// Ledger is one link in the chain: a state map plus the transactions that
// produced it from the parent.
type Ledger struct {
	Header Header
	State  *StateMap
	Txns   []AppliedTxn
}

// Sequence returns the ledger sequence number
func (l *Ledger) Sequence() uint32 {
	return l.Header.Sequence
}

// Hash returns the ledger hash; zero until the ledger closes
func (l *Ledger) Hash() [32]byte {
	return l.Header.Hash
}

// NewOpen creates the next open ledger on top of a closed parent
func (l *Ledger) NewOpen() (*Ledger, error) {
	if !l.Header.Closed {
		return nil, ErrNotClosed
	}
	return &Ledger{
		Header: Header{
			Sequence:   l.Header.Sequence + 1,
			ParentHash: l.Header.Hash,
		},
		State: l.State.Clone(),
	}, nil
}

// Close seals the ledger at the given close time: the state hash and ledger
// hash are computed and the state becomes immutable by convention.
func (l *Ledger) Close(closeTime time.Time) error {
	if l.Header.Closed {
		return ErrAlreadyClosed
	}

	l.Header.CloseTime = closeTime.Unix()
	l.Header.FeesDestroyed = l.State.FeesDestroyed()
	l.Header.StateHash = l.State.Hash()
	l.Header.Hash = headerHash(&l.Header)
	l.Header.Closed = true

	return nil
}

// headerHash commits to the chain position and contents of a ledger
func headerHash(h *Header) [32]byte {
	var seq [4]byte
	binary.BigEndian.PutUint32(seq[:], h.Sequence)

	var closeTime [8]byte
	binary.BigEndian.PutUint64(closeTime[:], uint64(h.CloseTime))

	var fees [8]byte
	binary.BigEndian.PutUint64(fees[:], h.FeesDestroyed)

	prefix := protocol.HashPrefixLedgerHeader

	return crypto.Sha512Half(prefix[:], seq[:], h.ParentHash[:], h.StateHash[:], closeTime[:], fees[:])
}
