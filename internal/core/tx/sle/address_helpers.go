package sle

import (
	"encoding/hex"
	"fmt"
)

// ID is a fixed-length public identifier: an account, a collection, an
// asset, or a derived authority key. The zero value means "not set".
type ID [32]byte

// ZeroID is the unset identifier.
var ZeroID ID

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool {
	return id == ZeroID
}

// String returns the canonical hex encoding of the identifier.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// DecodeID parses the canonical hex encoding of an identifier.
func DecodeID(s string) (ID, error) {
	var id ID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("invalid identifier %q: need %d bytes, got %d", s, len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}
