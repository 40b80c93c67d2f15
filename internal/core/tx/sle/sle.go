// Package sle defines the serialized ledger entries of the auction engine
// and their codec. Entries are encoded as CBOR maps keyed by field name.
package sle

import (
	"errors"
	"fmt"

	"github.com/coreauction/auctiond/internal/core/ledger/entry"
	"github.com/ugorji/go/codec"
)

var cborHandle = func() *codec.CborHandle {
	h := &codec.CborHandle{}
	h.Canonical = true
	return h
}()

// ErrUnknownEntryType is returned when parsing data whose LedgerEntryType
// does not name a known entry.
var ErrUnknownEntryType = errors.New("unknown ledger entry type")

// Marshal encodes a ledger entry to its canonical CBOR form.
func Marshal(v any) ([]byte, error) {
	var out []byte
	enc := codec.NewEncoderBytes(&out, cborHandle)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode ledger entry: %w", err)
	}
	return out, nil
}

// Unmarshal decodes a ledger entry from its CBOR form.
func Unmarshal(data []byte, v any) error {
	dec := codec.NewDecoderBytes(data, cborHandle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode ledger entry: %w", err)
	}
	return nil
}

// typeProbe decodes only the LedgerEntryType field of an entry.
type typeProbe struct {
	LedgerEntryType entry.Type `codec:"LedgerEntryType"`
}

// EntryType returns the type of a serialized ledger entry.
func EntryType(data []byte) (entry.Type, error) {
	var p typeProbe
	if err := Unmarshal(data, &p); err != nil {
		return 0, err
	}
	return p.LedgerEntryType, nil
}

// Fields decodes a serialized entry into a generic field map, used for
// transaction metadata and RPC state queries.
func Fields(data []byte) (map[string]any, error) {
	fields := map[string]any{}
	if err := Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// New returns an empty entry struct of the given type, or nil when the
// type is unknown.
func New(t entry.Type) any {
	switch t {
	case entry.TypeAccountRoot:
		return &AccountRoot{LedgerEntryType: t}
	case entry.TypePolicy:
		return &Policy{LedgerEntryType: t}
	case entry.TypeCollectionWhitelist:
		return &CollectionWhitelist{LedgerEntryType: t}
	case entry.TypeAssetAuction:
		return &AssetAuction{LedgerEntryType: t}
	case entry.TypeVault:
		return &Vault{LedgerEntryType: t}
	case entry.TypeTreasury:
		return &Treasury{LedgerEntryType: t}
	case entry.TypeAsset:
		return &Asset{LedgerEntryType: t}
	default:
		return nil
	}
}
