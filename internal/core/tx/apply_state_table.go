package tx

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/coreauction/auctiond/internal/core/ledger/entry"
	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

// LedgerView is the mutable view of ledger state that transactions apply
// against. The open ledger's state map implements it directly; the
// ApplyStateTable wraps one to buffer changes.
type LedgerView interface {
	Read(k keylet.Keylet) ([]byte, error)
	Exists(k keylet.Keylet) (bool, error)
	Insert(k keylet.Keylet, data []byte) error
	Update(k keylet.Keylet, data []byte) error
	Erase(k keylet.Keylet) error
	ForEach(fn func(key [32]byte, data []byte) bool) error
	AdjustFeesDestroyed(amount uint64)
}

// Metadata describes the ledger entries a transaction touched
type Metadata struct {
	AffectedNodes     []sle.AffectedNode `json:"AffectedNodes"`
	TransactionIndex  uint32             `json:"TransactionIndex"`
	TransactionResult string             `json:"TransactionResult"`
}

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// TrackedEntry represents a ledger entry being tracked for changes
type TrackedEntry struct {
	Action   Action
	Original []byte // Original state (nil for inserts)
	Current  []byte // Current state (state before deletion for erases)
}

// ApplyStateTable wraps a LedgerView and buffers all modifications so a
// transaction either commits in full or leaves the base view untouched.
// It also generates the transaction metadata from the tracked changes.
type ApplyStateTable struct {
	base   LedgerView
	items  map[[32]byte]*TrackedEntry
	fees   uint64
	txHash [32]byte
	txSeq  uint32
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(base LedgerView, txHash [32]byte, txSeq uint32) *ApplyStateTable {
	return &ApplyStateTable{
		base:   base,
		items:  make(map[[32]byte]*TrackedEntry),
		txHash: txHash,
		txSeq:  txSeq,
	}
}

// Read reads a ledger entry, tracking it as cached
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if item, exists := t.items[k.Key]; exists {
		if item.Action == ActionErase {
			return nil, nil
		}
		return item.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}

	// Only track entries that exist in the base
	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}

	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if item, exists := t.items[k.Key]; exists {
		return item.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry. Inserting over an existing entry fails; the
// derived-address uniqueness rules rest on this check.
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if item, exists := t.items[k.Key]; exists {
		if item.Action != ActionErase {
			return fmt.Errorf("entry already exists")
		}
		// Re-inserting a deleted entry becomes a modify
		item.Action = ActionModify
		item.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("entry already exists")
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionInsert,
		Original: nil,
		Current:  data,
	}

	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if item, exists := t.items[k.Key]; exists {
		if item.Action == ActionErase {
			return fmt.Errorf("entry not found (deleted)")
		}
		if item.Action == ActionCache {
			item.Action = ActionModify
		}
		// For insert, keep it as insert with new data
		item.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}

	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if item, exists := t.items[k.Key]; exists {
		if item.Action == ActionErase {
			return fmt.Errorf("entry already deleted")
		}
		if item.Action == ActionInsert {
			// Inserting then deleting = no change, remove from tracking
			delete(t.items, k.Key)
			return nil
		}
		// Current keeps the state before deletion, for metadata FinalFields
		item.Action = ActionErase
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}

	return nil
}

// IsErased returns true if the entry at the given key has been erased
func (t *ApplyStateTable) IsErased(k keylet.Keylet) bool {
	if item, exists := t.items[k.Key]; exists {
		return item.Action == ActionErase
	}
	return false
}

// AdjustFeesDestroyed records destroyed fee units
func (t *ApplyStateTable) AdjustFeesDestroyed(amount uint64) {
	t.fees += amount
}

// FeesDestroyed returns the fee units destroyed so far
func (t *ApplyStateTable) FeesDestroyed() uint64 {
	return t.fees
}

// ForEach iterates over the base view. Buffered changes are not merged in;
// this is only used for inspection.
func (t *ApplyStateTable) ForEach(fn func(key [32]byte, data []byte) bool) error {
	return t.base.ForEach(fn)
}

// Apply commits all changes to the base view and returns generated metadata.
// Threading is applied first (PreviousTxnID/PreviousTxnLgrSeq on account
// roots), then metadata is built from the final state.
func (t *ApplyStateTable) Apply() (*Metadata, error) {
	t.applyThreading()

	metadata := &Metadata{
		AffectedNodes: make([]sle.AffectedNode, 0),
	}

	keys := make([][32]byte, 0, len(t.items))
	for key := range t.items {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	for _, key := range keys {
		item := t.items[key]
		switch item.Action {
		case ActionCache:
			continue

		case ActionInsert:
			node, err := t.buildCreatedNode(key, item.Current)
			if err != nil {
				return nil, err
			}
			metadata.AffectedNodes = append(metadata.AffectedNodes, node)

			if err := t.base.Insert(keylet.Keylet{Key: key}, item.Current); err != nil {
				return nil, err
			}

		case ActionModify:
			if bytes.Equal(item.Original, item.Current) {
				continue
			}

			node, err := t.buildModifiedNode(key, item.Original, item.Current)
			if err != nil {
				return nil, err
			}
			metadata.AffectedNodes = append(metadata.AffectedNodes, node)

			if err := t.base.Update(keylet.Keylet{Key: key}, item.Current); err != nil {
				return nil, err
			}

		case ActionErase:
			node, err := t.buildDeletedNode(key, item.Original, item.Current)
			if err != nil {
				return nil, err
			}
			metadata.AffectedNodes = append(metadata.AffectedNodes, node)

			if err := t.base.Erase(keylet.Keylet{Key: key}); err != nil {
				return nil, err
			}
		}
	}

	if t.fees > 0 {
		t.base.AdjustFeesDestroyed(t.fees)
	}

	return metadata, nil
}

// applyThreading stamps PreviousTxnID/PreviousTxnLgrSeq on every account
// root the transaction created or modified.
func (t *ApplyStateTable) applyThreading() {
	for _, item := range t.items {
		if item.Action != ActionInsert && item.Action != ActionModify {
			continue
		}
		et, err := sle.EntryType(item.Current)
		if err != nil || et != entry.TypeAccountRoot {
			continue
		}
		root, err := sle.ParseAccountRoot(item.Current)
		if err != nil {
			continue
		}
		if root.PreviousTxnID == t.txHash && root.PreviousTxnLgrSeq == t.txSeq {
			continue
		}
		root.PreviousTxnID = t.txHash
		root.PreviousTxnLgrSeq = t.txSeq
		data, err := sle.SerializeAccountRoot(root)
		if err != nil {
			continue
		}
		item.Current = data
	}
}

func (t *ApplyStateTable) buildCreatedNode(key [32]byte, data []byte) (sle.AffectedNode, error) {
	node := sle.AffectedNode{
		NodeType:        "CreatedNode",
		LedgerEntryType: entryTypeName(data),
		LedgerIndex:     strings.ToUpper(hex.EncodeToString(key[:])),
	}

	fields, err := sle.Fields(data)
	if err != nil {
		return node, err
	}
	node.NewFields = fields

	return node, nil
}

func (t *ApplyStateTable) buildModifiedNode(key [32]byte, original, current []byte) (sle.AffectedNode, error) {
	node := sle.AffectedNode{
		NodeType:        "ModifiedNode",
		LedgerEntryType: entryTypeName(current),
		LedgerIndex:     strings.ToUpper(hex.EncodeToString(key[:])),
	}

	origFields, err := sle.Fields(original)
	if err != nil {
		return node, err
	}
	currFields, err := sle.Fields(current)
	if err != nil {
		return node, err
	}

	// PreviousFields holds only the fields that actually changed
	prev := make(map[string]any)
	for name, origValue := range origFields {
		currValue, exists := currFields[name]
		if !exists || !fieldsEqual(origValue, currValue) {
			prev[name] = origValue
		}
	}
	if len(prev) > 0 {
		node.PreviousFields = prev
	}
	node.FinalFields = currFields

	return node, nil
}

func (t *ApplyStateTable) buildDeletedNode(key [32]byte, original, current []byte) (sle.AffectedNode, error) {
	node := sle.AffectedNode{
		NodeType:        "DeletedNode",
		LedgerEntryType: entryTypeName(current),
		LedgerIndex:     strings.ToUpper(hex.EncodeToString(key[:])),
	}

	origFields, err := sle.Fields(original)
	if err != nil {
		return node, err
	}
	currFields, err := sle.Fields(current)
	if err != nil {
		return node, err
	}

	prev := make(map[string]any)
	for name, origValue := range origFields {
		currValue, exists := currFields[name]
		if !exists || !fieldsEqual(origValue, currValue) {
			prev[name] = origValue
		}
	}
	if len(prev) > 0 {
		node.PreviousFields = prev
	}
	node.FinalFields = currFields

	return node, nil
}

func entryTypeName(data []byte) string {
	et, err := sle.EntryType(data)
	if err != nil {
		return "Unknown"
	}
	return et.Name()
}

// fieldsEqual compares two decoded field values
func fieldsEqual(a, b any) bool {
	aMap, aIsMap := a.(map[string]any)
	bMap, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		if len(aMap) != len(bMap) {
			return false
		}
		for k, v := range aMap {
			if bv, ok := bMap[k]; !ok || !fieldsEqual(v, bv) {
				return false
			}
		}
		return true
	}
	aBytes, aIsBytes := a.([]byte)
	bBytes, bIsBytes := b.([]byte)
	if aIsBytes && bIsBytes {
		return bytes.Equal(aBytes, bBytes)
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
