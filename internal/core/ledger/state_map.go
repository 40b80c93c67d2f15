package ledger

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	crypto "github.com/coreauction/auctiond/internal/crypto/common"
)

// StateMap is the in-memory state of one ledger: entry key to serialized
// entry. It satisfies the engine's LedgerView. A closed ledger's state map
// is never mutated again; the open ledger clones its parent's map.
type StateMap struct {
	mu            sync.RWMutex
	entries       map[[32]byte][]byte
	feesDestroyed uint64
}

// NewStateMap creates an empty state map
func NewStateMap() *StateMap {
	return &StateMap{
		entries: make(map[[32]byte][]byte),
	}
}

// Clone returns a deep copy of the state map
func (s *StateMap) Clone() *StateMap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := &StateMap{
		entries: make(map[[32]byte][]byte, len(s.entries)),
	}
	for key, data := range s.entries {
		buf := make([]byte, len(data))
		copy(buf, data)
		clone.entries[key] = buf
	}
	return clone
}

// Read returns the entry at the keylet, or nil if absent
func (s *StateMap) Read(k keylet.Keylet) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.entries[k.Key]
	if !ok {
		return nil, nil
	}
	return data, nil
}

// Exists checks if an entry exists
func (s *StateMap) Exists(k keylet.Keylet) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[k.Key]
	return ok, nil
}

// Insert adds a new entry; fails if the key is occupied
func (s *StateMap) Insert(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[k.Key]; ok {
		return fmt.Errorf("entry already exists")
	}
	s.entries[k.Key] = data
	return nil
}

// Update replaces an entry, inserting if absent
func (s *StateMap) Update(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[k.Key] = data
	return nil
}

// Erase removes an entry
func (s *StateMap) Erase(k keylet.Keylet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[k.Key]; !ok {
		return fmt.Errorf("entry not found")
	}
	delete(s.entries, k.Key)
	return nil
}

// AdjustFeesDestroyed records destroyed fee units
func (s *StateMap) AdjustFeesDestroyed(amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feesDestroyed += amount
}

// FeesDestroyed returns the total fee units destroyed in this state
func (s *StateMap) FeesDestroyed() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.feesDestroyed
}

// ForEach iterates over all entries in key order. If fn returns false,
// iteration stops early.
func (s *StateMap) ForEach(fn func(key [32]byte, data []byte) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range s.sortedKeys() {
		if !fn(key, s.entries[key]) {
			return nil
		}
	}
	return nil
}

// Len returns the number of entries
func (s *StateMap) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Hash returns the deterministic state hash: sha512-half over all entries
// in key order.
func (s *StateMap) Hash() [32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inputs := make([][]byte, 0, 2*len(s.entries)+1)
	for _, key := range s.sortedKeys() {
		data := s.entries[key]
		lenBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBytes, uint32(len(data)))
		k := key
		inputs = append(inputs, k[:], lenBytes, data)
	}

	return crypto.Sha512Half(inputs...)
}

// sortedKeys returns entry keys in ascending order. Callers hold the lock.
func (s *StateMap) sortedKeys() [][32]byte {
	keys := make([][32]byte, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		for n := 0; n < len(a); n++ {
			if a[n] != b[n] {
				return a[n] < b[n]
			}
		}
		return false
	})
	return keys
}
