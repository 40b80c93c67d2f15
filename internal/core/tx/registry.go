package tx

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
)

// ErrUnknownTransactionType is returned when a transaction type is unknown
var ErrUnknownTransactionType = errors.New("unknown transaction type")

var (
	factoryMu sync.RWMutex
	factories = make(map[Type]func() Transaction)
)

// Register installs a factory for a transaction type. Transaction packages
// call this from init(); importing the package is what makes the type
// submittable.
func Register(txType Type, factory func() Transaction) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[txType] = factory
}

// NewFromType creates a new transaction of the given type
func NewFromType(txType Type) (Transaction, error) {
	factoryMu.RLock()
	factory, ok := factories[txType]
	factoryMu.RUnlock()
	if !ok {
		return nil, ErrUnknownTransactionType
	}
	return factory(), nil
}

// FromJSON creates a Transaction from a JSON object
func FromJSON(data []byte) (Transaction, error) {
	// First, unmarshal to get the TransactionType
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	txType, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, ErrUnknownTransactionType
	}

	txn, err := NewFromType(txType)
	if err != nil {
		return nil, err
	}

	// Unmarshal into the specific type
	if err := json.Unmarshal(data, txn); err != nil {
		return nil, err
	}
	txn.SetRawBytes(data)

	return txn, nil
}

// ToJSON converts a Transaction to JSON
func ToJSON(txn Transaction) ([]byte, error) {
	flat, err := txn.Flatten()
	if err != nil {
		return nil, err
	}
	return json.Marshal(flat)
}

// SupportedTypes returns all registered transaction types, sorted by code
func SupportedTypes() []Type {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	types := make([]Type, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
