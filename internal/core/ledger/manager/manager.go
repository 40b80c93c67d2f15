// Package manager owns the ledger lifecycle: the open ledger accepting
// transactions, the chain of closed ledgers, their cache, and their
// persistence.
package manager

import (
	"errors"
	"sync"
	"time"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/ledger/genesis"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/storage/database"
)

var (
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrNoOpenLedger   = errors.New("no open ledger")
)

// Clock abstracts time so tests can drive the bidding window directly
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns wall-clock time
func SystemClock() Clock { return systemClock{} }

// Config holds manager configuration
type Config struct {
	// BaseFee is the flat engine fee in base units
	BaseFee uint64

	// CacheSize is the closed-ledger cache size
	CacheSize int

	// Clock supplies close times; defaults to the system clock
	Clock Clock

	// Genesis configures the first ledger
	Genesis genesis.Config
}

// DefaultBaseFee is the flat engine fee when none is configured
const DefaultBaseFee uint64 = 10

// Manager is the single writer of the ledger chain. Submissions apply to
// the open ledger; Accept closes it, persists it, and opens the next one.
type Manager struct {
	mu sync.Mutex

	open   *ledger.Ledger
	closed *ledger.Ledger

	cache   *LedgerCache
	db      database.DB
	custody tx.AssetCustody
	baseFee uint64
	clock   Clock
}

// New creates a manager with a fresh genesis ledger. db may be nil for a
// purely in-memory chain.
func New(db database.DB, custody tx.AssetCustody, cfg Config) (*Manager, error) {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	baseFee := cfg.BaseFee
	if baseFee == 0 {
		baseFee = DefaultBaseFee
	}

	cache, err := NewLedgerCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	genesisCfg := cfg.Genesis
	if genesisCfg.CloseTime.IsZero() {
		genesisCfg.CloseTime = clock.Now()
	}
	genesisLedger, err := genesis.Create(genesisCfg)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		closed:  genesisLedger,
		cache:   cache,
		db:      db,
		custody: custody,
		baseFee: baseFee,
		clock:   clock,
	}

	cache.Put(genesisLedger)
	if db != nil {
		if err := m.persist(genesisLedger); err != nil {
			return nil, err
		}
	}

	open, err := genesisLedger.NewOpen()
	if err != nil {
		return nil, err
	}
	m.open = open

	return m, nil
}

// Submit applies a transaction to the open ledger. Applied transactions
// (success and tec alike) are recorded in the ledger's transaction list.
func (m *Manager) Submit(txn tx.Transaction) (tx.ApplyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open == nil {
		return tx.ApplyResult{}, ErrNoOpenLedger
	}

	engine := tx.NewEngine(m.open.State, m.custody, tx.EngineConfig{
		BaseFee:        m.baseFee,
		LedgerSequence: m.open.Sequence(),
		CloseTime:      m.clock.Now().Unix(),
	})

	result := engine.Apply(txn)

	if result.Applied {
		blob, err := tx.ToJSON(txn)
		if err != nil {
			blob = txn.GetRawBytes()
		}
		m.open.Txns = append(m.open.Txns, ledger.AppliedTxn{
			Hash:     result.TxHash,
			Blob:     blob,
			Result:   result.Result.String(),
			Metadata: result.Metadata,
		})
	}

	return result, nil
}

// Accept closes the open ledger, persists it, and opens the next one.
// Returns the newly closed ledger.
func (m *Manager) Accept() (*ledger.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open == nil {
		return nil, ErrNoOpenLedger
	}

	closing := m.open
	if err := closing.Close(m.clock.Now()); err != nil {
		return nil, err
	}

	m.closed = closing
	m.cache.Put(closing)
	if m.db != nil {
		if err := m.persist(closing); err != nil {
			return nil, err
		}
	}

	open, err := closing.NewOpen()
	if err != nil {
		return nil, err
	}
	m.open = open

	return closing, nil
}

// OpenLedger returns the current open ledger
func (m *Manager) OpenLedger() *ledger.Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// ClosedLedger returns the most recently closed ledger
func (m *Manager) ClosedLedger() *ledger.Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GetLedgerBySequence returns a closed ledger by sequence, consulting the
// cache first and falling back to storage.
func (m *Manager) GetLedgerBySequence(seq uint32) (*ledger.Ledger, error) {
	if l, ok := m.cache.Get(seq); ok {
		return l, nil
	}
	if m.db == nil {
		return nil, ErrLedgerNotFound
	}
	l, err := m.load(seq)
	if err != nil {
		return nil, err
	}
	m.cache.Put(l)
	return l, nil
}

// GetLedgerByHash returns a closed ledger by hash
func (m *Manager) GetLedgerByHash(hash [32]byte) (*ledger.Ledger, error) {
	if l, ok := m.cache.GetByHash(hash); ok {
		return l, nil
	}
	if m.db == nil {
		return nil, ErrLedgerNotFound
	}
	seq, err := m.loadHashIndex(hash)
	if err != nil {
		return nil, err
	}
	return m.GetLedgerBySequence(seq)
}

// BaseFee returns the flat engine fee
func (m *Manager) BaseFee() uint64 {
	return m.baseFee
}

// Clock returns the manager's clock
func (m *Manager) Clock() Clock {
	return m.clock
}
