package manager

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/coreauction/auctiond/internal/core/ledger"
)

// LedgerCache provides fast access to recently closed ledgers
type LedgerCache struct {
	mu sync.RWMutex

	// Key: ledger sequence number
	recentBySeq *lru.Cache[uint32, *ledger.Ledger]

	// Key: ledger hash
	recentByHash *lru.Cache[[32]byte, *ledger.Ledger]

	hits   uint64
	misses uint64
}

// DefaultCacheSize is the number of closed ledgers kept in memory
const DefaultCacheSize = 256

// NewLedgerCache creates a new ledger cache
func NewLedgerCache(size int) (*LedgerCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	seqCache, err := lru.New[uint32, *ledger.Ledger](size)
	if err != nil {
		return nil, err
	}
	hashCache, err := lru.New[[32]byte, *ledger.Ledger](size)
	if err != nil {
		return nil, err
	}

	return &LedgerCache{
		recentBySeq:  seqCache,
		recentByHash: hashCache,
	}, nil
}

// Get retrieves a ledger by sequence number from cache
func (c *LedgerCache) Get(seq uint32) (*ledger.Ledger, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if l, found := c.recentBySeq.Get(seq); found {
		c.hits++
		return l, true
	}

	c.misses++
	return nil, false
}

// GetByHash retrieves a ledger by hash from cache
func (c *LedgerCache) GetByHash(hash [32]byte) (*ledger.Ledger, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if l, found := c.recentByHash.Get(hash); found {
		c.hits++
		return l, true
	}

	c.misses++
	return nil, false
}

// Put stores a closed ledger in cache
func (c *LedgerCache) Put(l *ledger.Ledger) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recentBySeq.Add(l.Sequence(), l)
	c.recentByHash.Add(l.Hash(), l)
}

// Stats returns cache hit/miss counts
func (c *LedgerCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.hits, c.misses
}
