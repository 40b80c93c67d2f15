// Package node assembles a running auction node: the ledger manager, the
// asset registry, the history store, and the RPC surface.
package node

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/ledger/genesis"
	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/ledger/manager"
	"github.com/coreauction/auctiond/internal/core/registry"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/rpc"
	"github.com/coreauction/auctiond/internal/storage/database"
	"github.com/coreauction/auctiond/internal/storage/database/pebble"
	"github.com/coreauction/auctiond/internal/storage/history"
)

// Config holds node settings
type Config struct {
	// DataDir is where the ledger database lives; empty runs in memory
	DataDir string

	// RPCAddr is the HTTP/WebSocket listen address
	RPCAddr string

	// BaseFee is the flat engine fee
	BaseFee uint64

	// Standalone disables the automatic close loop; ledgers close only
	// via ledger_accept
	Standalone bool

	// CloseInterval is the automatic close period when not standalone
	CloseInterval time.Duration

	// CacheSize is the closed-ledger cache size
	CacheSize int

	// History configures the relational history store; nil disables it
	History *history.Config

	// Genesis configures the first ledger
	Genesis genesis.Config
}

// DefaultCloseInterval is the automatic ledger close period
const DefaultCloseInterval = 10 * time.Second

// Node is a running auction node
type Node struct {
	cfg Config

	manager      *manager.Manager
	custody      *registry.Registry
	dbManager    *pebble.Manager
	historyStore history.Store

	publisher *rpc.Publisher
	rpcServer *rpc.Server
	wsServer  *rpc.WebSocketServer

	startTime time.Time
}

var _ rpc.Node = (*Node)(nil)

// New assembles a node from its configuration
func New(cfg Config) (*Node, error) {
	if cfg.RPCAddr == "" {
		cfg.RPCAddr = "127.0.0.1:5005"
	}
	if cfg.CloseInterval <= 0 {
		cfg.CloseInterval = DefaultCloseInterval
	}

	n := &Node{
		cfg:       cfg,
		custody:   registry.New(),
		startTime: time.Now(),
	}

	var db database.DB
	if cfg.DataDir != "" {
		n.dbManager = pebble.NewManager(cfg.DataDir)
		opened, err := n.dbManager.OpenDB("ledger")
		if err != nil {
			return nil, fmt.Errorf("open ledger database: %w", err)
		}
		db = opened
	}

	mgr, err := manager.New(db, n.custody, manager.Config{
		BaseFee:   cfg.BaseFee,
		CacheSize: cfg.CacheSize,
		Genesis:   cfg.Genesis,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize ledger manager: %w", err)
	}
	n.manager = mgr

	if cfg.History != nil {
		store, err := history.NewSQLStore(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("configure history store: %w", err)
		}
		if err := store.Open(context.Background()); err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		n.historyStore = store
	}

	n.publisher = rpc.NewPublisher()
	n.rpcServer = rpc.NewServer(n, n.publisher, 30*time.Second)
	n.wsServer = rpc.NewWebSocketServer(n.rpcServer.Registry(), n.publisher)

	return n, nil
}

// Run serves RPC and, unless standalone, the automatic close loop until
// the context is cancelled.
func (n *Node) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", n.rpcServer)
	mux.Handle("/rpc", n.rpcServer)
	mux.Handle("/ws", n.wsServer)

	httpServer := &http.Server{
		Addr:    n.cfg.RPCAddr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("RPC listening on %s", n.cfg.RPCAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if !n.cfg.Standalone {
		g.Go(func() error {
			ticker := time.NewTicker(n.cfg.CloseInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if _, err := n.AcceptLedger(); err != nil {
						log.Printf("Ledger close failed: %v", err)
					}
				}
			}
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n.wsServer.CloseAll()
		return httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if n.historyStore != nil {
		n.historyStore.Close(context.Background())
	}
	if n.dbManager != nil {
		n.dbManager.Close()
	}
	return err
}

// SubmitTransaction parses and applies a transaction to the open ledger
func (n *Node) SubmitTransaction(txJSON []byte) (*rpc.SubmitResult, error) {
	txn, err := tx.FromJSON(txJSON)
	if err != nil {
		return nil, err
	}

	result, err := n.manager.Submit(txn)
	if err != nil {
		return nil, err
	}

	return &rpc.SubmitResult{
		EngineResult:        result.Result.String(),
		EngineResultCode:    int(result.Result),
		EngineResultMessage: result.Result.Message(),
		Applied:             result.Applied,
		TxHash:              hex.EncodeToString(result.TxHash[:]),
		Fee:                 result.Fee,
		Metadata:            result.Metadata,
	}, nil
}

// AcceptLedger closes the open ledger, records history, and publishes the
// close event. Returns the new open sequence.
func (n *Node) AcceptLedger() (uint32, error) {
	closed, err := n.manager.Accept()
	if err != nil {
		return 0, err
	}

	if n.historyStore != nil {
		if err := n.recordHistory(closed); err != nil {
			log.Printf("History recording failed for ledger %d: %v", closed.Sequence(), err)
		}
	}
	n.publisher.PublishLedgerClosed(closed)

	return n.manager.OpenLedger().Sequence(), nil
}

// OpenLedger implements rpc.Node
func (n *Node) OpenLedger() *ledger.Ledger { return n.manager.OpenLedger() }

// ClosedLedger implements rpc.Node
func (n *Node) ClosedLedger() *ledger.Ledger { return n.manager.ClosedLedger() }

// LedgerBySequence implements rpc.Node
func (n *Node) LedgerBySequence(seq uint32) (*ledger.Ledger, error) {
	return n.manager.GetLedgerBySequence(seq)
}

// LedgerByHash implements rpc.Node
func (n *Node) LedgerByHash(hash [32]byte) (*ledger.Ledger, error) {
	return n.manager.GetLedgerByHash(hash)
}

// StateEntry implements rpc.Node, reading from the open ledger
func (n *Node) StateEntry(key [32]byte) []byte {
	data, err := n.manager.OpenLedger().State.Read(keylet.Keylet{Key: key})
	if err != nil {
		return nil
	}
	return data
}

// BaseFee implements rpc.Node
func (n *Node) BaseFee() uint64 { return n.manager.BaseFee() }

// History implements rpc.Node
func (n *Node) History() history.Store { return n.historyStore }

// StartTime implements rpc.Node
func (n *Node) StartTime() time.Time { return n.startTime }
