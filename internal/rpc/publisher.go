package rpc

import (
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/coreauction/auctiond/internal/core/ledger"
)

// Stream names clients can subscribe to
const (
	StreamLedger       = "ledger"
	StreamTransactions = "transactions"
)

// subscriber is one WebSocket client's subscription state
type subscriber struct {
	streams map[string]bool
	send    chan []byte
}

// Publisher fans ledger and transaction events out to WebSocket subscribers
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
}

func NewPublisher() *Publisher {
	return &Publisher{subscribers: make(map[string]*subscriber)}
}

// Subscribe adds streams for a connection, registering it if new
func (p *Publisher) Subscribe(connID string, streams []string, send chan []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub, ok := p.subscribers[connID]
	if !ok {
		sub = &subscriber{streams: make(map[string]bool), send: send}
		p.subscribers[connID] = sub
	}
	for _, stream := range streams {
		sub.streams[stream] = true
	}
}

// Unsubscribe removes streams for a connection
func (p *Publisher) Unsubscribe(connID string, streams []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub, ok := p.subscribers[connID]
	if !ok {
		return
	}
	for _, stream := range streams {
		delete(sub.streams, stream)
	}
}

// Remove drops a connection entirely
func (p *Publisher) Remove(connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.subscribers, connID)
}

// ValidStream reports whether a stream name is recognized
func ValidStream(name string) bool {
	return name == StreamLedger || name == StreamTransactions
}

// PublishLedgerClosed notifies ledger stream subscribers of a close
func (p *Publisher) PublishLedgerClosed(l *ledger.Ledger) {
	hash := l.Hash()
	p.broadcast(StreamLedger, map[string]interface{}{
		"type":         "ledgerClosed",
		"ledger_index": l.Sequence(),
		"ledger_hash":  hex.EncodeToString(hash[:]),
		"close_time":   l.Header.CloseTime,
		"txn_count":    len(l.Txns),
	})
}

// PublishTransaction notifies transaction stream subscribers of an applied
// transaction.
func (p *Publisher) PublishTransaction(txJSON json.RawMessage, result *SubmitResult) {
	var txObj map[string]interface{}
	_ = json.Unmarshal(txJSON, &txObj)
	p.broadcast(StreamTransactions, map[string]interface{}{
		"type":          "transaction",
		"engine_result": result.EngineResult,
		"tx_hash":       result.TxHash,
		"transaction":   txObj,
	})
}

// broadcast sends a message to every subscriber of a stream, dropping it
// for clients whose send buffer is full.
func (p *Publisher) broadcast(stream string, message map[string]interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.subscribers {
		if !sub.streams[stream] {
			continue
		}
		select {
		case sub.send <- data:
		default:
		}
	}
}
