// Package rpc serves the node's JSON-RPC API over HTTP and WebSocket.
// Requests use the {"method": ..., "params": [{...}]} envelope; responses
// carry a result object with a status field.
package rpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/storage/history"
)

// RpcContext carries request-scoped information into handlers
type RpcContext struct {
	Context  context.Context
	IsAdmin  bool
	ClientIP string
}

// MethodHandler is implemented by every RPC method
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
	AdminOnly() bool
}

// MethodRegistry maps method names to handlers
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{methods: make(map[string]MethodHandler)}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	return methods
}

// SubmitResult is the outcome of a transaction submission
type SubmitResult struct {
	EngineResult        string      `json:"engine_result"`
	EngineResultCode    int         `json:"engine_result_code"`
	EngineResultMessage string      `json:"engine_result_message"`
	Applied             bool        `json:"applied"`
	TxHash              string      `json:"tx_hash"`
	Fee                 uint64      `json:"fee"`
	Metadata            interface{} `json:"metadata,omitempty"`
}

// Node is the surface RPC handlers need from the running node
type Node interface {
	// SubmitTransaction applies a signed transaction blob to the open ledger
	SubmitTransaction(txJSON []byte) (*SubmitResult, error)

	// AcceptLedger closes the open ledger and returns the new open sequence
	AcceptLedger() (uint32, error)

	// OpenLedger returns the current open ledger
	OpenLedger() *ledger.Ledger

	// ClosedLedger returns the most recently closed ledger
	ClosedLedger() *ledger.Ledger

	// LedgerBySequence returns a closed ledger by sequence
	LedgerBySequence(seq uint32) (*ledger.Ledger, error)

	// LedgerByHash returns a closed ledger by hash
	LedgerByHash(hash [32]byte) (*ledger.Ledger, error)

	// StateEntry reads an entry from the open ledger state, nil if absent
	StateEntry(key [32]byte) []byte

	// BaseFee returns the flat engine fee
	BaseFee() uint64

	// History returns the relational history store, nil when disabled
	History() history.Store

	// StartTime returns when the node started
	StartTime() time.Time
}
