package rpc

import (
	"encoding/hex"
	"encoding/json"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

// LedgerMethod returns a ledger header with optional transactions
type LedgerMethod struct {
	node Node
}

type ledgerParams struct {
	LedgerIndex  interface{} `json:"ledger_index,omitempty"`
	LedgerHash   string      `json:"ledger_hash,omitempty"`
	Transactions bool        `json:"transactions,omitempty"`
}

func (m *LedgerMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p ledgerParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}

	l, rpcErr := m.resolve(p)
	if rpcErr != nil {
		return nil, rpcErr
	}

	hash := l.Hash()
	ledgerObj := map[string]interface{}{
		"ledger_index": l.Sequence(),
		"ledger_hash":  hex.EncodeToString(hash[:]),
		"parent_hash":  hex.EncodeToString(l.Header.ParentHash[:]),
		"state_hash":   hex.EncodeToString(l.Header.StateHash[:]),
		"close_time":   l.Header.CloseTime,
		"closed":       l.Header.Closed,
	}
	if p.Transactions {
		txns := make([]string, 0, len(l.Txns))
		for _, txn := range l.Txns {
			txns = append(txns, hex.EncodeToString(txn.Hash[:]))
		}
		ledgerObj["transactions"] = txns
	}

	return map[string]interface{}{
		"ledger":       ledgerObj,
		"ledger_index": l.Sequence(),
		"validated":    l.Header.Closed,
	}, nil
}

func (m *LedgerMethod) resolve(p ledgerParams) (*ledger.Ledger, *RpcError) {
	if p.LedgerHash != "" {
		raw, err := hex.DecodeString(p.LedgerHash)
		if err != nil || len(raw) != 32 {
			return nil, RpcErrorInvalidParams("ledgerHashMalformed")
		}
		var hash [32]byte
		copy(hash[:], raw)
		l, err := m.node.LedgerByHash(hash)
		if err != nil {
			return nil, RpcErrorLedgerNotFound()
		}
		return l, nil
	}

	switch v := p.LedgerIndex.(type) {
	case nil:
		return m.closedOrError()
	case string:
		switch v {
		case "current":
			return m.node.OpenLedger(), nil
		case "closed", "validated", "":
			return m.closedOrError()
		default:
			return nil, RpcErrorInvalidParams("ledgerIndexMalformed")
		}
	case float64:
		l, err := m.node.LedgerBySequence(uint32(v))
		if err != nil {
			return nil, RpcErrorLedgerNotFound()
		}
		return l, nil
	default:
		return nil, RpcErrorInvalidParams("ledgerIndexMalformed")
	}
}

func (m *LedgerMethod) closedOrError() (*ledger.Ledger, *RpcError) {
	l := m.node.ClosedLedger()
	if l == nil {
		return nil, RpcErrorLedgerNotFound()
	}
	return l, nil
}

func (m *LedgerMethod) AdminOnly() bool { return false }

// LedgerClosedMethod returns the latest closed ledger's hash and index
type LedgerClosedMethod struct {
	node Node
}

func (m *LedgerClosedMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	closed := m.node.ClosedLedger()
	if closed == nil {
		return nil, RpcErrorLedgerNotFound()
	}
	hash := closed.Hash()
	return map[string]interface{}{
		"ledger_hash":  hex.EncodeToString(hash[:]),
		"ledger_index": closed.Sequence(),
	}, nil
}

func (m *LedgerClosedMethod) AdminOnly() bool { return false }

// LedgerCurrentMethod returns the open ledger's index
type LedgerCurrentMethod struct {
	node Node
}

func (m *LedgerCurrentMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{
		"ledger_current_index": m.node.OpenLedger().Sequence(),
	}, nil
}

func (m *LedgerCurrentMethod) AdminOnly() bool { return false }

// LedgerEntryMethod returns a single state entry by key
type LedgerEntryMethod struct {
	node Node
}

type ledgerEntryParams struct {
	Index string `json:"index"`
}

func (m *LedgerEntryMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p ledgerEntryParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if p.Index == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: index")
	}

	raw, err := hex.DecodeString(p.Index)
	if err != nil || len(raw) != 32 {
		return nil, RpcErrorInvalidParams("malformedRequest")
	}
	var key [32]byte
	copy(key[:], raw)

	data := m.node.StateEntry(key)
	if data == nil {
		return nil, RpcErrorEntryNotFound()
	}
	fields, err := sle.Fields(data)
	if err != nil {
		return nil, RpcErrorInternal("Failed to decode ledger entry")
	}

	return map[string]interface{}{
		"index": p.Index,
		"node":  fields,
	}, nil
}

func (m *LedgerEntryMethod) AdminOnly() bool { return false }

// LedgerAcceptMethod closes the open ledger, standalone mode only
type LedgerAcceptMethod struct {
	node      Node
	publisher *Publisher
}

func (m *LedgerAcceptMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	seq, err := m.node.AcceptLedger()
	if err != nil {
		return nil, RpcErrorInternal("Failed to accept ledger: " + err.Error())
	}
	if m.publisher != nil {
		if closed := m.node.ClosedLedger(); closed != nil {
			m.publisher.PublishLedgerClosed(closed)
		}
	}
	return map[string]interface{}{
		"ledger_current_index": seq,
	}, nil
}

func (m *LedgerAcceptMethod) AdminOnly() bool { return true }
