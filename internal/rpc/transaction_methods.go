package rpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/coreauction/auctiond/internal/storage/history"
)

// SubmitMethod applies a transaction to the open ledger
type SubmitMethod struct {
	node      Node
	publisher *Publisher
}

type submitParams struct {
	TxJSON json.RawMessage `json:"tx_json"`
}

func (m *SubmitMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p submitParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if len(p.TxJSON) == 0 {
		return nil, RpcErrorInvalidParams("Missing required parameter: tx_json")
	}

	result, err := m.node.SubmitTransaction(p.TxJSON)
	if err != nil {
		return nil, RpcErrorInvalidParams("Transaction rejected: " + err.Error())
	}

	if result.Applied && m.publisher != nil {
		m.publisher.PublishTransaction(p.TxJSON, result)
	}

	var txJSON map[string]interface{}
	_ = json.Unmarshal(p.TxJSON, &txJSON)

	return map[string]interface{}{
		"engine_result":         result.EngineResult,
		"engine_result_code":    result.EngineResultCode,
		"engine_result_message": result.EngineResultMessage,
		"applied":               result.Applied,
		"tx_hash":               result.TxHash,
		"tx_json":               txJSON,
	}, nil
}

func (m *SubmitMethod) AdminOnly() bool { return false }

// TxMethod returns a transaction by hash from the history store
type TxMethod struct {
	node Node
}

type txParams struct {
	Transaction string `json:"transaction"`
}

func (m *TxMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p txParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if p.Transaction == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: transaction")
	}

	store := m.node.History()
	if store == nil {
		return nil, RpcErrorInternal("Transaction history is not enabled")
	}

	record, err := store.GetTransaction(context.Background(), p.Transaction)
	if err != nil {
		if errors.Is(err, history.ErrTransactionNotFound) {
			return nil, RpcErrorTransactionNotFound()
		}
		return nil, RpcErrorInternal("Failed to query transaction: " + err.Error())
	}

	response := map[string]interface{}{
		"hash":         record.Hash,
		"ledger_index": record.LedgerSeq,
		"tx_type":      record.TxType,
		"result":       record.Result,
		"validated":    true,
	}
	if len(record.RawTxn) > 0 {
		var txJSON map[string]interface{}
		if json.Unmarshal(record.RawTxn, &txJSON) == nil {
			response["tx_json"] = txJSON
		}
	}
	return response, nil
}

func (m *TxMethod) AdminOnly() bool { return false }
