package rpc

import (
	"context"
	"encoding/json"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
	"github.com/coreauction/auctiond/internal/storage/history"
)

// AccountInfoMethod returns an account's root entry
type AccountInfoMethod struct {
	node Node
}

type accountInfoParams struct {
	Account string `json:"account"`
}

func (m *AccountInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p accountInfoParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if p.Account == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: account")
	}

	accountID, err := sle.DecodeID(p.Account)
	if err != nil {
		return nil, NewRpcError(RpcACT_NOT_FOUND, "actMalformed", "Account malformed.")
	}

	data := m.node.StateEntry(keylet.Account([32]byte(accountID)).Key)
	if data == nil {
		return nil, RpcErrorAccountNotFound()
	}
	fields, err := sle.Fields(data)
	if err != nil {
		return nil, RpcErrorInternal("Failed to decode account entry")
	}

	return map[string]interface{}{
		"account_data":         fields,
		"ledger_current_index": m.node.OpenLedger().Sequence(),
	}, nil
}

func (m *AccountInfoMethod) AdminOnly() bool { return false }

// AccountTxMethod returns an account's transaction history, newest first
type AccountTxMethod struct {
	node Node
}

type accountTxParams struct {
	Account        string `json:"account"`
	LedgerIndexMin uint32 `json:"ledger_index_min,omitempty"`
	LedgerIndexMax uint32 `json:"ledger_index_max,omitempty"`
	Limit          uint32 `json:"limit,omitempty"`
}

func (m *AccountTxMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p accountTxParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if p.Account == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: account")
	}

	store := m.node.History()
	if store == nil {
		return nil, RpcErrorInternal("Transaction history is not enabled")
	}

	records, err := store.GetAccountTransactions(context.Background(), history.AccountTxOptions{
		Account:   p.Account,
		MinLedger: p.LedgerIndexMin,
		MaxLedger: p.LedgerIndexMax,
		Limit:     p.Limit,
	})
	if err != nil {
		return nil, RpcErrorInternal("Failed to query account transactions: " + err.Error())
	}

	txns := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		entry := map[string]interface{}{
			"hash":         r.Hash,
			"ledger_index": r.LedgerSeq,
			"tx_type":      r.TxType,
			"result":       r.Result,
		}
		if len(r.RawTxn) > 0 {
			var txJSON map[string]interface{}
			if json.Unmarshal(r.RawTxn, &txJSON) == nil {
				entry["tx"] = txJSON
			}
		}
		txns = append(txns, entry)
	}

	return map[string]interface{}{
		"account":      p.Account,
		"transactions": txns,
	}, nil
}

func (m *AccountTxMethod) AdminOnly() bool { return false }
