package rpc

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

// PolicyInfoMethod returns a policy with its vault and treasury balances
type PolicyInfoMethod struct {
	node Node
}

type policyInfoParams struct {
	Seed uint32 `json:"seed"`
}

func (m *PolicyInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p policyInfoParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}

	policyKey := keylet.Policy(p.Seed)
	data := m.node.StateEntry(policyKey.Key)
	if data == nil {
		return nil, RpcErrorEntryNotFound()
	}
	var policy sle.Policy
	if err := sle.Unmarshal(data, &policy); err != nil {
		return nil, RpcErrorInternal("Failed to decode policy entry")
	}

	response := map[string]interface{}{
		"index":                hex.EncodeToString(policyKey.Key[:]),
		"seed":                 policy.Seed,
		"admin":                policy.Admin.String(),
		"fee_bps":              policy.FeeBps,
		"min_duration_minutes": policy.MinDurationMinutes,
		"max_duration_minutes": policy.MaxDurationMinutes,
	}

	if vaultData := m.node.StateEntry(keylet.Vault(policyKey.Key).Key); vaultData != nil {
		var vault sle.Vault
		if sle.Unmarshal(vaultData, &vault) == nil {
			response["vault_balance"] = vault.Balance
		}
	}
	if treasuryData := m.node.StateEntry(keylet.Treasury(policyKey.Key).Key); treasuryData != nil {
		var treasury sle.Treasury
		if sle.Unmarshal(treasuryData, &treasury) == nil {
			response["treasury_balance"] = treasury.Balance
		}
	}

	return response, nil
}

func (m *PolicyInfoMethod) AdminOnly() bool { return false }

// WhitelistInfoMethod reports whether a collection is whitelisted under a policy
type WhitelistInfoMethod struct {
	node Node
}

type whitelistInfoParams struct {
	Seed       uint32 `json:"seed"`
	Collection string `json:"collection"`
}

func (m *WhitelistInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p whitelistInfoParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if p.Collection == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: collection")
	}
	collectionID, err := sle.DecodeID(p.Collection)
	if err != nil {
		return nil, RpcErrorInvalidParams("malformedRequest")
	}

	policyKey := keylet.Policy(p.Seed)
	whitelistKey := keylet.Whitelist(policyKey.Key, [32]byte(collectionID))
	data := m.node.StateEntry(whitelistKey.Key)

	return map[string]interface{}{
		"index":       hex.EncodeToString(whitelistKey.Key[:]),
		"seed":        p.Seed,
		"collection":  p.Collection,
		"whitelisted": data != nil,
	}, nil
}

func (m *WhitelistInfoMethod) AdminOnly() bool { return false }

// AuctionInfoMethod returns a live auction with its derived bidding state
type AuctionInfoMethod struct {
	node Node
}

type auctionInfoParams struct {
	Seed       uint32 `json:"seed"`
	Collection string `json:"collection"`
	Asset      string `json:"asset"`
}

func (m *AuctionInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p auctionInfoParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if p.Collection == "" || p.Asset == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: collection and asset")
	}
	collectionID, err := sle.DecodeID(p.Collection)
	if err != nil {
		return nil, RpcErrorInvalidParams("malformedRequest")
	}
	assetID, err := sle.DecodeID(p.Asset)
	if err != nil {
		return nil, RpcErrorInvalidParams("malformedRequest")
	}

	policyKey := keylet.Policy(p.Seed)
	whitelistKey := keylet.Whitelist(policyKey.Key, [32]byte(collectionID))
	auctionKey := keylet.Auction(whitelistKey.Key, [32]byte(assetID))

	data := m.node.StateEntry(auctionKey.Key)
	if data == nil {
		return nil, RpcErrorEntryNotFound()
	}
	var auction sle.AssetAuction
	if err := sle.Unmarshal(data, &auction); err != nil {
		return nil, RpcErrorInternal("Failed to decode auction entry")
	}

	response := map[string]interface{}{
		"index":            hex.EncodeToString(auctionKey.Key[:]),
		"seed":             p.Seed,
		"collection":       p.Collection,
		"asset":            p.Asset,
		"owner":            auction.Owner.String(),
		"duration_minutes": auction.DurationMinutes,
		"min_bid":          auction.MinBid,
		"has_bid":          auction.HasBid(),
	}
	if auction.HasBid() {
		response["buyer"] = auction.Buyer.String()
		response["buyer_bid"] = auction.BuyerBid
		response["first_bid_timestamp"] = auction.FirstBidTimestamp
		response["end_time"] = auction.EndTime()
	}
	response["floor"] = auction.Floor()

	return response, nil
}

func (m *AuctionInfoMethod) AdminOnly() bool { return false }

// AssetInfoMethod returns an asset's ownership and custody state
type AssetInfoMethod struct {
	node Node
}

type assetInfoParams struct {
	Asset string `json:"asset"`
}

func (m *AssetInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p assetInfoParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if p.Asset == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: asset")
	}
	assetID, err := sle.DecodeID(p.Asset)
	if err != nil {
		return nil, RpcErrorInvalidParams("malformedRequest")
	}

	assetKey := keylet.Asset([32]byte(assetID))
	data := m.node.StateEntry(assetKey.Key)
	if data == nil {
		return nil, RpcErrorEntryNotFound()
	}
	var asset sle.Asset
	if err := sle.Unmarshal(data, &asset); err != nil {
		return nil, RpcErrorInternal("Failed to decode asset entry")
	}

	response := map[string]interface{}{
		"index":      hex.EncodeToString(assetKey.Key[:]),
		"asset":      asset.Asset.String(),
		"collection": asset.Collection.String(),
		"owner":      asset.Owner.String(),
		"frozen":     asset.Frozen,
	}
	if !asset.FreezeDelegate.IsZero() {
		response["freeze_delegate"] = asset.FreezeDelegate.String()
	}
	if !asset.TransferDelegate.IsZero() {
		response["transfer_delegate"] = asset.TransferDelegate.String()
	}
	return response, nil
}

func (m *AssetInfoMethod) AdminOnly() bool { return false }

// CollectionSalesMethod returns a collection's completed sales, newest first
type CollectionSalesMethod struct {
	node Node
}

type collectionSalesParams struct {
	Collection string `json:"collection"`
	Limit      uint32 `json:"limit,omitempty"`
}

func (m *CollectionSalesMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p collectionSalesParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	if p.Collection == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: collection")
	}

	store := m.node.History()
	if store == nil {
		return nil, RpcErrorInternal("Transaction history is not enabled")
	}

	sales, err := store.GetCollectionSales(context.Background(), p.Collection, p.Limit)
	if err != nil {
		return nil, RpcErrorInternal("Failed to query sales: " + err.Error())
	}

	results := make([]map[string]interface{}, 0, len(sales))
	for _, s := range sales {
		results = append(results, map[string]interface{}{
			"asset":        s.Asset,
			"seller":       s.Seller,
			"buyer":        s.Buyer,
			"price":        s.Price,
			"fee":          s.Fee,
			"ledger_index": s.LedgerSeq,
			"close_time":   s.CloseTime,
		})
	}

	return map[string]interface{}{
		"collection": p.Collection,
		"sales":      results,
	}, nil
}

func (m *CollectionSalesMethod) AdminOnly() bool { return false }
