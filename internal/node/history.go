package node

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/ledger/entry"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/storage/history"
)

// recordHistory writes a closed ledger's transactions and any completed
// sales to the history store.
func (n *Node) recordHistory(closed *ledger.Ledger) error {
	ctx := context.Background()

	records := make([]history.TransactionRecord, 0, len(closed.Txns))
	for i, txn := range closed.Txns {
		var blob struct {
			Account         string `json:"Account"`
			TransactionType string `json:"TransactionType"`
		}
		_ = json.Unmarshal(txn.Blob, &blob)

		records = append(records, history.TransactionRecord{
			Hash:      hex.EncodeToString(txn.Hash[:]),
			LedgerSeq: closed.Sequence(),
			TxnSeq:    uint32(i),
			Account:   blob.Account,
			TxType:    blob.TransactionType,
			Result:    txn.Result,
			RawTxn:    txn.Blob,
		})

		if blob.TransactionType == tx.TypeAuctionComplete.String() && txn.Result == tx.TesSUCCESS.String() {
			if sale, ok := saleFromMetadata(txn, closed); ok {
				if err := n.historyStore.InsertSale(ctx, sale); err != nil {
					return err
				}
			}
		}
	}

	return n.historyStore.InsertTransactions(ctx, records)
}

// saleFromMetadata reconstructs a sale record from a completed auction's
// metadata: the deleted auction entry carries the parties and price, and
// the treasury balance delta gives the fee.
func saleFromMetadata(txn ledger.AppliedTxn, closed *ledger.Ledger) (history.SaleRecord, bool) {
	meta, ok := txn.Metadata.(*tx.Metadata)
	if !ok || meta == nil {
		return history.SaleRecord{}, false
	}

	var sale history.SaleRecord
	found := false

	for _, node := range meta.AffectedNodes {
		switch {
		case node.NodeType == "DeletedNode" && node.LedgerEntryType == entry.TypeAssetAuction.Name():
			sale.Collection = fieldString(node.FinalFields, "Collection")
			sale.Asset = fieldString(node.FinalFields, "Asset")
			sale.Seller = fieldString(node.FinalFields, "Owner")
			sale.Buyer = fieldString(node.FinalFields, "Buyer")
			sale.Price = fieldUint64(node.FinalFields, "BuyerBid")
			found = true

		case node.NodeType == "ModifiedNode" && node.LedgerEntryType == entry.TypeTreasury.Name():
			final := fieldUint64(node.FinalFields, "Balance")
			previous := fieldUint64(node.PreviousFields, "Balance")
			if final >= previous {
				sale.Fee = final - previous
			}
		}
	}

	if !found {
		return history.SaleRecord{}, false
	}
	sale.LedgerSeq = closed.Sequence()
	sale.CloseTime = closed.Header.CloseTime
	return sale, true
}

// fieldString reads a hex-encoded 32-byte identifier from a metadata
// field map.
func fieldString(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case []byte:
		return hex.EncodeToString(v)
	}
	return ""
}

func fieldUint64(fields map[string]any, name string) uint64 {
	switch v := fields[name].(type) {
	case uint64:
		return v
	case int64:
		if v >= 0 {
			return uint64(v)
		}
	case float64:
		if v >= 0 {
			return uint64(v)
		}
	}
	return 0
}
