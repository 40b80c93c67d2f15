// Package asset implements the AssetMint transaction, which registers a
// uniquely-owned asset under a collection.
package asset

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeAssetMint, func() tx.Transaction {
		return &AssetMint{BaseTx: *tx.NewBaseTx(tx.TypeAssetMint, "")}
	})
}

// AssetMint registers an asset in the asset registry. The source account
// becomes its owner; delegate slots start unset.
type AssetMint struct {
	tx.BaseTx

	// Asset is the identifier of the new asset (required)
	Asset string `json:"Asset"`

	// Collection is the collection the asset belongs to (required)
	Collection string `json:"Collection"`
}

// NewAssetMint creates a new AssetMint transaction
func NewAssetMint(account, asset, collection string) *AssetMint {
	return &AssetMint{
		BaseTx:     *tx.NewBaseTx(tx.TypeAssetMint, account),
		Asset:      asset,
		Collection: collection,
	}
}

// TxType returns the transaction type
func (m *AssetMint) TxType() tx.Type {
	return tx.TypeAssetMint
}

// Validate validates the AssetMint transaction
func (m *AssetMint) Validate() error {
	if err := m.BaseTx.Validate(); err != nil {
		return err
	}

	if m.Asset == "" {
		return errors.New("temINVALID: Asset is required")
	}
	if _, err := sle.DecodeID(m.Asset); err != nil {
		return errors.New("temINVALID: malformed Asset")
	}
	if m.Collection == "" {
		return errors.New("temINVALID: Collection is required")
	}
	if _, err := sle.DecodeID(m.Collection); err != nil {
		return errors.New("temINVALID: malformed Collection")
	}

	return nil
}

// Flatten returns a flat map of all transaction fields
func (m *AssetMint) Flatten() (map[string]any, error) {
	return tx.ReflectFlatten(m)
}

// Apply applies an AssetMint transaction
func (m *AssetMint) Apply(ctx *tx.ApplyContext) tx.Result {
	assetID, err := sle.DecodeID(m.Asset)
	if err != nil {
		return tx.TemINVALID
	}
	collection, err := sle.DecodeID(m.Collection)
	if err != nil {
		return tx.TemINVALID
	}

	data, err := sle.SerializeAsset(&sle.Asset{
		Asset:      assetID,
		Collection: collection,
		Owner:      ctx.AccountID,
	})
	if err != nil {
		return tx.TefINTERNAL
	}

	// One registry entry per asset identity
	if err := ctx.View.Insert(keylet.Asset([32]byte(assetID)), data); err != nil {
		return tx.TecDUPLICATE
	}

	ctx.Account.OwnerCount++

	return tx.TesSUCCESS
}
