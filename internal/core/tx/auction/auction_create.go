package auction

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeAuctionCreate, func() tx.Transaction {
		return &AuctionCreate{BaseTx: *tx.NewBaseTx(tx.TypeAuctionCreate, "")}
	})
}

// AuctionCreate opens an auction for an asset the source account owns. The
// asset is locked for the lifetime of the auction: the auction record
// becomes both freeze and transfer delegate, and the asset is frozen.
type AuctionCreate struct {
	tx.BaseTx

	// Seed selects the policy (required)
	Seed uint32 `json:"Seed"`

	// Collection is the whitelisted collection of the asset (required)
	Collection string `json:"Collection"`

	// Asset is the asset to auction (required)
	Asset string `json:"Asset"`

	// DurationMinutes is the bidding window length, counted from
	// the first bid (required)
	DurationMinutes uint32 `json:"DurationMinutes"`

	// MinBid is the amount the first bid must exceed
	MinBid uint64 `json:"MinBid"`
}

// NewAuctionCreate creates a new AuctionCreate transaction
func NewAuctionCreate(account string, seed uint32, collection, asset string, durationMinutes uint32, minBid uint64) *AuctionCreate {
	return &AuctionCreate{
		BaseTx:          *tx.NewBaseTx(tx.TypeAuctionCreate, account),
		Seed:            seed,
		Collection:      collection,
		Asset:           asset,
		DurationMinutes: durationMinutes,
		MinBid:          minBid,
	}
}

// TxType returns the transaction type
func (a *AuctionCreate) TxType() tx.Type {
	return tx.TypeAuctionCreate
}

// Validate validates the AuctionCreate transaction
func (a *AuctionCreate) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}

	if a.Collection == "" {
		return errors.New("temINVALID: Collection is required")
	}
	if _, err := sle.DecodeID(a.Collection); err != nil {
		return errors.New("temINVALID: malformed Collection")
	}
	if a.Asset == "" {
		return errors.New("temINVALID: Asset is required")
	}
	if _, err := sle.DecodeID(a.Asset); err != nil {
		return errors.New("temINVALID: malformed Asset")
	}
	if a.DurationMinutes == 0 {
		return errors.New("temINVALID: DurationMinutes must be positive")
	}

	return nil
}

// Flatten returns a flat map of all transaction fields
func (a *AuctionCreate) Flatten() (map[string]any, error) {
	return tx.ReflectFlatten(a)
}

// Apply applies an AuctionCreate transaction
func (a *AuctionCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	collection, err := sle.DecodeID(a.Collection)
	if err != nil {
		return tx.TemINVALID
	}
	assetID, err := sle.DecodeID(a.Asset)
	if err != nil {
		return tx.TemINVALID
	}

	policy, policyKey, err := readPolicy(ctx.View, a.Seed)
	if err != nil {
		return tx.TefINTERNAL
	}
	if policy == nil {
		return tx.TecNO_ENTRY
	}

	if a.DurationMinutes < policy.MinDurationMinutes {
		return tx.TecDURATION_TOO_SHORT
	}
	if a.DurationMinutes > policy.MaxDurationMinutes {
		return tx.TecDURATION_TOO_LONG
	}

	whitelistKey := keylet.Whitelist(policyKey.Key, [32]byte(collection))
	whitelisted, err := ctx.View.Exists(whitelistKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if !whitelisted {
		return tx.TecNOT_WHITELISTED
	}

	asset, err := ctx.Custody.Get(ctx.View, assetID)
	if err != nil {
		return tx.TecNO_ENTRY
	}
	if asset.Collection != collection {
		return tx.TecNOT_WHITELISTED
	}
	if asset.Owner != ctx.AccountID {
		return tx.TecNO_PERMISSION
	}
	if asset.Frozen {
		return tx.TecFROZEN_ASSET
	}
	// A delegate installed by anyone but the owner cannot be displaced
	if !asset.FreezeDelegate.IsZero() && asset.FreezeDelegate != asset.Owner {
		return tx.TecFREEZE_DELEGATE_NOT_OWNER
	}
	if !asset.TransferDelegate.IsZero() && asset.TransferDelegate != asset.Owner {
		return tx.TecTRANSFER_DELEGATE_NOT_OWNER
	}

	auctionKey := keylet.Auction(whitelistKey.Key, [32]byte(assetID))
	auctionData, err := sle.SerializeAssetAuction(&sle.AssetAuction{
		Policy:          policyKey.Key,
		Whitelist:       whitelistKey.Key,
		Collection:      collection,
		Asset:           assetID,
		Owner:           ctx.AccountID,
		DurationMinutes: a.DurationMinutes,
		MinBid:          a.MinBid,
	})
	if err != nil {
		return tx.TefINTERNAL
	}

	// At most one auction per (collection, asset): a collision means one
	// is already open
	if err := ctx.View.Insert(auctionKey, auctionData); err != nil {
		return tx.TecDUPLICATE
	}

	// Lock the asset under the auction record's authority
	auctionID := sle.ID(auctionKey.Key)
	if err := ctx.Custody.RevokeFreezeDelegate(ctx.View, assetID); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Custody.SetFreezeDelegate(ctx.View, assetID, auctionID); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Custody.Freeze(ctx.View, assetID); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Custody.RevokeTransferDelegate(ctx.View, assetID); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Custody.SetTransferDelegate(ctx.View, assetID, auctionID); err != nil {
		return tx.TefINTERNAL
	}

	ctx.Account.OwnerCount++

	return tx.TesSUCCESS
}
