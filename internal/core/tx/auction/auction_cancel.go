package auction

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeAuctionCancel, func() tx.Transaction {
		return &AuctionCancel{BaseTx: *tx.NewBaseTx(tx.TypeAuctionCancel, "")}
	})
}

// AuctionCancel closes an auction that has received no bids. Only the
// seller may cancel; the asset is thawed and both delegates are released.
type AuctionCancel struct {
	tx.BaseTx

	// Seed selects the policy (required)
	Seed uint32 `json:"Seed"`

	// Collection is the collection of the auctioned asset (required)
	Collection string `json:"Collection"`

	// Asset is the auctioned asset (required)
	Asset string `json:"Asset"`
}

// NewAuctionCancel creates a new AuctionCancel transaction
func NewAuctionCancel(account string, seed uint32, collection, asset string) *AuctionCancel {
	return &AuctionCancel{
		BaseTx:     *tx.NewBaseTx(tx.TypeAuctionCancel, account),
		Seed:       seed,
		Collection: collection,
		Asset:      asset,
	}
}

// TxType returns the transaction type
func (c *AuctionCancel) TxType() tx.Type {
	return tx.TypeAuctionCancel
}

// Validate validates the AuctionCancel transaction
func (c *AuctionCancel) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}

	if c.Collection == "" {
		return errors.New("temINVALID: Collection is required")
	}
	if _, err := sle.DecodeID(c.Collection); err != nil {
		return errors.New("temINVALID: malformed Collection")
	}
	if c.Asset == "" {
		return errors.New("temINVALID: Asset is required")
	}
	if _, err := sle.DecodeID(c.Asset); err != nil {
		return errors.New("temINVALID: malformed Asset")
	}

	return nil
}

// Flatten returns a flat map of all transaction fields
func (c *AuctionCancel) Flatten() (map[string]any, error) {
	return tx.ReflectFlatten(c)
}

// Apply applies an AuctionCancel transaction
func (c *AuctionCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	collection, err := sle.DecodeID(c.Collection)
	if err != nil {
		return tx.TemINVALID
	}
	assetID, err := sle.DecodeID(c.Asset)
	if err != nil {
		return tx.TemINVALID
	}

	policy, policyKey, err := readPolicy(ctx.View, c.Seed)
	if err != nil {
		return tx.TefINTERNAL
	}
	if policy == nil {
		return tx.TecNO_ENTRY
	}

	whitelistKey := keyletWhitelist(policyKey.Key, collection)
	auction, auctionKey, err := readAuction(ctx.View, whitelistKey, assetID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if auction == nil {
		return tx.TecNO_ENTRY
	}

	if auction.Owner != ctx.AccountID {
		return tx.TecNO_PERMISSION
	}

	// Once a bid has landed the seller is committed
	if auction.HasBid() {
		return tx.TecAUCTION_STARTED
	}

	// Release the asset: thaw and clear both delegate slots
	if err := ctx.Custody.RevokeFreezeDelegate(ctx.View, assetID); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Custody.RevokeTransferDelegate(ctx.View, assetID); err != nil {
		return tx.TefINTERNAL
	}

	if err := ctx.View.Erase(auctionKey); err != nil {
		return tx.TefINTERNAL
	}

	if ctx.Account.OwnerCount > 0 {
		ctx.Account.OwnerCount--
	}

	return tx.TesSUCCESS
}
