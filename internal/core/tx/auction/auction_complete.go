package auction

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeAuctionComplete, func() tx.Transaction {
		return &AuctionComplete{BaseTx: *tx.NewBaseTx(tx.TypeAuctionComplete, "")}
	})
}

// AuctionComplete settles an auction whose bidding window has elapsed: the
// protocol fee moves from the vault to the treasury, the remainder is paid
// to the seller, and the asset is thawed and transferred to the winning
// bidder. Anyone may submit it.
type AuctionComplete struct {
	tx.BaseTx

	// Seed selects the policy (required)
	Seed uint32 `json:"Seed"`

	// Collection is the collection of the auctioned asset (required)
	Collection string `json:"Collection"`

	// Asset is the auctioned asset (required)
	Asset string `json:"Asset"`
}

// NewAuctionComplete creates a new AuctionComplete transaction
func NewAuctionComplete(account string, seed uint32, collection, asset string) *AuctionComplete {
	return &AuctionComplete{
		BaseTx:     *tx.NewBaseTx(tx.TypeAuctionComplete, account),
		Seed:       seed,
		Collection: collection,
		Asset:      asset,
	}
}

// TxType returns the transaction type
func (c *AuctionComplete) TxType() tx.Type {
	return tx.TypeAuctionComplete
}

// Validate validates the AuctionComplete transaction
func (c *AuctionComplete) Validate() error {
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
func (c *AuctionComplete) Flatten() (map[string]any, error) {
	return tx.ReflectFlatten(c)
}

// Apply applies an AuctionComplete transaction
func (c *AuctionComplete) Apply(ctx *tx.ApplyContext) tx.Result {
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

	if !auction.HasBid() {
		return tx.TecAUCTION_NOT_STARTED
	}
	if ctx.CloseTime() < auction.EndTime() {
		return tx.TecAUCTION_RUNNING
	}

	vault, vaultKey, err := readVault(ctx.View, policyKey)
	if err != nil || vault == nil {
		return tx.TefINTERNAL
	}
	treasury, treasuryKey, err := readTreasury(ctx.View, policyKey)
	if err != nil || treasury == nil {
		return tx.TefINTERNAL
	}

	if vault.Balance < auction.BuyerBid {
		return tx.TefINTERNAL
	}

	// Protocol fee rounds up; the seller receives the remainder
	fee := protocolFee(auction.BuyerBid, policy.FeeBps)
	sellerAmount := auction.BuyerBid - fee

	vault.Balance -= auction.BuyerBid
	treasury.Balance += fee

	// Pay the seller and release the reserve slot held by the auction
	// record. The seller may or may not be the submitting account.
	if auction.Owner == ctx.AccountID {
		ctx.Account.Balance += sellerAmount
		if ctx.Account.OwnerCount > 0 {
			ctx.Account.OwnerCount--
		}
	} else {
		seller, err := ctx.ReadAccount(auction.Owner)
		if err != nil || seller == nil {
			return tx.TefINTERNAL
		}
		seller.Balance += sellerAmount
		if seller.OwnerCount > 0 {
			seller.OwnerCount--
		}
		if err := ctx.WriteAccount(seller); err != nil {
			return tx.TefINTERNAL
		}
	}

	// Hand the asset to the winner: thaw, then transfer, which clears both
	// delegate slots
	if err := ctx.Custody.Thaw(ctx.View, assetID); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Custody.Transfer(ctx.View, assetID, auction.Buyer); err != nil {
		return tx.TefINTERNAL
	}

	if err := writeVault(ctx.View, vaultKey, vault); err != nil {
		return tx.TefINTERNAL
	}
	if err := writeTreasury(ctx.View, treasuryKey, treasury); err != nil {
		return tx.TefINTERNAL
	}

	if err := ctx.View.Erase(auctionKey); err != nil {
		return tx.TefINTERNAL
	}

	return tx.TesSUCCESS
}
