package auction

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeAuctionBid, func() tx.Transaction {
		return &AuctionBid{BaseTx: *tx.NewBaseTx(tx.TypeAuctionBid, "")}
	})
}

// AuctionBid places a bid on an open auction. The bid amount is escrowed in
// the policy vault; the previously leading bid, if any, is refunded in the
// same transaction. The first accepted bid starts the bidding window.
type AuctionBid struct {
	tx.BaseTx

	// Seed selects the policy (required)
	Seed uint32 `json:"Seed"`

	// Collection is the collection of the auctioned asset (required)
	Collection string `json:"Collection"`

	// Asset is the auctioned asset (required)
	Asset string `json:"Asset"`

	// Bid is the offered amount in base units (required)
	Bid uint64 `json:"Bid"`
}

// NewAuctionBid creates a new AuctionBid transaction
func NewAuctionBid(account string, seed uint32, collection, asset string, bid uint64) *AuctionBid {
	return &AuctionBid{
		BaseTx:     *tx.NewBaseTx(tx.TypeAuctionBid, account),
		Seed:       seed,
		Collection: collection,
		Asset:      asset,
		Bid:        bid,
	}
}

// TxType returns the transaction type
func (b *AuctionBid) TxType() tx.Type {
	return tx.TypeAuctionBid
}

// Validate validates the AuctionBid transaction
func (b *AuctionBid) Validate() error {
	if err := b.BaseTx.Validate(); err != nil {
		return err
	}

	if b.Collection == "" {
		return errors.New("temINVALID: Collection is required")
	}
	if _, err := sle.DecodeID(b.Collection); err != nil {
		return errors.New("temINVALID: malformed Collection")
	}
	if b.Asset == "" {
		return errors.New("temINVALID: Asset is required")
	}
	if _, err := sle.DecodeID(b.Asset); err != nil {
		return errors.New("temINVALID: malformed Asset")
	}
	if b.Bid == 0 {
		return errors.New("temBAD_AMOUNT: Bid must be positive")
	}

	return nil
}

// Flatten returns a flat map of all transaction fields
func (b *AuctionBid) Flatten() (map[string]any, error) {
	return tx.ReflectFlatten(b)
}

// Apply applies an AuctionBid transaction
func (b *AuctionBid) Apply(ctx *tx.ApplyContext) tx.Result {
	collection, err := sle.DecodeID(b.Collection)
	if err != nil {
		return tx.TemINVALID
	}
	assetID, err := sle.DecodeID(b.Asset)
	if err != nil {
		return tx.TemINVALID
	}

	policy, policyKey, err := readPolicy(ctx.View, b.Seed)
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

	if auction.Owner == ctx.AccountID {
		return tx.TecOWNER_BID
	}

	// The window runs from the first bid; on and after its end no further
	// bids are accepted
	if auction.HasBid() && ctx.CloseTime() >= auction.EndTime() {
		return tx.TecAUCTION_ENDED
	}

	// Strictly exceed the floor: the min bid before any bid lands, the
	// leading bid afterwards
	if b.Bid <= auction.Floor() {
		return tx.TecINVALID_BID
	}

	if ctx.Account.Balance < b.Bid {
		return tx.TecUNFUNDED
	}

	vault, vaultKey, err := readVault(ctx.View, policyKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if vault == nil {
		return tx.TefINTERNAL
	}

	// Refund the displaced bidder before escrowing the new bid. A bidder
	// raising their own bid is refunded through the in-memory source
	// account, which the engine writes back last.
	if auction.HasBid() {
		if vault.Balance < auction.BuyerBid {
			return tx.TefINTERNAL
		}
		vault.Balance -= auction.BuyerBid
		if auction.Buyer == ctx.AccountID {
			ctx.Account.Balance += auction.BuyerBid
		} else if result := ctx.Credit(auction.Buyer, auction.BuyerBid); result != tx.TesSUCCESS {
			return result
		}
	}

	ctx.Account.Balance -= b.Bid
	vault.Balance += b.Bid

	auction.Buyer = ctx.AccountID
	auction.BuyerBid = b.Bid
	if auction.FirstBidTimestamp == 0 {
		auction.FirstBidTimestamp = ctx.CloseTime()
	}

	if err := writeVault(ctx.View, vaultKey, vault); err != nil {
		return tx.TefINTERNAL
	}
	if err := writeAuction(ctx.View, auctionKey, auction); err != nil {
		return tx.TefINTERNAL
	}

	return tx.TesSUCCESS
}
