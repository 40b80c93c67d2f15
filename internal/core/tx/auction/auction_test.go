package auction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coreauction/auctiond/internal/core/tx"
	jtx "github.com/coreauction/auctiond/internal/testing"
)

const (
	seed     = uint32(7)
	feeBps   = uint16(100)
	minDur   = uint32(10)
	maxDur   = uint32(1440)
	minBid   = uint64(1_000_000)
	duration = uint32(60)
)

// setupPolicy funds the given accounts and creates a whitelisted policy
// administered by admin.
func setupPolicy(t *testing.T, env *jtx.TestEnv, admin *jtx.Account, collection string, accounts ...*jtx.Account) {
	t.Helper()
	env.Fund(admin)
	env.Fund(accounts...)
	jtx.RequireTxSuccess(t, env.CreatePolicy(admin, seed, feeBps, minDur, maxDur))
	jtx.RequireTxSuccess(t, env.WhitelistCollection(admin, seed, collection))
}

func TestPolicyCreate(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Fund(alice)

	before := env.OwnerCount(alice)
	result := env.CreatePolicy(alice, seed, feeBps, minDur, maxDur)
	jtx.RequireTxSuccess(t, result)

	// Policy, vault, and treasury are all owned by the creator
	require.Equal(t, before+3, env.OwnerCount(alice))
	require.Equal(t, uint64(0), env.VaultBalance(seed))
	require.Equal(t, uint64(0), env.TreasuryBalance(seed))

	// Same seed again collides
	jtx.RequireTxClaimed(t, env.CreatePolicy(alice, seed, feeBps, minDur, maxDur), tx.TecDUPLICATE)

	// Another account cannot take the seed either
	bob := jtx.NewAccount("bob")
	env.Fund(bob)
	jtx.RequireTxClaimed(t, env.CreatePolicy(bob, seed, feeBps, minDur, maxDur), tx.TecDUPLICATE)
}

func TestPolicyCreateMalformed(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Fund(alice)

	// Fee above 100%
	result := env.CreatePolicy(alice, seed, 10001, minDur, maxDur)
	jtx.RequireTxFail(t, result, tx.TemBAD_AMOUNT)
	require.False(t, result.Applied)

	// Zero minimum duration
	jtx.RequireTxFail(t, env.CreatePolicy(alice, seed, feeBps, 0, maxDur), tx.TemINVALID)

	// Inverted bounds
	jtx.RequireTxFail(t, env.CreatePolicy(alice, seed, feeBps, maxDur, minDur), tx.TemINVALID)

	// Full fee is allowed
	jtx.RequireTxSuccess(t, env.CreatePolicy(alice, seed, 10000, minDur, maxDur))
}

func TestCollectionWhitelist(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	mallory := jtx.NewAccount("mallory")
	env.Fund(admin, mallory)

	collection := jtx.TestID("punks")

	// Policy must exist first
	jtx.RequireTxClaimed(t, env.WhitelistCollection(admin, seed, collection), tx.TecNO_ENTRY)

	jtx.RequireTxSuccess(t, env.CreatePolicy(admin, seed, feeBps, minDur, maxDur))

	// Only the admin can whitelist
	jtx.RequireTxClaimed(t, env.WhitelistCollection(mallory, seed, collection), tx.TecNO_PERMISSION)

	before := env.OwnerCount(admin)
	jtx.RequireTxSuccess(t, env.WhitelistCollection(admin, seed, collection))
	require.Equal(t, before+1, env.OwnerCount(admin))

	// Whitelisting twice collides
	jtx.RequireTxClaimed(t, env.WhitelistCollection(admin, seed, collection), tx.TecDUPLICATE)
}

func TestAuctionCreate(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))

	before := env.OwnerCount(seller)
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid))
	require.Equal(t, before+1, env.OwnerCount(seller))

	// Listing freezes the asset and installs the auction as delegate
	entry := env.AssetEntry(assetID)
	require.NotNil(t, entry)
	require.True(t, entry.Frozen)
	require.False(t, entry.FreezeDelegate.IsZero())
	require.Equal(t, entry.FreezeDelegate, entry.TransferDelegate)

	a := env.AuctionEntry(seed, collection, assetID)
	require.NotNil(t, a)
	require.Equal(t, seller.ID, a.Owner)
	require.Equal(t, minBid, a.MinBid)
	require.False(t, a.HasBid())

	// Listing the same asset again collides
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid), tx.TecDUPLICATE)
}

func TestAuctionCreateRejections(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	other := jtx.NewAccount("other")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller, other)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))

	// Duration bounds are inclusive
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, collection, assetID, minDur-1, minBid), tx.TecDURATION_TOO_SHORT)
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, collection, assetID, maxDur+1, minBid), tx.TecDURATION_TOO_LONG)

	// Unknown policy
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed+1, collection, assetID, duration, minBid), tx.TecNO_ENTRY)

	// Collection not whitelisted
	otherCollection := jtx.TestID("apes")
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, otherCollection, assetID, duration, minBid), tx.TecNOT_WHITELISTED)

	// Asset from a different collection than the listing claims
	strayAsset := jtx.TestID("ape-1")
	jtx.RequireTxSuccess(t, env.MintAsset(seller, strayAsset, otherCollection))
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, collection, strayAsset, duration, minBid), tx.TecNOT_WHITELISTED)

	// Unknown asset
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, collection, jtx.TestID("ghost"), duration, minBid), tx.TecNO_ENTRY)

	// Only the asset owner can list
	jtx.RequireTxClaimed(t, env.CreateAuction(other, seed, collection, assetID, duration, minBid), tx.TecNO_PERMISSION)

	// Boundary durations are accepted
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, minDur, minBid))
}

func TestAuctionCreateCustodyConflicts(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	delegate := jtx.NewAccount("delegate")
	collection := jtx.TestID("punks")
	setupPolicy(t, env, admin, collection, seller, delegate)

	// A frozen asset cannot be listed
	frozen := jtx.TestID("punk-frozen")
	jtx.RequireTxSuccess(t, env.MintAsset(seller, frozen, collection))
	view := env.Ledger().State
	require.NoError(t, env.Custody().SetFreezeDelegate(view, env.AssetEntry(frozen).Asset, seller.ID))
	require.NoError(t, env.Custody().Freeze(view, env.AssetEntry(frozen).Asset))
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, collection, frozen, duration, minBid), tx.TecFROZEN_ASSET)

	// A foreign freeze delegate blocks listing
	guarded := jtx.TestID("punk-guarded")
	jtx.RequireTxSuccess(t, env.MintAsset(seller, guarded, collection))
	require.NoError(t, env.Custody().SetFreezeDelegate(view, env.AssetEntry(guarded).Asset, delegate.ID))
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, collection, guarded, duration, minBid), tx.TecFREEZE_DELEGATE_NOT_OWNER)

	// A foreign transfer delegate blocks listing
	held := jtx.TestID("punk-held")
	jtx.RequireTxSuccess(t, env.MintAsset(seller, held, collection))
	require.NoError(t, env.Custody().SetTransferDelegate(view, env.AssetEntry(held).Asset, delegate.ID))
	jtx.RequireTxClaimed(t, env.CreateAuction(seller, seed, collection, held, duration, minBid), tx.TecTRANSFER_DELEGATE_NOT_OWNER)

	// A self-held delegate slot is replaced, not rejected
	selfHeld := jtx.TestID("punk-self")
	jtx.RequireTxSuccess(t, env.MintAsset(seller, selfHeld, collection))
	require.NoError(t, env.Custody().SetFreezeDelegate(view, env.AssetEntry(selfHeld).Asset, seller.ID))
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, selfHeld, duration, minBid))
}

func TestAuctionBid(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	buyer1 := jtx.NewAccount("buyer1")
	buyer2 := jtx.NewAccount("buyer2")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller, buyer1, buyer2)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid))

	// The seller cannot bid on their own auction
	jtx.RequireTxClaimed(t, env.Bid(seller, seed, collection, assetID, minBid+1), tx.TecOWNER_BID)

	// First bid must exceed the minimum
	jtx.RequireTxClaimed(t, env.Bid(buyer1, seed, collection, assetID, minBid), tx.TecINVALID_BID)

	balanceBefore := env.Balance(buyer1)
	firstBid := minBid + 1
	jtx.RequireTxSuccess(t, env.Bid(buyer1, seed, collection, assetID, firstBid))

	// Bid escrowed in the vault, fee burned
	require.Equal(t, balanceBefore-firstBid-jtx.BaseFee, env.Balance(buyer1))
	require.Equal(t, firstBid, env.VaultBalance(seed))

	a := env.AuctionEntry(seed, collection, assetID)
	require.True(t, a.HasBid())
	require.Equal(t, buyer1.ID, a.Buyer)
	require.Equal(t, firstBid, a.BuyerBid)
	require.Equal(t, env.Now().Unix(), a.FirstBidTimestamp)
	windowStart := a.FirstBidTimestamp

	// A matching bid is not an improvement
	jtx.RequireTxClaimed(t, env.Bid(buyer2, seed, collection, assetID, firstBid), tx.TecINVALID_BID)

	// A higher bid refunds the previous bidder in full
	refundBase := env.Balance(buyer1)
	secondBid := firstBid + 500_000
	env.AdvanceTime(5 * time.Minute)
	jtx.RequireTxSuccess(t, env.Bid(buyer2, seed, collection, assetID, secondBid))

	require.Equal(t, refundBase+firstBid, env.Balance(buyer1))
	require.Equal(t, secondBid, env.VaultBalance(seed))

	// The window is anchored to the first bid, not the latest
	a = env.AuctionEntry(seed, collection, assetID)
	require.Equal(t, buyer2.ID, a.Buyer)
	require.Equal(t, windowStart, a.FirstBidTimestamp)

	// A bid beyond available funds fails
	jtx.RequireTxClaimed(t, env.Bid(buyer1, seed, collection, assetID, env.Balance(buyer1)+1), tx.TecUNFUNDED)
}

func TestAuctionBidRaiseOwn(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	buyer := jtx.NewAccount("buyer")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller, buyer)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid))

	first := minBid + 1
	second := minBid + 100
	jtx.RequireTxSuccess(t, env.Bid(buyer, seed, collection, assetID, first))

	// Raising the leading bid refunds the bidder their own escrow, so only
	// the difference leaves the account
	before := env.Balance(buyer)
	jtx.RequireTxSuccess(t, env.Bid(buyer, seed, collection, assetID, second))
	require.Equal(t, before+first-second-jtx.BaseFee, env.Balance(buyer))
	require.Equal(t, second, env.VaultBalance(seed))
	require.Equal(t, buyer.ID, env.AuctionEntry(seed, collection, assetID).Buyer)
}

func TestAuctionBidWindow(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	buyer1 := jtx.NewAccount("buyer1")
	buyer2 := jtx.NewAccount("buyer2")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller, buyer1, buyer2)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid))
	jtx.RequireTxSuccess(t, env.Bid(buyer1, seed, collection, assetID, minBid+1))

	// One second before the window closes a bid still lands
	env.AdvanceTime(time.Duration(duration)*time.Minute - time.Second)
	jtx.RequireTxSuccess(t, env.Bid(buyer2, seed, collection, assetID, minBid+2))

	// At the boundary the auction is over
	env.AdvanceTime(time.Second)
	jtx.RequireTxClaimed(t, env.Bid(buyer1, seed, collection, assetID, minBid+3), tx.TecAUCTION_ENDED)
}

func TestAuctionCancel(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	buyer := jtx.NewAccount("buyer")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller, buyer)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid))

	// Only the seller can cancel
	jtx.RequireTxClaimed(t, env.CancelAuction(buyer, seed, collection, assetID), tx.TecNO_PERMISSION)

	before := env.OwnerCount(seller)
	jtx.RequireTxSuccess(t, env.CancelAuction(seller, seed, collection, assetID))
	require.Equal(t, before-1, env.OwnerCount(seller))

	// The asset is thawed and released
	entry := env.AssetEntry(assetID)
	require.False(t, entry.Frozen)
	require.True(t, entry.FreezeDelegate.IsZero())
	require.True(t, entry.TransferDelegate.IsZero())
	require.Nil(t, env.AuctionEntry(seed, collection, assetID))

	// Cancel is blocked once bidding has started
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid))
	jtx.RequireTxSuccess(t, env.Bid(buyer, seed, collection, assetID, minBid+1))
	jtx.RequireTxClaimed(t, env.CancelAuction(seller, seed, collection, assetID), tx.TecAUCTION_STARTED)
}

func TestAuctionComplete(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	buyer1 := jtx.NewAccount("buyer1")
	buyer2 := jtx.NewAccount("buyer2")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller, buyer1, buyer2)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid))

	// Nothing to settle before the first bid
	jtx.RequireTxClaimed(t, env.CompleteAuction(seller, seed, collection, assetID), tx.TecAUCTION_NOT_STARTED)

	jtx.RequireTxSuccess(t, env.Bid(buyer1, seed, collection, assetID, 2_000_000_000))
	jtx.RequireTxSuccess(t, env.Bid(buyer2, seed, collection, assetID, 3_000_000_000))

	// Settlement waits for the window to elapse
	jtx.RequireTxClaimed(t, env.CompleteAuction(seller, seed, collection, assetID), tx.TecAUCTION_RUNNING)

	env.AdvanceTime(time.Duration(duration) * time.Minute)

	sellerBefore := env.Balance(seller)
	sellerOwned := env.OwnerCount(seller)

	// Anyone may settle; buyer1 does it here
	jtx.RequireTxSuccess(t, env.CompleteAuction(buyer1, seed, collection, assetID))

	// 100 bps of 3,000,000,000 is 30,000,000
	fee := uint64(30_000_000)
	require.Equal(t, sellerBefore+3_000_000_000-fee, env.Balance(seller))
	require.Equal(t, fee, env.TreasuryBalance(seed))
	require.Equal(t, uint64(0), env.VaultBalance(seed))
	require.Equal(t, sellerOwned-1, env.OwnerCount(seller))

	// The asset now belongs to the winner, thawed and unencumbered
	entry := env.AssetEntry(assetID)
	require.Equal(t, buyer2.ID, entry.Owner)
	require.False(t, entry.Frozen)
	require.True(t, entry.FreezeDelegate.IsZero())
	require.True(t, entry.TransferDelegate.IsZero())

	require.Nil(t, env.AuctionEntry(seed, collection, assetID))

	// Settling twice finds nothing
	jtx.RequireTxClaimed(t, env.CompleteAuction(buyer1, seed, collection, assetID), tx.TecNO_ENTRY)
}

func TestAuctionCompleteBySeller(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	buyer := jtx.NewAccount("buyer")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller, buyer)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, minBid))

	bid := uint64(10_000_000)
	jtx.RequireTxSuccess(t, env.Bid(buyer, seed, collection, assetID, bid))
	env.AdvanceTime(time.Duration(duration) * time.Minute)

	sellerBefore := env.Balance(seller)
	jtx.RequireTxSuccess(t, env.CompleteAuction(seller, seed, collection, assetID))

	// Seller pays the submission fee and receives the proceeds
	fee := bid / 10000 * uint64(feeBps)
	require.Equal(t, sellerBefore+bid-fee-jtx.BaseFee, env.Balance(seller))
	require.Equal(t, buyer.ID, env.AssetEntry(assetID).Owner)
}

func TestProtocolFeeRoundsUp(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := jtx.NewAccount("admin")
	seller := jtx.NewAccount("seller")
	buyer := jtx.NewAccount("buyer")
	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")
	setupPolicy(t, env, admin, collection, seller, buyer)

	jtx.RequireTxSuccess(t, env.MintAsset(seller, assetID, collection))
	jtx.RequireTxSuccess(t, env.CreateAuction(seller, seed, collection, assetID, duration, 0))

	// 100 bps of 999 is 9.99, charged as 10
	jtx.RequireTxSuccess(t, env.Bid(buyer, seed, collection, assetID, 999))
	env.AdvanceTime(time.Duration(duration) * time.Minute)

	sellerBefore := env.Balance(seller)
	jtx.RequireTxSuccess(t, env.CompleteAuction(buyer, seed, collection, assetID))

	require.Equal(t, uint64(10), env.TreasuryBalance(seed))
	require.Equal(t, sellerBefore+999-10, env.Balance(seller))
}
