package sle

import "github.com/coreauction/auctiond/internal/core/ledger/entry"

// AssetAuction is the per-asset auction record.
//
// Invariants: Buyer, BuyerBid, and FirstBidTimestamp are all unset or all
// set; FirstBidTimestamp is written exactly once, by the first accepted
// bid; BuyerBid strictly increases across accepted bids.
type AssetAuction struct {
	LedgerEntryType   entry.Type `codec:"LedgerEntryType"`
	Policy            [32]byte   `codec:"Policy"`
	Whitelist         [32]byte   `codec:"Whitelist"`
	Collection        ID         `codec:"Collection"`
	Asset             ID         `codec:"Asset"`
	Owner             ID         `codec:"Owner"`
	DurationMinutes   uint32     `codec:"DurationMinutes"`
	MinBid            uint64     `codec:"MinBid"`
	Buyer             ID         `codec:"Buyer"`
	BuyerBid          uint64     `codec:"BuyerBid"`
	FirstBidTimestamp int64      `codec:"FirstBidTimestamp"`
}

// HasBid reports whether the auction has received at least one bid.
func (a *AssetAuction) HasBid() bool {
	return !a.Buyer.IsZero()
}

// EndTime returns the unix time at which the bidding window closes.
// Only meaningful once HasBid() is true: the countdown starts at the
// first bid, not at creation.
func (a *AssetAuction) EndTime() int64 {
	return a.FirstBidTimestamp + int64(a.DurationMinutes)*60
}

// Floor returns the amount a new bid must strictly exceed.
func (a *AssetAuction) Floor() uint64 {
	if a.BuyerBid > a.MinBid {
		return a.BuyerBid
	}
	return a.MinBid
}

// ParseAssetAuction decodes an AssetAuction entry.
func ParseAssetAuction(data []byte) (*AssetAuction, error) {
	a := &AssetAuction{}
	if err := Unmarshal(data, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SerializeAssetAuction encodes an AssetAuction entry.
func SerializeAssetAuction(a *AssetAuction) ([]byte, error) {
	a.LedgerEntryType = entry.TypeAssetAuction
	return Marshal(a)
}
