package tx

import "fmt"

// Type represents a transaction type code
type Type uint16

// Transaction type codes
const (
	TypeInvalid Type = 0xFFFF // Invalid/unknown type

	TypePayment             Type = 0 // ttPAYMENT
	TypePolicyCreate        Type = 1 // ttPOLICY_CREATE
	TypeCollectionWhitelist Type = 2 // ttCOLLECTION_WHITELIST
	TypeAuctionCreate       Type = 3 // ttAUCTION_CREATE
	TypeAuctionBid          Type = 4 // ttAUCTION_BID
	TypeAuctionCancel       Type = 5 // ttAUCTION_CANCEL
	TypeAuctionComplete     Type = 6 // ttAUCTION_COMPLETE
	TypeAssetMint           Type = 7 // ttASSET_MINT
)

// String returns the string name of the transaction type
func (t Type) String() string {
	switch t {
	case TypePayment:
		return "Payment"
	case TypePolicyCreate:
		return "PolicyCreate"
	case TypeCollectionWhitelist:
		return "CollectionWhitelist"
	case TypeAuctionCreate:
		return "AuctionCreate"
	case TypeAuctionBid:
		return "AuctionBid"
	case TypeAuctionCancel:
		return "AuctionCancel"
	case TypeAuctionComplete:
		return "AuctionComplete"
	case TypeAssetMint:
		return "AssetMint"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// typeNameMap maps transaction type names to their codes
var typeNameMap = map[string]Type{
	"Payment":             TypePayment,
	"PolicyCreate":        TypePolicyCreate,
	"CollectionWhitelist": TypeCollectionWhitelist,
	"AuctionCreate":       TypeAuctionCreate,
	"AuctionBid":          TypeAuctionBid,
	"AuctionCancel":       TypeAuctionCancel,
	"AuctionComplete":     TypeAuctionComplete,
	"AssetMint":           TypeAssetMint,
}

// TypeFromName returns the transaction type for a given name
func TypeFromName(name string) (Type, bool) {
	t, ok := typeNameMap[name]
	return t, ok
}
