package entry

import "fmt"

// Type represents a ledger entry type
type Type uint16

// All known ledger entry types
const (
	// Account objects
	TypeAccountRoot Type = 0x0061

	// Auction engine objects
	TypePolicy              Type = 0x0070 // Per-seed fee/duration policy
	TypeCollectionWhitelist Type = 0x0077 // Collection eligibility record
	TypeAssetAuction        Type = 0x0075 // Per-asset auction record
	TypeVault               Type = 0x0076 // Per-policy bid escrow
	TypeTreasury            Type = 0x0074 // Per-policy fee accumulator

	// Asset registry objects (external collaborator, stored alongside)
	TypeAsset Type = 0x0073
)

// Name returns the canonical name for a ledger entry type
func (t Type) Name() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypePolicy:
		return "Policy"
	case TypeCollectionWhitelist:
		return "CollectionWhitelist"
	case TypeAssetAuction:
		return "AssetAuction"
	case TypeVault:
		return "Vault"
	case TypeTreasury:
		return "Treasury"
	case TypeAsset:
		return "Asset"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}

// String implements fmt.Stringer
func (t Type) String() string {
	return t.Name()
}
