package keylet

import (
	"encoding/binary"

	"github.com/coreauction/auctiond/internal/core/ledger/entry"
	crypto "github.com/coreauction/auctiond/internal/crypto/common"
)

// Space identifiers for keylet generation.
// Every entity address is derived from a namespace plus its parent
// identifiers, so existence and uniqueness checks reduce to key collisions.
const (
	spaceAccount   uint16 = 'a' // Account root
	spacePolicy    uint16 = 'c' // Policy (per-seed configuration)
	spaceVault     uint16 = 'v' // Per-policy bid escrow
	spaceTreasury  uint16 = 't' // Per-policy fee accumulator
	spaceWhitelist uint16 = 'w' // Collection whitelist record
	spaceAuction   uint16 = 'u' // Per-asset auction record
	spaceAsset     uint16 = 's' // Asset registry entry
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

// Account returns the keylet for an account root entry.
func Account(accountID [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeAccountRoot,
		Key:  indexHash(spaceAccount, accountID[:]),
	}
}

// Policy returns the keylet for the policy entry derived from a seed.
func Policy(seed uint32) Keylet {
	seedBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(seedBytes, seed)
	return Keylet{
		Type: entry.TypePolicy,
		Key:  indexHash(spacePolicy, seedBytes),
	}
}

// Vault returns the keylet for the escrow vault of a policy.
func Vault(policyKey [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeVault,
		Key:  indexHash(spaceVault, policyKey[:]),
	}
}

// Treasury returns the keylet for the fee treasury of a policy.
func Treasury(policyKey [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeTreasury,
		Key:  indexHash(spaceTreasury, policyKey[:]),
	}
}

// Whitelist returns the keylet for a collection whitelist record under a policy.
func Whitelist(policyKey [32]byte, collectionID [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeCollectionWhitelist,
		Key:  indexHash(spaceWhitelist, policyKey[:], collectionID[:]),
	}
}

// Auction returns the keylet for a per-asset auction record.
// The address is derived from the whitelist record and the asset identity,
// so at most one auction can exist per (collection, asset) pair.
func Auction(whitelistKey [32]byte, assetID [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeAssetAuction,
		Key:  indexHash(spaceAuction, whitelistKey[:], assetID[:]),
	}
}

// Asset returns the keylet for an asset registry entry.
func Asset(assetID [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeAsset,
		Key:  indexHash(spaceAsset, assetID[:]),
	}
}
