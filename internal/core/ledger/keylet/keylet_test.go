package keylet

import (
	"testing"

	"github.com/coreauction/auctiond/internal/core/ledger/entry"
	"github.com/stretchr/testify/require"
)

func TestKeyletDerivationIsDeterministic(t *testing.T) {
	var id [32]byte
	copy(id[:], "some-asset-identity")

	a := Asset(id)
	b := Asset(id)
	require.Equal(t, a, b)
	require.Equal(t, entry.TypeAsset, a.Type)
}

func TestKeyletSpacesDoNotCollide(t *testing.T) {
	var id [32]byte
	copy(id[:], "same-identity-everywhere")

	keys := map[[32]byte]string{}
	for name, k := range map[string]Keylet{
		"account":  Account(id),
		"asset":    Asset(id),
		"vault":    Vault(id),
		"treasury": Treasury(id),
	} {
		prev, dup := keys[k.Key]
		require.False(t, dup, "%s collides with %s", name, prev)
		keys[k.Key] = name
	}
}

func TestAuctionKeyDependsOnBothParents(t *testing.T) {
	var whitelist, otherWhitelist, asset, otherAsset [32]byte
	whitelist[0] = 1
	otherWhitelist[0] = 2
	asset[0] = 3
	otherAsset[0] = 4

	base := Auction(whitelist, asset)
	require.NotEqual(t, base.Key, Auction(otherWhitelist, asset).Key)
	require.NotEqual(t, base.Key, Auction(whitelist, otherAsset).Key)
}

func TestPolicySeedsDerivesDistinctKeys(t *testing.T) {
	require.NotEqual(t, Policy(0).Key, Policy(1).Key)

	p := Policy(7)
	require.NotEqual(t, p.Key, Vault(p.Key).Key)
	require.NotEqual(t, p.Key, Treasury(p.Key).Key)
	require.NotEqual(t, Vault(p.Key).Key, Treasury(p.Key).Key)
}
