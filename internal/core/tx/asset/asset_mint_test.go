package asset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreauction/auctiond/internal/core/tx"
	jtx "github.com/coreauction/auctiond/internal/testing"
)

func TestAssetMint(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Fund(alice)

	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")

	before := env.OwnerCount(alice)
	jtx.RequireTxSuccess(t, env.MintAsset(alice, assetID, collection))
	require.Equal(t, before+1, env.OwnerCount(alice))

	entry := env.AssetEntry(assetID)
	require.NotNil(t, entry)
	require.Equal(t, alice.ID, entry.Owner)
	require.False(t, entry.Frozen)
	require.True(t, entry.FreezeDelegate.IsZero())
	require.True(t, entry.TransferDelegate.IsZero())
}

func TestAssetMintDuplicate(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice, bob)

	collection := jtx.TestID("punks")
	assetID := jtx.TestID("punk-1")

	jtx.RequireTxSuccess(t, env.MintAsset(alice, assetID, collection))

	// Asset identity is global; another collection does not help
	jtx.RequireTxClaimed(t, env.MintAsset(alice, assetID, collection), tx.TecDUPLICATE)
	jtx.RequireTxClaimed(t, env.MintAsset(bob, assetID, jtx.TestID("apes")), tx.TecDUPLICATE)

	// The original record is untouched
	require.Equal(t, alice.ID, env.AssetEntry(assetID).Owner)
}

func TestAssetMintMalformed(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Fund(alice)

	jtx.RequireTxFail(t, env.MintAsset(alice, "", jtx.TestID("punks")), tx.TemINVALID)
	jtx.RequireTxFail(t, env.MintAsset(alice, "zz", jtx.TestID("punks")), tx.TemINVALID)
	jtx.RequireTxFail(t, env.MintAsset(alice, jtx.TestID("punk-1"), ""), tx.TemINVALID)
}
