package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

var (
	testAsset      = sle.ID{0xa1}
	testCollection = sle.ID{0xc1}
	alice          = sle.ID{0x11}
	bob            = sle.ID{0x22}
)

func mintOne(t *testing.T) (*Registry, *ledger.StateMap) {
	t.Helper()
	r := New()
	view := ledger.NewStateMap()
	require.NoError(t, r.Mint(view, testAsset, testCollection, alice))
	return r, view
}

func TestMint(t *testing.T) {
	r, view := mintOne(t)

	a, err := r.Get(view, testAsset)
	require.NoError(t, err)
	require.Equal(t, testAsset, a.Asset)
	require.Equal(t, testCollection, a.Collection)
	require.Equal(t, alice, a.Owner)
	require.False(t, a.Frozen)

	require.ErrorIs(t, r.Mint(view, testAsset, testCollection, bob), ErrAssetExists)

	_, err = r.Get(view, sle.ID{0xff})
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestDelegateInstallation(t *testing.T) {
	r, view := mintOne(t)

	require.NoError(t, r.SetFreezeDelegate(view, testAsset, bob))

	// An occupied slot rejects a different delegate
	require.ErrorIs(t, r.SetFreezeDelegate(view, testAsset, alice), ErrDelegateInstalled)

	// Reinstalling the same delegate is a no-op
	require.NoError(t, r.SetFreezeDelegate(view, testAsset, bob))

	// Transfer delegation is an independent slot
	require.NoError(t, r.SetTransferDelegate(view, testAsset, alice))
	require.ErrorIs(t, r.SetTransferDelegate(view, testAsset, bob), ErrDelegateInstalled)

	a, err := r.Get(view, testAsset)
	require.NoError(t, err)
	require.Equal(t, bob, a.FreezeDelegate)
	require.Equal(t, alice, a.TransferDelegate)
}

func TestFreezeThaw(t *testing.T) {
	r, view := mintOne(t)

	// Freezing requires a freeze delegate
	require.ErrorIs(t, r.Freeze(view, testAsset), ErrNoFreezeDelegate)

	require.NoError(t, r.SetFreezeDelegate(view, testAsset, bob))
	require.NoError(t, r.Freeze(view, testAsset))

	a, err := r.Get(view, testAsset)
	require.NoError(t, err)
	require.True(t, a.Frozen)

	require.NoError(t, r.Thaw(view, testAsset))
	a, err = r.Get(view, testAsset)
	require.NoError(t, err)
	require.False(t, a.Frozen)
	require.Equal(t, bob, a.FreezeDelegate, "thaw keeps the delegate")
}

func TestRevokeFreezeDelegateThaws(t *testing.T) {
	r, view := mintOne(t)

	require.NoError(t, r.SetFreezeDelegate(view, testAsset, bob))
	require.NoError(t, r.Freeze(view, testAsset))

	require.NoError(t, r.RevokeFreezeDelegate(view, testAsset))

	a, err := r.Get(view, testAsset)
	require.NoError(t, err)
	require.False(t, a.Frozen)
	require.True(t, a.FreezeDelegate.IsZero())
}

func TestTransfer(t *testing.T) {
	r, view := mintOne(t)

	require.NoError(t, r.SetFreezeDelegate(view, testAsset, bob))
	require.NoError(t, r.SetTransferDelegate(view, testAsset, bob))

	// Transfer refuses a frozen asset
	require.NoError(t, r.Freeze(view, testAsset))
	require.ErrorIs(t, r.Transfer(view, testAsset, bob), ErrTransferWhileFrozen)

	require.NoError(t, r.Thaw(view, testAsset))
	require.NoError(t, r.Transfer(view, testAsset, bob))

	// Transfer hands over a clean record
	a, err := r.Get(view, testAsset)
	require.NoError(t, err)
	require.Equal(t, bob, a.Owner)
	require.True(t, a.FreezeDelegate.IsZero())
	require.True(t, a.TransferDelegate.IsZero())
}
