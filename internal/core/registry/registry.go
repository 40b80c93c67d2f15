// Package registry implements the asset custody protocol over ledger state:
// asset records, freeze state, delegate installation, and ownership
// transfer. All operations run against the caller's LedgerView so custody
// mutations commit or roll back with the enclosing transaction.
package registry

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

var (
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetExists         = errors.New("asset already registered")
	ErrNoFreezeDelegate    = errors.New("no freeze delegate installed")
	ErrDelegateInstalled   = errors.New("a delegate is already installed")
	ErrTransferWhileFrozen = errors.New("cannot transfer a frozen asset")
)

// Registry implements tx.AssetCustody
type Registry struct{}

var _ tx.AssetCustody = (*Registry)(nil)

// New creates a custody registry
func New() *Registry {
	return &Registry{}
}

func assetKeylet(asset sle.ID) keylet.Keylet {
	return keylet.Asset([32]byte(asset))
}

// Get returns the asset record, or ErrAssetNotFound
func (r *Registry) Get(view tx.LedgerView, asset sle.ID) (*sle.Asset, error) {
	data, err := view.Read(assetKeylet(asset))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrAssetNotFound
	}
	return sle.ParseAsset(data)
}

func (r *Registry) put(view tx.LedgerView, a *sle.Asset) error {
	data, err := sle.SerializeAsset(a)
	if err != nil {
		return err
	}
	return view.Update(assetKeylet(a.Asset), data)
}

// Mint registers a new asset under a collection. Fails if the asset ID is
// already registered.
func (r *Registry) Mint(view tx.LedgerView, asset, collection, owner sle.ID) error {
	k := assetKeylet(asset)
	exists, err := view.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return ErrAssetExists
	}
	a := &sle.Asset{
		Asset:      asset,
		Collection: collection,
		Owner:      owner,
	}
	data, err := sle.SerializeAsset(a)
	if err != nil {
		return err
	}
	return view.Insert(k, data)
}

// SetFreezeDelegate installs a freeze delegate on the asset. Replacing an
// existing delegate requires revoking it first.
func (r *Registry) SetFreezeDelegate(view tx.LedgerView, asset, delegate sle.ID) error {
	a, err := r.Get(view, asset)
	if err != nil {
		return err
	}
	if !a.FreezeDelegate.IsZero() && a.FreezeDelegate != delegate {
		return ErrDelegateInstalled
	}
	a.FreezeDelegate = delegate
	return r.put(view, a)
}

// SetTransferDelegate installs a transfer delegate on the asset
func (r *Registry) SetTransferDelegate(view tx.LedgerView, asset, delegate sle.ID) error {
	a, err := r.Get(view, asset)
	if err != nil {
		return err
	}
	if !a.TransferDelegate.IsZero() && a.TransferDelegate != delegate {
		return ErrDelegateInstalled
	}
	a.TransferDelegate = delegate
	return r.put(view, a)
}

// RevokeFreezeDelegate removes the freeze delegate, thawing the asset first
// if it is frozen.
func (r *Registry) RevokeFreezeDelegate(view tx.LedgerView, asset sle.ID) error {
	a, err := r.Get(view, asset)
	if err != nil {
		return err
	}
	a.Frozen = false
	a.FreezeDelegate = sle.ZeroID
	return r.put(view, a)
}

// RevokeTransferDelegate removes the transfer delegate
func (r *Registry) RevokeTransferDelegate(view tx.LedgerView, asset sle.ID) error {
	a, err := r.Get(view, asset)
	if err != nil {
		return err
	}
	a.TransferDelegate = sle.ZeroID
	return r.put(view, a)
}

// Freeze marks the asset frozen. A freeze delegate must be installed.
func (r *Registry) Freeze(view tx.LedgerView, asset sle.ID) error {
	a, err := r.Get(view, asset)
	if err != nil {
		return err
	}
	if a.FreezeDelegate.IsZero() {
		return ErrNoFreezeDelegate
	}
	a.Frozen = true
	return r.put(view, a)
}

// Thaw clears the frozen flag
func (r *Registry) Thaw(view tx.LedgerView, asset sle.ID) error {
	a, err := r.Get(view, asset)
	if err != nil {
		return err
	}
	a.Frozen = false
	return r.put(view, a)
}

// Transfer moves ownership to newOwner and clears both delegates. The asset
// must not be frozen.
func (r *Registry) Transfer(view tx.LedgerView, asset, newOwner sle.ID) error {
	a, err := r.Get(view, asset)
	if err != nil {
		return err
	}
	if a.Frozen {
		return ErrTransferWhileFrozen
	}
	a.Owner = newOwner
	a.FreezeDelegate = sle.ZeroID
	a.TransferDelegate = sle.ZeroID
	return r.put(view, a)
}
