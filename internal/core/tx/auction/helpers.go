package auction

import (
	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

// readPolicy loads the policy record for a seed. Returns a nil policy if
// the entry does not exist.
func readPolicy(view tx.LedgerView, seed uint32) (*sle.Policy, keylet.Keylet, error) {
	k := keylet.Policy(seed)
	data, err := view.Read(k)
	if err != nil || data == nil {
		return nil, k, err
	}
	p, err := sle.ParsePolicy(data)
	return p, k, err
}

func readVault(view tx.LedgerView, policyKey keylet.Keylet) (*sle.Vault, keylet.Keylet, error) {
	k := keylet.Vault(policyKey.Key)
	data, err := view.Read(k)
	if err != nil || data == nil {
		return nil, k, err
	}
	v, err := sle.ParseVault(data)
	return v, k, err
}

func writeVault(view tx.LedgerView, k keylet.Keylet, v *sle.Vault) error {
	data, err := sle.SerializeVault(v)
	if err != nil {
		return err
	}
	return view.Update(k, data)
}

func readTreasury(view tx.LedgerView, policyKey keylet.Keylet) (*sle.Treasury, keylet.Keylet, error) {
	k := keylet.Treasury(policyKey.Key)
	data, err := view.Read(k)
	if err != nil || data == nil {
		return nil, k, err
	}
	t, err := sle.ParseTreasury(data)
	return t, k, err
}

func writeTreasury(view tx.LedgerView, k keylet.Keylet, t *sle.Treasury) error {
	data, err := sle.SerializeTreasury(t)
	if err != nil {
		return err
	}
	return view.Update(k, data)
}

func keyletWhitelist(policyKey [32]byte, collection sle.ID) keylet.Keylet {
	return keylet.Whitelist(policyKey, [32]byte(collection))
}

func readAuction(view tx.LedgerView, whitelistKey keylet.Keylet, asset sle.ID) (*sle.AssetAuction, keylet.Keylet, error) {
	k := keylet.Auction(whitelistKey.Key, [32]byte(asset))
	data, err := view.Read(k)
	if err != nil || data == nil {
		return nil, k, err
	}
	a, err := sle.ParseAssetAuction(data)
	return a, k, err
}

func writeAuction(view tx.LedgerView, k keylet.Keylet, a *sle.AssetAuction) error {
	data, err := sle.SerializeAssetAuction(a)
	if err != nil {
		return err
	}
	return view.Update(k, data)
}

// protocolFee is the treasury cut of a winning bid: feeBps basis points of
// the bid, rounded up. Split into quotient and remainder so the
// intermediate products cannot overflow for any uint64 bid.
func protocolFee(bid uint64, feeBps uint16) uint64 {
	q := bid / 10000
	r := bid % 10000
	return q*uint64(feeBps) + (r*uint64(feeBps)+9999)/10000
}
