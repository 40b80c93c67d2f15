package sle

import "github.com/coreauction/auctiond/internal/core/ledger/entry"

// Asset is an asset registry entry: a uniquely-owned digital asset that
// belongs to a collection. The engine references these entries through the
// custody adapter; it owns only the delegate slots it installs itself.
//
// FreezeDelegate and TransferDelegate are independent, nullable authority
// slots. Zero means the slot is unset and the owner is in control.
type Asset struct {
	LedgerEntryType  entry.Type `codec:"LedgerEntryType"`
	Asset            ID         `codec:"Asset"`
	Collection       ID         `codec:"Collection"`
	Owner            ID         `codec:"Owner"`
	Frozen           bool       `codec:"Frozen"`
	FreezeDelegate   ID         `codec:"FreezeDelegate"`
	TransferDelegate ID         `codec:"TransferDelegate"`
}

// ParseAsset decodes an Asset entry.
func ParseAsset(data []byte) (*Asset, error) {
	a := &Asset{}
	if err := Unmarshal(data, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SerializeAsset encodes an Asset entry.
func SerializeAsset(a *Asset) ([]byte, error) {
	a.LedgerEntryType = entry.TypeAsset
	return Marshal(a)
}
