package sle

import "github.com/coreauction/auctiond/internal/core/ledger/entry"

// Policy is the per-seed auction configuration. It is immutable after
// creation: the admin identity is authorization data for whitelisting,
// not a mutator.
type Policy struct {
	LedgerEntryType    entry.Type `codec:"LedgerEntryType"`
	Seed               uint32     `codec:"Seed"`
	Admin              ID         `codec:"Admin"`
	FeeBps             uint16     `codec:"FeeBps"`
	MinDurationMinutes uint32     `codec:"MinDurationMinutes"`
	MaxDurationMinutes uint32     `codec:"MaxDurationMinutes"`
}

// ParsePolicy decodes a Policy entry.
func ParsePolicy(data []byte) (*Policy, error) {
	p := &Policy{}
	if err := Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SerializePolicy encodes a Policy entry.
func SerializePolicy(p *Policy) ([]byte, error) {
	p.LedgerEntryType = entry.TypePolicy
	return Marshal(p)
}

// Vault holds the escrowed leading bids of all open auctions under one
// policy. Its balance is the sum of the current buyerBid of every open
// auction with at least one bid.
type Vault struct {
	LedgerEntryType entry.Type `codec:"LedgerEntryType"`
	Policy          [32]byte   `codec:"Policy"`
	Balance         uint64     `codec:"Balance"`
}

// ParseVault decodes a Vault entry.
func ParseVault(data []byte) (*Vault, error) {
	v := &Vault{}
	if err := Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// SerializeVault encodes a Vault entry.
func SerializeVault(v *Vault) ([]byte, error) {
	v.LedgerEntryType = entry.TypeVault
	return Marshal(v)
}

// Treasury accumulates protocol fees from completed auctions under one
// policy. Its balance never decreases.
type Treasury struct {
	LedgerEntryType entry.Type `codec:"LedgerEntryType"`
	Policy          [32]byte   `codec:"Policy"`
	Balance         uint64     `codec:"Balance"`
}

// ParseTreasury decodes a Treasury entry.
func ParseTreasury(data []byte) (*Treasury, error) {
	t := &Treasury{}
	if err := Unmarshal(data, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SerializeTreasury encodes a Treasury entry.
func SerializeTreasury(t *Treasury) ([]byte, error) {
	t.LedgerEntryType = entry.TypeTreasury
	return Marshal(t)
}

// CollectionWhitelist marks a collection as eligible for asset auctions
// under a policy. Existence is the membership proof; the record is never
// mutated.
type CollectionWhitelist struct {
	LedgerEntryType entry.Type `codec:"LedgerEntryType"`
	Policy          [32]byte   `codec:"Policy"`
	Collection      ID         `codec:"Collection"`
}

// ParseCollectionWhitelist decodes a CollectionWhitelist entry.
func ParseCollectionWhitelist(data []byte) (*CollectionWhitelist, error) {
	w := &CollectionWhitelist{}
	if err := Unmarshal(data, w); err != nil {
		return nil, err
	}
	return w, nil
}

// SerializeCollectionWhitelist encodes a CollectionWhitelist entry.
func SerializeCollectionWhitelist(w *CollectionWhitelist) ([]byte, error) {
	w.LedgerEntryType = entry.TypeCollectionWhitelist
	return Marshal(w)
}
