package sle

import "github.com/coreauction/auctiond/internal/core/ledger/entry"

// AccountRoot represents an account in the ledger.
type AccountRoot struct {
	LedgerEntryType   entry.Type `codec:"LedgerEntryType"`
	Account           ID         `codec:"Account"`
	Balance           uint64     `codec:"Balance"`
	Sequence          uint32     `codec:"Sequence"`
	OwnerCount        uint32     `codec:"OwnerCount"`
	PreviousTxnID     [32]byte   `codec:"PreviousTxnID"`
	PreviousTxnLgrSeq uint32     `codec:"PreviousTxnLgrSeq"`
}

// NewAccountRoot creates an account entry with the given identity and balance.
// New accounts start at sequence 1, matching the sequence expected from
// their first transaction.
func NewAccountRoot(account ID, balance uint64) *AccountRoot {
	return &AccountRoot{
		LedgerEntryType: entry.TypeAccountRoot,
		Account:         account,
		Balance:         balance,
		Sequence:        1,
	}
}

// ParseAccountRoot decodes an AccountRoot entry.
func ParseAccountRoot(data []byte) (*AccountRoot, error) {
	a := &AccountRoot{}
	if err := Unmarshal(data, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SerializeAccountRoot encodes an AccountRoot entry.
func SerializeAccountRoot(a *AccountRoot) ([]byte, error) {
	a.LedgerEntryType = entry.TypeAccountRoot
	return Marshal(a)
}
