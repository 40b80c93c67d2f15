package testing

import (
	"github.com/coreauction/auctiond/internal/core/ledger/genesis"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
	crypto "github.com/coreauction/auctiond/internal/crypto/common"
)

// Account is a deterministic test identity. The same name always yields
// the same account, keeping tests reproducible.
type Account struct {
	// Name is a human-readable identifier, used in failure messages
	Name string

	// ID is the account identifier
	ID sle.ID

	// Address is the hex encoding of the ID, used in transactions
	Address string
}

// NewAccount derives a test account from a name.
func NewAccount(name string) *Account {
	id := sle.ID(crypto.Sha512Half([]byte("account:"), []byte(name)))
	return &Account{
		Name:    name,
		ID:      id,
		Address: id.String(),
	}
}

// MasterAccount returns the genesis master, holder of the initial supply.
func MasterAccount() *Account {
	return &Account{
		Name:    "master",
		ID:      genesis.MasterAccountID,
		Address: genesis.MasterAccountID.String(),
	}
}

// TestID derives a deterministic collection or asset identifier from a
// name, returned in the hex form transactions use.
func TestID(name string) string {
	return sle.ID(crypto.Sha512Half([]byte("id:"), []byte(name))).String()
}
