package auction

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeCollectionWhitelist, func() tx.Transaction {
		return &CollectionWhitelist{BaseTx: *tx.NewBaseTx(tx.TypeCollectionWhitelist, "")}
	})
}

// CollectionWhitelist marks a collection as auctionable under a policy.
// Only the policy admin may whitelist.
type CollectionWhitelist struct {
	tx.BaseTx

	// Seed selects the policy (required)
	Seed uint32 `json:"Seed"`

	// Collection is the collection identifier (required)
	Collection string `json:"Collection"`
}

// NewCollectionWhitelist creates a new CollectionWhitelist transaction
func NewCollectionWhitelist(account string, seed uint32, collection string) *CollectionWhitelist {
	return &CollectionWhitelist{
		BaseTx:     *tx.NewBaseTx(tx.TypeCollectionWhitelist, account),
		Seed:       seed,
		Collection: collection,
	}
}

// TxType returns the transaction type
func (c *CollectionWhitelist) TxType() tx.Type {
	return tx.TypeCollectionWhitelist
}

// Validate validates the CollectionWhitelist transaction
func (c *CollectionWhitelist) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}

	if c.Collection == "" {
		return errors.New("temINVALID: Collection is required")
	}
	if _, err := sle.DecodeID(c.Collection); err != nil {
		return errors.New("temINVALID: malformed Collection")
	}

	return nil
}

// Flatten returns a flat map of all transaction fields
func (c *CollectionWhitelist) Flatten() (map[string]any, error) {
	return tx.ReflectFlatten(c)
}

// Apply applies a CollectionWhitelist transaction
func (c *CollectionWhitelist) Apply(ctx *tx.ApplyContext) tx.Result {
	collection, err := sle.DecodeID(c.Collection)
	if err != nil {
		return tx.TemINVALID
	}

	policy, policyKey, err := readPolicy(ctx.View, c.Seed)
	if err != nil {
		return tx.TefINTERNAL
	}
	if policy == nil {
		return tx.TecNO_ENTRY
	}

	if policy.Admin != ctx.AccountID {
		return tx.TecNO_PERMISSION
	}

	data, err := sle.SerializeCollectionWhitelist(&sle.CollectionWhitelist{
		Policy:     policyKey.Key,
		Collection: collection,
	})
	if err != nil {
		return tx.TefINTERNAL
	}

	// A collision means the collection is already whitelisted
	whitelistKey := keylet.Whitelist(policyKey.Key, [32]byte(collection))
	if err := ctx.View.Insert(whitelistKey, data); err != nil {
		return tx.TecDUPLICATE
	}

	ctx.Account.OwnerCount++

	return tx.TesSUCCESS
}
