// Package auction implements the auction engine transactions: PolicyCreate,
// CollectionWhitelist, AuctionCreate, AuctionBid, AuctionCancel, and
// AuctionComplete.
package auction

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypePolicyCreate, func() tx.Transaction {
		return &PolicyCreate{BaseTx: *tx.NewBaseTx(tx.TypePolicyCreate, "")}
	})
}

// PolicyCreate creates a policy for a seed, together with its empty vault
// and treasury. The policy is immutable after creation.
type PolicyCreate struct {
	tx.BaseTx

	// Seed selects the policy address (required)
	Seed uint32 `json:"Seed"`

	// Admin is the whitelisting authority; defaults to the source account
	Admin string `json:"Admin,omitempty"`

	// FeeBps is the protocol fee in basis points of the winning bid
	FeeBps uint16 `json:"FeeBps"`

	// MinDurationMinutes is the inclusive lower bound on auction duration (required)
	MinDurationMinutes uint32 `json:"MinDurationMinutes"`

	// MaxDurationMinutes is the inclusive upper bound on auction duration (required)
	MaxDurationMinutes uint32 `json:"MaxDurationMinutes"`
}

// NewPolicyCreate creates a new PolicyCreate transaction
func NewPolicyCreate(account string, seed uint32, feeBps uint16, minDuration, maxDuration uint32) *PolicyCreate {
	return &PolicyCreate{
		BaseTx:             *tx.NewBaseTx(tx.TypePolicyCreate, account),
		Seed:               seed,
		FeeBps:             feeBps,
		MinDurationMinutes: minDuration,
		MaxDurationMinutes: maxDuration,
	}
}

// TxType returns the transaction type
func (p *PolicyCreate) TxType() tx.Type {
	return tx.TypePolicyCreate
}

// Validate validates the PolicyCreate transaction
func (p *PolicyCreate) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}

	if p.FeeBps > 10000 {
		return errors.New("temBAD_AMOUNT: FeeBps cannot exceed 10000")
	}

	if p.MinDurationMinutes == 0 {
		return errors.New("temINVALID: MinDurationMinutes must be positive")
	}
	if p.MaxDurationMinutes < p.MinDurationMinutes {
		return errors.New("temINVALID: MaxDurationMinutes below MinDurationMinutes")
	}

	if p.Admin != "" {
		if _, err := sle.DecodeID(p.Admin); err != nil {
			return errors.New("temINVALID: malformed Admin")
		}
	}

	return nil
}

// Flatten returns a flat map of all transaction fields
func (p *PolicyCreate) Flatten() (map[string]any, error) {
	return tx.ReflectFlatten(p)
}

// Apply applies a PolicyCreate transaction
func (p *PolicyCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	admin := ctx.AccountID
	if p.Admin != "" {
		var err error
		admin, err = sle.DecodeID(p.Admin)
		if err != nil {
			return tx.TemINVALID
		}
	}

	policyKey := keylet.Policy(p.Seed)

	policyData, err := sle.SerializePolicy(&sle.Policy{
		Seed:               p.Seed,
		Admin:              admin,
		FeeBps:             p.FeeBps,
		MinDurationMinutes: p.MinDurationMinutes,
		MaxDurationMinutes: p.MaxDurationMinutes,
	})
	if err != nil {
		return tx.TefINTERNAL
	}

	// A seed collision means the policy already exists
	if err := ctx.View.Insert(policyKey, policyData); err != nil {
		return tx.TecDUPLICATE
	}

	vaultData, err := sle.SerializeVault(&sle.Vault{Policy: policyKey.Key})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(keylet.Vault(policyKey.Key), vaultData); err != nil {
		return tx.TecDUPLICATE
	}

	treasuryData, err := sle.SerializeTreasury(&sle.Treasury{Policy: policyKey.Key})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(keylet.Treasury(policyKey.Key), treasuryData); err != nil {
		return tx.TecDUPLICATE
	}

	ctx.Account.OwnerCount += 3

	return tx.TesSUCCESS
}
