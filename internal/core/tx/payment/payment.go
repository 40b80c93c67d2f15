// Package payment implements the Payment transaction, the only way value
// moves directly between accounts. Paying a nonexistent destination creates
// its account.
package payment

import (
	"errors"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypePayment, func() tx.Transaction {
		return &Payment{BaseTx: *tx.NewBaseTx(tx.TypePayment, "")}
	})
}

// Payment transfers base units from the source account to a destination
type Payment struct {
	tx.BaseTx

	// Destination is the account to receive the amount (required)
	Destination string `json:"Destination"`

	// Amount is the amount to transfer in base units (required)
	Amount uint64 `json:"Amount"`
}

// NewPayment creates a new Payment transaction
func NewPayment(account, destination string, amount uint64) *Payment {
	return &Payment{
		BaseTx:      *tx.NewBaseTx(tx.TypePayment, account),
		Destination: destination,
		Amount:      amount,
	}
}

// TxType returns the transaction type
func (p *Payment) TxType() tx.Type {
	return tx.TypePayment
}

// Validate validates the Payment transaction
func (p *Payment) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}

	if p.Destination == "" {
		return errors.New("temDST_NEEDED: Destination is required")
	}
	if _, err := sle.DecodeID(p.Destination); err != nil {
		return errors.New("temDST_NEEDED: malformed Destination")
	}
	if p.Destination == p.Account {
		return errors.New("temDST_IS_SRC: Destination may not be source")
	}
	if p.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}

	return nil
}

// Flatten returns a flat map of all transaction fields
func (p *Payment) Flatten() (map[string]any, error) {
	return tx.ReflectFlatten(p)
}

// Apply applies a Payment transaction
func (p *Payment) Apply(ctx *tx.ApplyContext) tx.Result {
	destID, err := sle.DecodeID(p.Destination)
	if err != nil {
		return tx.TemINVALID
	}

	if ctx.Account.Balance < p.Amount {
		return tx.TecUNFUNDED
	}

	dest, err := ctx.ReadAccount(destID)
	if err != nil {
		return tx.TefINTERNAL
	}

	ctx.Account.Balance -= p.Amount

	if dest == nil {
		// Funding an unknown destination creates its account
		data, err := sle.SerializeAccountRoot(sle.NewAccountRoot(destID, p.Amount))
		if err != nil {
			return tx.TefINTERNAL
		}
		if err := ctx.View.Insert(keylet.Account([32]byte(destID)), data); err != nil {
			return tx.TefINTERNAL
		}
		return tx.TesSUCCESS
	}

	dest.Balance += p.Amount
	if err := ctx.WriteAccount(dest); err != nil {
		return tx.TefINTERNAL
	}

	return tx.TesSUCCESS
}
