package tx

import "github.com/coreauction/auctiond/internal/core/tx/sle"

// AssetCustody is the custody protocol over registered assets: freeze state,
// delegate installation, and ownership transfer. The implementation operates
// on the same LedgerView the transaction applies against, so custody
// mutations commit or roll back with the rest of the transaction.
type AssetCustody interface {
	// Get returns the asset record, or an error if it does not exist
	Get(view LedgerView, asset sle.ID) (*sle.Asset, error)

	// SetFreezeDelegate installs a freeze delegate on the asset
	SetFreezeDelegate(view LedgerView, asset, delegate sle.ID) error

	// SetTransferDelegate installs a transfer delegate on the asset
	SetTransferDelegate(view LedgerView, asset, delegate sle.ID) error

	// RevokeFreezeDelegate removes the freeze delegate, thawing first if frozen
	RevokeFreezeDelegate(view LedgerView, asset sle.ID) error

	// RevokeTransferDelegate removes the transfer delegate
	RevokeTransferDelegate(view LedgerView, asset sle.ID) error

	// Freeze marks the asset frozen. Requires a freeze delegate.
	Freeze(view LedgerView, asset sle.ID) error

	// Thaw clears the frozen flag
	Thaw(view LedgerView, asset sle.ID) error

	// Transfer moves ownership to newOwner and clears both delegates
	Transfer(view LedgerView, asset, newOwner sle.ID) error
}

// EngineConfig holds engine configuration shared by all transactions
type EngineConfig struct {
	// BaseFee is the flat engine fee in base units
	BaseFee uint64

	// LedgerSequence is the sequence of the ledger being built
	LedgerSequence uint32

	// CloseTime is the close time of the ledger being built, Unix seconds
	CloseTime int64
}

// ApplyContext provides all the state and helpers needed to apply a
// transaction. It is passed to Appliable.Apply() instead of individual
// parameters.
type ApplyContext struct {
	// View provides read/write access to ledger state (the ApplyStateTable)
	View LedgerView

	// Account is the source account (mutable, written back by the engine)
	Account *sle.AccountRoot

	// AccountID is the decoded source account ID
	AccountID sle.ID

	// Custody performs freeze/delegate/transfer operations on assets
	Custody AssetCustody

	// Config holds engine configuration (base fee, ledger sequence, close time)
	Config EngineConfig

	// TxHash is the hash of the current transaction
	TxHash [32]byte

	// Metadata of the transaction being applied
	Metadata *Metadata
}

// CloseTime returns the close time of the ledger being built
func (ctx *ApplyContext) CloseTime() int64 {
	return ctx.Config.CloseTime
}

// ReadAccount reads an account root by ID, or nil if it does not exist
func (ctx *ApplyContext) ReadAccount(id sle.ID) (*sle.AccountRoot, error) {
	data, err := ctx.View.Read(accountKeylet(id))
	if err != nil || data == nil {
		return nil, err
	}
	return sle.ParseAccountRoot(data)
}

// WriteAccount serializes an account root back to the view
func (ctx *ApplyContext) WriteAccount(root *sle.AccountRoot) error {
	data, err := sle.SerializeAccountRoot(root)
	if err != nil {
		return err
	}
	return ctx.View.Update(accountKeylet(root.Account), data)
}

// Credit adds amount to the account's balance, creating nothing: the account
// must exist.
func (ctx *ApplyContext) Credit(id sle.ID, amount uint64) Result {
	root, err := ctx.ReadAccount(id)
	if err != nil {
		return TefINTERNAL
	}
	if root == nil {
		return TecNO_DST
	}
	root.Balance += amount
	if err := ctx.WriteAccount(root); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}
