package testing

import "github.com/coreauction/auctiond/internal/core/tx"

// TxResult is the outcome of submitting a transaction to the test
// environment.
type TxResult struct {
	// Code is the engine result code (e.g. "tesSUCCESS")
	Code string

	// Result is the numeric engine result
	Result tx.Result

	// Applied reports whether the transaction changed the ledger
	// (success and tec results are applied)
	Applied bool

	// Message describes the result
	Message string

	// Metadata holds the transaction metadata when applied
	Metadata *tx.Metadata
}

// IsSuccess reports whether the transaction fully succeeded.
func (r TxResult) IsSuccess() bool {
	return r.Result.IsSuccess()
}

// IsClaimed reports whether the fee was claimed without the transaction's
// effects (tec results).
func (r TxResult) IsClaimed() bool {
	return r.Result.IsTec()
}
