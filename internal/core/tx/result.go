package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Transaction result codes, organized by category: tes, tec, tef, tem, ter.
//
// tec codes mean the transaction was well-formed and its account funded the
// engine fee, but a validation against ledger state failed: the fee is
// claimed and no other state changes. All auction domain errors are tec
// codes. Uniqueness conflicts surface as the generic tecDUPLICATE storage
// collision rather than a named domain error.
const (
	// tesSUCCESS (0-99)
	TesSUCCESS Result = 0

	// tec "claimed cost" codes (100-199)
	TecCLAIM         Result = 100
	TecNO_DST        Result = 124
	TecUNFUNDED      Result = 129
	TecNO_PERMISSION Result = 139
	TecNO_ENTRY      Result = 140
	TecINTERNAL      Result = 144
	TecDUPLICATE     Result = 149

	// Auction engine codes
	TecOWNER_BID                   Result = 170 // Seller bid on own auction
	TecINVALID_BID                 Result = 171 // Bid does not exceed the floor
	TecAUCTION_ENDED               Result = 172 // Bidding window has elapsed
	TecAUCTION_RUNNING             Result = 173 // Completion before the window elapsed
	TecAUCTION_NOT_STARTED         Result = 174 // Completion with no bid placed
	TecAUCTION_STARTED             Result = 175 // Cancellation after a bid exists
	TecDURATION_TOO_SHORT          Result = 176
	TecDURATION_TOO_LONG           Result = 177
	TecFROZEN_ASSET                Result = 178
	TecFREEZE_DELEGATE_NOT_OWNER   Result = 179
	TecTRANSFER_DELEGATE_NOT_OWNER Result = 180
	TecNOT_WHITELISTED             Result = 181

	// tef failure codes (-199 to -100)
	// Transaction failed, not applied
	TefFAILURE  Result = -199
	TefINTERNAL Result = -192
	TefPAST_SEQ Result = -190

	// tem malformed codes (-299 to -200)
	TemMALFORMED       Result = -299
	TemBAD_AMOUNT      Result = -298
	TemBAD_FEE         Result = -295
	TemBAD_SEQUENCE    Result = -283
	TemBAD_SRC_ACCOUNT Result = -281
	TemDST_IS_SRC      Result = -279
	TemDST_NEEDED      Result = -278
	TemINVALID         Result = -277

	// ter retry codes (-99 to -1)
	TerRETRY       Result = -99
	TerINSUF_FEE_B Result = -97
	TerNO_ACCOUNT  Result = -96
	TerPRE_SEQ     Result = -92
)

// String returns the string representation of the result code
func (r Result) String() string {
	switch r {
	case TesSUCCESS:
		return "tesSUCCESS"
	case TecCLAIM:
		return "tecCLAIM"
	case TecNO_DST:
		return "tecNO_DST"
	case TecUNFUNDED:
		return "tecUNFUNDED"
	case TecNO_PERMISSION:
		return "tecNO_PERMISSION"
	case TecNO_ENTRY:
		return "tecNO_ENTRY"
	case TecINTERNAL:
		return "tecINTERNAL"
	case TecDUPLICATE:
		return "tecDUPLICATE"
	case TecOWNER_BID:
		return "tecOWNER_BID"
	case TecINVALID_BID:
		return "tecINVALID_BID"
	case TecAUCTION_ENDED:
		return "tecAUCTION_ENDED"
	case TecAUCTION_RUNNING:
		return "tecAUCTION_RUNNING"
	case TecAUCTION_NOT_STARTED:
		return "tecAUCTION_NOT_STARTED"
	case TecAUCTION_STARTED:
		return "tecAUCTION_STARTED"
	case TecDURATION_TOO_SHORT:
		return "tecDURATION_TOO_SHORT"
	case TecDURATION_TOO_LONG:
		return "tecDURATION_TOO_LONG"
	case TecFROZEN_ASSET:
		return "tecFROZEN_ASSET"
	case TecFREEZE_DELEGATE_NOT_OWNER:
		return "tecFREEZE_DELEGATE_NOT_OWNER"
	case TecTRANSFER_DELEGATE_NOT_OWNER:
		return "tecTRANSFER_DELEGATE_NOT_OWNER"
	case TecNOT_WHITELISTED:
		return "tecNOT_WHITELISTED"
	case TefFAILURE:
		return "tefFAILURE"
	case TefINTERNAL:
		return "tefINTERNAL"
	case TefPAST_SEQ:
		return "tefPAST_SEQ"
	case TemMALFORMED:
		return "temMALFORMED"
	case TemBAD_AMOUNT:
		return "temBAD_AMOUNT"
	case TemBAD_FEE:
		return "temBAD_FEE"
	case TemBAD_SEQUENCE:
		return "temBAD_SEQUENCE"
	case TemBAD_SRC_ACCOUNT:
		return "temBAD_SRC_ACCOUNT"
	case TemDST_IS_SRC:
		return "temDST_IS_SRC"
	case TemDST_NEEDED:
		return "temDST_NEEDED"
	case TemINVALID:
		return "temINVALID"
	case TerRETRY:
		return "terRETRY"
	case TerINSUF_FEE_B:
		return "terINSUF_FEE_B"
	case TerNO_ACCOUNT:
		return "terNO_ACCOUNT"
	case TerPRE_SEQ:
		return "terPRE_SEQ"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (claimed cost) code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTer returns true if this is a ter (retry) code
func (r Result) IsTer() bool {
	return r >= -99 && r <= -1
}

// ShouldRetry returns true if the transaction should be resubmitted later
func (r Result) ShouldRetry() bool {
	return r.IsTer()
}

// IsApplied returns true if the transaction was applied to the ledger.
// This is true for tesSUCCESS and all tec codes (fee claimed).
func (r Result) IsApplied() bool {
	return r.IsSuccess() || r.IsTec()
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transaction was applied."
	case TecNO_DST:
		return "Destination account does not exist."
	case TecUNFUNDED:
		return "Insufficient balance to fund the operation."
	case TecNO_PERMISSION:
		return "The account is not permitted to perform this operation."
	case TecNO_ENTRY:
		return "The referenced ledger entry does not exist."
	case TecDUPLICATE:
		return "The derived address is already in use."
	case TecOWNER_BID:
		return "The seller cannot bid on their own auction."
	case TecINVALID_BID:
		return "The bid must strictly exceed the current floor."
	case TecAUCTION_ENDED:
		return "The bidding window has elapsed."
	case TecAUCTION_RUNNING:
		return "The bidding window has not elapsed yet."
	case TecAUCTION_NOT_STARTED:
		return "No bid has been placed on the auction."
	case TecAUCTION_STARTED:
		return "The auction already has a bid and cannot be cancelled."
	case TecDURATION_TOO_SHORT:
		return "Duration is shorter than the policy minimum."
	case TecDURATION_TOO_LONG:
		return "Duration is longer than the policy maximum."
	case TecFROZEN_ASSET:
		return "The asset is frozen; thaw it first."
	case TecFREEZE_DELEGATE_NOT_OWNER:
		return "A foreign freeze delegate is installed; revoke it first."
	case TecTRANSFER_DELEGATE_NOT_OWNER:
		return "A foreign transfer delegate is installed; revoke it first."
	case TecNOT_WHITELISTED:
		return "The collection is not whitelisted under the policy."
	case TemBAD_AMOUNT:
		return "Can only send positive amounts."
	case TemBAD_FEE:
		return "Invalid fee."
	case TemBAD_SEQUENCE:
		return "Sequence number must be non-zero."
	case TemDST_IS_SRC:
		return "Destination may not be source."
	case TemDST_NEEDED:
		return "Destination is required."
	case TemINVALID:
		return "The transaction is ill-formed."
	case TerNO_ACCOUNT:
		return "The source account does not exist."
	case TerPRE_SEQ:
		return "Missing/inapplicable prior transaction."
	case TerINSUF_FEE_B:
		return "Account balance can't pay the fee."
	case TefPAST_SEQ:
		return "Sequence number has already passed."
	default:
		return r.String()
	}
}
