package tx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
	crypto "github.com/coreauction/auctiond/internal/crypto/common"
	"github.com/coreauction/auctiond/internal/protocol"
)

// DefaultMaxFee is the maximum engine fee accepted from a transaction
const DefaultMaxFee = 1000000

// Engine processes transactions against a ledger view. It runs the
// preflight, preclaim, and apply phases; a tec result claims the fee and
// consumes the sequence without applying transaction effects.
type Engine struct {
	view    LedgerView
	custody AssetCustody
	config  EngineConfig
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	// Result is the transaction result code
	Result Result

	// Applied indicates if the transaction was applied to the ledger
	Applied bool

	// Fee is the fee charged, in base units
	Fee uint64

	// TxHash is the transaction hash
	TxHash [32]byte

	// Metadata contains the changes made by the transaction
	Metadata *Metadata

	// Message is a human-readable result message
	Message string
}

// NewEngine creates a new transaction engine
func NewEngine(view LedgerView, custody AssetCustody, config EngineConfig) *Engine {
	return &Engine{
		view:    view,
		custody: custody,
		config:  config,
	}
}

func accountKeylet(id sle.ID) keylet.Keylet {
	return keylet.Account([32]byte(id))
}

// ComputeTransactionHash computes the hash of a transaction: sha512-half of
// the "TXN\x00" prefix plus the serialized transaction.
func ComputeTransactionHash(txn Transaction) ([32]byte, error) {
	var txBytes []byte

	// Use raw bytes if available (from parsing), otherwise re-serialize
	if raw := txn.GetRawBytes(); len(raw) > 0 {
		txBytes = raw
	} else {
		flat, err := txn.Flatten()
		if err != nil {
			return [32]byte{}, err
		}
		txBytes, err = json.Marshal(flat)
		if err != nil {
			return [32]byte{}, err
		}
	}

	prefix := protocol.HashPrefixTransactionID
	return crypto.Sha512Half(prefix[:], txBytes), nil
}

// Apply processes a transaction and applies it to the ledger
func (e *Engine) Apply(txn Transaction) ApplyResult {
	// Step 1: Preflight checks (syntax validation)
	result := e.preflight(txn)
	if !result.IsSuccess() {
		return ApplyResult{
			Result:  result,
			Applied: false,
			Message: result.Message(),
		}
	}

	// Step 2: Preclaim checks (validate against ledger state)
	result = e.preclaim(txn)
	if !result.IsSuccess() {
		return ApplyResult{
			Result:  result,
			Applied: false,
			Message: result.Message(),
		}
	}

	fee := e.calculateFee(txn)

	txHash, err := ComputeTransactionHash(txn)
	if err != nil {
		return ApplyResult{
			Result:  TefINTERNAL,
			Applied: false,
			Fee:     fee,
			Message: "failed to compute transaction hash: " + err.Error(),
		}
	}

	metadata := &Metadata{
		AffectedNodes: make([]sle.AffectedNode, 0),
	}

	result = e.doApply(txn, metadata, txHash, fee)
	metadata.TransactionResult = result.String()

	// The engine fee is destroyed, not paid to anyone
	if result.IsApplied() {
		e.view.AdjustFeesDestroyed(fee)
	}

	return ApplyResult{
		Result:   result,
		Applied:  result.IsApplied(),
		Fee:      fee,
		TxHash:   txHash,
		Metadata: metadata,
		Message:  result.Message(),
	}
}

// preflight performs initial validation on the transaction
func (e *Engine) preflight(txn Transaction) Result {
	common := txn.GetCommon()

	if common.Account == "" {
		return TemBAD_SRC_ACCOUNT
	}
	if _, err := sle.DecodeID(common.Account); err != nil {
		return TemBAD_SRC_ACCOUNT
	}
	if common.TransactionType == "" {
		return TemINVALID
	}

	if result := e.validateFee(common); result != TesSUCCESS {
		return result
	}

	if common.Sequence == nil || *common.Sequence == 0 {
		return TemBAD_SEQUENCE
	}

	// Transaction-specific validation
	if err := txn.Validate(); err != nil {
		return parseValidationError(err)
	}

	return TesSUCCESS
}

// parseValidationError extracts a result code from a validation error
// message. Validate() implementations prefix the code, e.g. "temBAD_AMOUNT:
// message"; anything unrecognized maps to temINVALID.
func parseValidationError(err error) Result {
	msg := err.Error()

	temCodes := map[string]Result{
		"temMALFORMED":       TemMALFORMED,
		"temBAD_AMOUNT":      TemBAD_AMOUNT,
		"temBAD_FEE":         TemBAD_FEE,
		"temBAD_SEQUENCE":    TemBAD_SEQUENCE,
		"temBAD_SRC_ACCOUNT": TemBAD_SRC_ACCOUNT,
		"temDST_IS_SRC":      TemDST_IS_SRC,
		"temDST_NEEDED":      TemDST_NEEDED,
		"temINVALID":         TemINVALID,
	}

	for code, result := range temCodes {
		if strings.HasPrefix(msg, code) {
			if len(msg) == len(code) || msg[len(code)] == ':' || msg[len(code)] == ' ' {
				return result
			}
		}
	}

	return TemINVALID
}

// validateFee validates the Fee field
func (e *Engine) validateFee(common *Common) Result {
	if common.Fee == "" {
		return TesSUCCESS // base fee is charged
	}

	feeInt, err := strconv.ParseInt(common.Fee, 10, 64)
	if err != nil {
		return TemBAD_FEE
	}
	if feeInt <= 0 {
		return TemBAD_FEE
	}
	if uint64(feeInt) > DefaultMaxFee {
		return TemBAD_FEE
	}

	return TesSUCCESS
}

// preclaim validates the transaction against the current ledger state
func (e *Engine) preclaim(txn Transaction) Result {
	common := txn.GetCommon()

	accountID, err := sle.DecodeID(common.Account)
	if err != nil {
		return TemBAD_SRC_ACCOUNT
	}

	accountKey := accountKeylet(accountID)
	accountData, err := e.view.Read(accountKey)
	if err != nil {
		return TefINTERNAL
	}
	if accountData == nil {
		return TerNO_ACCOUNT
	}

	account, err := sle.ParseAccountRoot(accountData)
	if err != nil {
		return TefINTERNAL
	}

	if common.Sequence != nil {
		if *common.Sequence < account.Sequence {
			return TefPAST_SEQ
		}
		if *common.Sequence > account.Sequence {
			return TerPRE_SEQ
		}
	}

	// Check that account can pay the fee
	if account.Balance < e.calculateFee(txn) {
		return TerINSUF_FEE_B
	}

	return TesSUCCESS
}

// doApply applies the transaction to the ledger. For tec results only the
// fee and sequence changes land; transaction effects are discarded.
func (e *Engine) doApply(txn Transaction, metadata *Metadata, txHash [32]byte, fee uint64) Result {
	common := txn.GetCommon()
	accountID, err := sle.DecodeID(common.Account)
	if err != nil {
		return TefINTERNAL
	}
	accountKey := accountKeylet(accountID)

	accountData, err := e.view.Read(accountKey)
	if err != nil || accountData == nil {
		return TefINTERNAL
	}
	account, err := sle.ParseAccountRoot(accountData)
	if err != nil {
		return TefINTERNAL
	}

	originalBalance := account.Balance
	originalSequence := account.Sequence

	account.Balance -= fee
	if common.Sequence != nil {
		account.Sequence = *common.Sequence + 1
	}
	account.PreviousTxnID = txHash
	account.PreviousTxnLgrSeq = e.config.LedgerSequence

	// Buffer transaction-specific changes so a tec can discard them
	table := NewApplyStateTable(e.view, txHash, e.config.LedgerSequence)

	ctx := &ApplyContext{
		View:      table,
		Account:   account,
		AccountID: accountID,
		Custody:   e.custody,
		Config:    e.config,
		TxHash:    txHash,
		Metadata:  metadata,
	}

	var result Result
	if appliable, ok := txn.(Appliable); ok {
		result = appliable.Apply(ctx)
	} else {
		result = TefINTERNAL
	}

	if result.IsTec() {
		// Apply only fee and sequence changes to the source account
		account.Balance = originalBalance - fee
		account.Sequence = originalSequence
		if common.Sequence != nil {
			account.Sequence = *common.Sequence + 1
		}

		updated, err := sle.SerializeAccountRoot(account)
		if err != nil {
			return TefINTERNAL
		}
		if err := e.view.Update(accountKey, updated); err != nil {
			return TefINTERNAL
		}

		metadata.AffectedNodes = []sle.AffectedNode{
			{
				NodeType:        "ModifiedNode",
				LedgerEntryType: "AccountRoot",
				LedgerIndex:     fmt.Sprintf("%X", accountKey.Key),
			},
		}

		return result
	}

	if !result.IsSuccess() {
		return result
	}

	// Write the source account through the table unless the transaction
	// erased it
	if !table.IsErased(accountKey) {
		updated, err := sle.SerializeAccountRoot(account)
		if err != nil {
			return TefINTERNAL
		}
		if err := table.Update(accountKey, updated); err != nil {
			return TefINTERNAL
		}
	}

	generatedMeta, err := table.Apply()
	if err != nil {
		return TefINTERNAL
	}

	metadata.AffectedNodes = generatedMeta.AffectedNodes
	sort.Slice(metadata.AffectedNodes, func(i, j int) bool {
		return metadata.AffectedNodes[i].LedgerIndex < metadata.AffectedNodes[j].LedgerIndex
	})

	return result
}

// calculateFee returns the fee the transaction pays
func (e *Engine) calculateFee(txn Transaction) uint64 {
	common := txn.GetCommon()
	if common.Fee != "" {
		if fee, err := strconv.ParseUint(common.Fee, 10, 64); err == nil {
			return fee
		}
	}
	return e.config.BaseFee
}
