package testing

import (
	"testing"
	"time"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/ledger/genesis"
	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/ledger/manager"
	"github.com/coreauction/auctiond/internal/core/registry"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/asset"
	"github.com/coreauction/auctiond/internal/core/tx/auction"
	"github.com/coreauction/auctiond/internal/core/tx/payment"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

// DefaultFundAmount is the balance accounts receive from Fund.
const DefaultFundAmount uint64 = 10_000_000_000

// BaseFee is the engine fee used throughout the tests.
const BaseFee uint64 = 10

// TestEnv manages a test ledger environment: a manager with an in-memory
// chain, a manual clock, and deterministic test accounts.
type TestEnv struct {
	t       *testing.T
	mgr     *manager.Manager
	custody *registry.Registry
	clock   *ManualClock

	master *Account
}

// NewTestEnv creates an environment with a fresh genesis ledger.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	clock := NewManualClock()
	custody := registry.New()

	mgr, err := manager.New(nil, custody, manager.Config{
		BaseFee: BaseFee,
		Clock:   clock,
		Genesis: genesis.Config{CloseTime: clock.Now()},
	})
	if err != nil {
		t.Fatalf("Failed to create ledger manager: %v", err)
	}

	return &TestEnv{
		t:       t,
		mgr:     mgr,
		custody: custody,
		clock:   clock,
		master:  MasterAccount(),
	}
}

// Master returns the genesis master account.
func (e *TestEnv) Master() *Account {
	return e.master
}

// Fund creates accounts with the default balance via payments from the
// master account.
func (e *TestEnv) Fund(accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		e.FundAmount(acc, DefaultFundAmount)
	}
}

// FundAmount creates or tops up one account with a specific amount.
func (e *TestEnv) FundAmount(acc *Account, amount uint64) {
	e.t.Helper()
	result := e.Pay(e.master, acc, amount)
	if !result.IsSuccess() {
		e.t.Fatalf("Failed to fund account %s: %s (%s)", acc.Name, result.Code, result.Message)
	}
}

// Pay sends a payment between accounts.
func (e *TestEnv) Pay(from, to *Account, amount uint64) TxResult {
	e.t.Helper()
	return e.Submit(payment.NewPayment(from.Address, to.Address, amount))
}

// MintAsset registers an asset owned by the account.
func (e *TestEnv) MintAsset(acc *Account, assetID, collection string) TxResult {
	e.t.Helper()
	return e.Submit(asset.NewAssetMint(acc.Address, assetID, collection))
}

// CreatePolicy creates a policy with its vault and treasury.
func (e *TestEnv) CreatePolicy(acc *Account, seed uint32, feeBps uint16, minDuration, maxDuration uint32) TxResult {
	e.t.Helper()
	return e.Submit(auction.NewPolicyCreate(acc.Address, seed, feeBps, minDuration, maxDuration))
}

// WhitelistCollection whitelists a collection under a policy.
func (e *TestEnv) WhitelistCollection(acc *Account, seed uint32, collection string) TxResult {
	e.t.Helper()
	return e.Submit(auction.NewCollectionWhitelist(acc.Address, seed, collection))
}

// CreateAuction lists an asset for auction.
func (e *TestEnv) CreateAuction(acc *Account, seed uint32, collection, assetID string, durationMinutes uint32, minBid uint64) TxResult {
	e.t.Helper()
	return e.Submit(auction.NewAuctionCreate(acc.Address, seed, collection, assetID, durationMinutes, minBid))
}

// Bid places a bid on an auction.
func (e *TestEnv) Bid(acc *Account, seed uint32, collection, assetID string, amount uint64) TxResult {
	e.t.Helper()
	return e.Submit(auction.NewAuctionBid(acc.Address, seed, collection, assetID, amount))
}

// CancelAuction cancels an auction before its first bid.
func (e *TestEnv) CancelAuction(acc *Account, seed uint32, collection, assetID string) TxResult {
	e.t.Helper()
	return e.Submit(auction.NewAuctionCancel(acc.Address, seed, collection, assetID))
}

// CompleteAuction settles an auction whose window has elapsed.
func (e *TestEnv) CompleteAuction(acc *Account, seed uint32, collection, assetID string) TxResult {
	e.t.Helper()
	return e.Submit(auction.NewAuctionComplete(acc.Address, seed, collection, assetID))
}

// Submit fills in the fee and next sequence, applies the transaction to
// the open ledger, and returns the result.
func (e *TestEnv) Submit(txn tx.Transaction) TxResult {
	e.t.Helper()

	common := txn.GetCommon()
	if common.Fee == "" {
		common.Fee = "10"
	}
	if common.Sequence == nil {
		accountID, err := sle.DecodeID(common.Account)
		if err != nil {
			e.t.Fatalf("Invalid source account %q: %v", common.Account, err)
		}
		common.SetSequence(e.accountSequence(sle.ID(accountID)))
	}

	result, err := e.mgr.Submit(txn)
	if err != nil {
		e.t.Fatalf("Submit failed: %v", err)
	}

	return TxResult{
		Code:     result.Result.String(),
		Result:   result.Result,
		Applied:  result.Applied,
		Message:  result.Message,
		Metadata: result.Metadata,
	}
}

// Close closes the open ledger and opens the next one.
func (e *TestEnv) Close() {
	e.t.Helper()
	if _, err := e.mgr.Accept(); err != nil {
		e.t.Fatalf("Failed to close ledger: %v", err)
	}
}

// Now returns the current clock time.
func (e *TestEnv) Now() time.Time {
	return e.clock.Now()
}

// AdvanceTime moves the clock forward.
func (e *TestEnv) AdvanceTime(d time.Duration) {
	e.clock.Advance(d)
}

// Ledger returns the open ledger.
func (e *TestEnv) Ledger() *ledger.Ledger {
	return e.mgr.OpenLedger()
}

// Manager returns the underlying ledger manager.
func (e *TestEnv) Manager() *manager.Manager {
	return e.mgr
}

// Custody returns the asset registry.
func (e *TestEnv) Custody() *registry.Registry {
	return e.custody
}

// Exists reports whether an account exists in the open ledger.
func (e *TestEnv) Exists(acc *Account) bool {
	return e.accountRoot(acc.ID) != nil
}

// Balance returns an account's balance, zero when absent.
func (e *TestEnv) Balance(acc *Account) uint64 {
	root := e.accountRoot(acc.ID)
	if root == nil {
		return 0
	}
	return root.Balance
}

// Seq returns an account's next sequence number.
func (e *TestEnv) Seq(acc *Account) uint32 {
	return e.accountSequence(acc.ID)
}

// OwnerCount returns an account's owner count.
func (e *TestEnv) OwnerCount(acc *Account) uint32 {
	root := e.accountRoot(acc.ID)
	if root == nil {
		return 0
	}
	return root.OwnerCount
}

// AssetEntry reads an asset entry, nil when absent.
func (e *TestEnv) AssetEntry(assetID string) *sle.Asset {
	id := e.decodeID(assetID)
	data := e.readState(keylet.Asset([32]byte(id)))
	if data == nil {
		return nil
	}
	var entry sle.Asset
	if err := sle.Unmarshal(data, &entry); err != nil {
		e.t.Fatalf("Failed to decode asset entry: %v", err)
	}
	return &entry
}

// AuctionEntry reads an auction entry, nil when absent.
func (e *TestEnv) AuctionEntry(seed uint32, collection, assetID string) *sle.AssetAuction {
	policyKey := keylet.Policy(seed)
	whitelistKey := keylet.Whitelist(policyKey.Key, [32]byte(e.decodeID(collection)))
	auctionKey := keylet.Auction(whitelistKey.Key, [32]byte(e.decodeID(assetID)))

	data := e.readState(auctionKey)
	if data == nil {
		return nil
	}
	var entry sle.AssetAuction
	if err := sle.Unmarshal(data, &entry); err != nil {
		e.t.Fatalf("Failed to decode auction entry: %v", err)
	}
	return &entry
}

// VaultBalance returns a policy's escrowed bid total.
func (e *TestEnv) VaultBalance(seed uint32) uint64 {
	data := e.readState(keylet.Vault(keylet.Policy(seed).Key))
	if data == nil {
		return 0
	}
	var vault sle.Vault
	if err := sle.Unmarshal(data, &vault); err != nil {
		e.t.Fatalf("Failed to decode vault entry: %v", err)
	}
	return vault.Balance
}

// TreasuryBalance returns a policy's accumulated fees.
func (e *TestEnv) TreasuryBalance(seed uint32) uint64 {
	data := e.readState(keylet.Treasury(keylet.Policy(seed).Key))
	if data == nil {
		return 0
	}
	var treasury sle.Treasury
	if err := sle.Unmarshal(data, &treasury); err != nil {
		e.t.Fatalf("Failed to decode treasury entry: %v", err)
	}
	return treasury.Balance
}

func (e *TestEnv) accountRoot(id sle.ID) *sle.AccountRoot {
	data := e.readState(keylet.Account([32]byte(id)))
	if data == nil {
		return nil
	}
	root, err := sle.ParseAccountRoot(data)
	if err != nil {
		e.t.Fatalf("Failed to decode account root: %v", err)
	}
	return root
}

func (e *TestEnv) accountSequence(id sle.ID) uint32 {
	root := e.accountRoot(id)
	if root == nil {
		return 1
	}
	return root.Sequence
}

func (e *TestEnv) readState(k keylet.Keylet) []byte {
	e.t.Helper()
	data, err := e.Ledger().State.Read(k)
	if err != nil {
		e.t.Fatalf("State read failed: %v", err)
	}
	return data
}

func (e *TestEnv) decodeID(s string) sle.ID {
	e.t.Helper()
	id, err := sle.DecodeID(s)
	if err != nil {
		e.t.Fatalf("Invalid identifier %q: %v", s, err)
	}
	return id
}
