package tx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/payment"
	jtx "github.com/coreauction/auctiond/internal/testing"
)

func TestSequenceHandling(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice, bob)

	seq := env.Seq(alice)

	// A consumed sequence cannot be replayed
	txn := payment.NewPayment(alice.Address, bob.Address, 1_000)
	txn.SetSequence(seq)
	jtx.RequireTxSuccess(t, env.Submit(txn))

	replay := payment.NewPayment(alice.Address, bob.Address, 1_000)
	replay.SetSequence(seq)
	result := env.Submit(replay)
	jtx.RequireTxFail(t, result, tx.TefPAST_SEQ)
	require.False(t, result.Applied)

	// A future sequence is not yet valid
	ahead := payment.NewPayment(alice.Address, bob.Address, 1_000)
	ahead.SetSequence(seq + 5)
	jtx.RequireTxFail(t, env.Submit(ahead), tx.TerPRE_SEQ)

	// Neither failure consumed the account sequence
	require.Equal(t, seq+1, env.Seq(alice))
}

func TestFeeHandling(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice, bob)

	// The stated fee is the one charged
	before := env.Balance(alice)
	txn := payment.NewPayment(alice.Address, bob.Address, 1_000)
	txn.Fee = "25"
	result := env.Submit(txn)
	jtx.RequireTxSuccess(t, result)
	require.Equal(t, before-1_000-25, env.Balance(alice))
}

func TestFeeValidation(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice, bob)

	malformed := payment.NewPayment(alice.Address, bob.Address, 1_000)
	malformed.Fee = "lots"
	jtx.RequireTxFail(t, env.Submit(malformed), tx.TemBAD_FEE)

	negative := payment.NewPayment(alice.Address, bob.Address, 1_000)
	negative.Fee = "-5"
	jtx.RequireTxFail(t, env.Submit(negative), tx.TemBAD_FEE)

	excessive := payment.NewPayment(alice.Address, bob.Address, 1_000)
	excessive.Fee = "1000001"
	jtx.RequireTxFail(t, env.Submit(excessive), tx.TemBAD_FEE)
}

func TestUnknownSourceAccount(t *testing.T) {
	env := jtx.NewTestEnv(t)
	ghost := jtx.NewAccount("ghost")
	bob := jtx.NewAccount("bob")
	env.Fund(bob)

	txn := payment.NewPayment(ghost.Address, bob.Address, 1_000)
	txn.SetSequence(1)
	jtx.RequireTxFail(t, env.Submit(txn), tx.TerNO_ACCOUNT)
}

func TestInsufficientFeeBalance(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(bob)
	env.FundAmount(alice, 5)

	txn := payment.NewPayment(alice.Address, bob.Address, 1)
	result := env.Submit(txn)
	jtx.RequireTxFail(t, result, tx.TerINSUF_FEE_B)
	require.False(t, result.Applied)

	// A ter failure leaves the account untouched
	jtx.RequireBalance(t, env, alice, 5)
}

func TestSuccessMetadata(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice)

	result := env.Pay(alice, bob, 1_000)
	jtx.RequireTxSuccess(t, result)
	require.NotNil(t, result.Metadata)
	require.Equal(t, tx.TesSUCCESS.String(), result.Metadata.TransactionResult)

	var created, modified int
	for _, node := range result.Metadata.AffectedNodes {
		require.Equal(t, "AccountRoot", node.LedgerEntryType)
		switch node.NodeType {
		case "CreatedNode":
			created++
		case "ModifiedNode":
			modified++
		}
	}
	// Destination created, source modified
	require.Equal(t, 1, created)
	require.Equal(t, 1, modified)
}

func TestClaimedFeeMetadata(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice, bob)

	result := env.Pay(alice, bob, env.Balance(alice)*2)
	jtx.RequireTxClaimed(t, result, tx.TecUNFUNDED)

	// Only the fee claim shows in metadata
	require.Len(t, result.Metadata.AffectedNodes, 1)
	node := result.Metadata.AffectedNodes[0]
	require.Equal(t, "ModifiedNode", node.NodeType)
	require.Equal(t, "AccountRoot", node.LedgerEntryType)
}
