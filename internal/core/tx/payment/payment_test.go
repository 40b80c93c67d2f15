package payment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreauction/auctiond/internal/core/tx"
	jtx "github.com/coreauction/auctiond/internal/testing"
)

func TestPaymentCreatesDestination(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice)

	require.False(t, env.Exists(bob))

	amount := uint64(5_000_000)
	aliceBefore := env.Balance(alice)
	jtx.RequireTxSuccess(t, env.Pay(alice, bob, amount))

	jtx.RequireAccountExists(t, env, bob)
	jtx.RequireBalance(t, env, bob, amount)
	require.Equal(t, aliceBefore-amount-jtx.BaseFee, env.Balance(alice))
}

func TestPaymentToExistingAccount(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice, bob)

	bobBefore := env.Balance(bob)
	jtx.RequireTxSuccess(t, env.Pay(alice, bob, 1_000))
	jtx.RequireBalance(t, env, bob, bobBefore+1_000)
}

func TestPaymentUnfunded(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice, bob)

	seqBefore := env.Seq(alice)
	balanceBefore := env.Balance(alice)

	result := env.Pay(alice, bob, balanceBefore+1)
	jtx.RequireTxClaimed(t, result, tx.TecUNFUNDED)

	// The failed attempt still burns the fee and consumes the sequence
	require.Equal(t, balanceBefore-jtx.BaseFee, env.Balance(alice))
	require.Equal(t, seqBefore+1, env.Seq(alice))
}

func TestPaymentMalformed(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	bob := jtx.NewAccount("bob")
	env.Fund(alice)

	result := env.Pay(alice, alice, 1_000)
	jtx.RequireTxFail(t, result, tx.TemDST_IS_SRC)
	require.False(t, result.Applied)

	jtx.RequireTxFail(t, env.Pay(alice, bob, 0), tx.TemBAD_AMOUNT)
}
