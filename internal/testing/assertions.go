package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreauction/auctiond/internal/core/tx"
)

// RequireBalance asserts that an account has the expected balance.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, expected uint64) {
	t.Helper()
	actual := env.Balance(acc)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireTxSuccess asserts that a transaction fully succeeded.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.Equal(t, tx.TesSUCCESS, result.Result,
		"Expected tesSUCCESS, got %s: %s", result.Code, result.Message)
}

// RequireTxFail asserts that a transaction failed with a specific result.
func RequireTxFail(t *testing.T, result TxResult, expected tx.Result) {
	t.Helper()
	require.Equal(t, expected, result.Result,
		"Expected %s, got %s: %s", expected.String(), result.Code, result.Message)
}

// RequireTxClaimed asserts a tec result: fee claimed, effects withheld.
func RequireTxClaimed(t *testing.T, result TxResult, expected tx.Result) {
	t.Helper()
	require.True(t, result.IsClaimed(),
		"Expected claimed transaction with %s, got %s", expected.String(), result.Code)
	require.Equal(t, expected, result.Result,
		"Expected %s, got %s: %s", expected.String(), result.Code, result.Message)
}

// RequireAccountExists asserts that an account exists in the ledger.
func RequireAccountExists(t *testing.T, env *TestEnv, acc *Account) {
	t.Helper()
	require.True(t, env.Exists(acc),
		"Expected account %s to exist, but it does not", acc.Name)
}
