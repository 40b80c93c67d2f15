// Package testing provides a test ledger environment for transaction
// tests: deterministic accounts, a manual clock, funding and submission
// helpers, and assertions over balances and results.
package testing
