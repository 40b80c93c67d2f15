package manager_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coreauction/auctiond/internal/core/ledger/genesis"
	"github.com/coreauction/auctiond/internal/core/ledger/manager"
	"github.com/coreauction/auctiond/internal/core/registry"
	"github.com/coreauction/auctiond/internal/core/tx"
	"github.com/coreauction/auctiond/internal/core/tx/payment"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
	"github.com/coreauction/auctiond/internal/storage/database/pebble"
	jtx "github.com/coreauction/auctiond/internal/testing"
)

func newManager(t *testing.T) (*manager.Manager, *jtx.ManualClock) {
	t.Helper()
	clock := jtx.NewManualClock()
	m, err := manager.New(nil, registry.New(), manager.Config{
		Clock:   clock,
		Genesis: genesis.Config{CloseTime: clock.Now()},
	})
	require.NoError(t, err)
	return m, clock
}

func masterPayment(seq uint32, dest sle.ID, amount uint64) tx.Transaction {
	txn := payment.NewPayment(genesis.MasterAccountID.String(), dest.String(), amount)
	txn.Fee = "10"
	txn.SetSequence(seq)
	return txn
}

func TestManagerGenesis(t *testing.T) {
	m, _ := newManager(t)

	closed := m.ClosedLedger()
	require.Equal(t, uint32(1), closed.Sequence())
	require.True(t, closed.Header.Closed)

	open := m.OpenLedger()
	require.Equal(t, uint32(2), open.Sequence())
	require.Equal(t, closed.Hash(), open.Header.ParentHash)
}

func TestManagerSubmitAccept(t *testing.T) {
	m, clock := newManager(t)
	dest := sle.ID{0x42}

	result, err := m.Submit(masterPayment(1, dest, 1_000))
	require.NoError(t, err)
	require.Equal(t, tx.TesSUCCESS, result.Result)
	require.True(t, result.Applied)
	require.Equal(t, uint64(10), result.Fee)

	clock.Advance(10 * time.Second)
	closed, err := m.Accept()
	require.NoError(t, err)
	require.Equal(t, uint32(2), closed.Sequence())
	require.Equal(t, clock.Now().Unix(), closed.Header.CloseTime)
	require.Len(t, closed.Txns, 1)
	require.Equal(t, result.TxHash, closed.Txns[0].Hash)
	require.Equal(t, uint64(10), closed.Header.FeesDestroyed)

	// The chain advances
	require.Equal(t, uint32(3), m.OpenLedger().Sequence())
	require.Equal(t, closed, m.ClosedLedger())
}

func TestManagerRejectedTxnNotRecorded(t *testing.T) {
	m, _ := newManager(t)
	dest := sle.ID{0x42}

	// Wrong sequence never lands in the transaction list
	result, err := m.Submit(masterPayment(99, dest, 1_000))
	require.NoError(t, err)
	require.Equal(t, tx.TerPRE_SEQ, result.Result)
	require.False(t, result.Applied)

	closed, err := m.Accept()
	require.NoError(t, err)
	require.Empty(t, closed.Txns)
}

func TestManagerLookup(t *testing.T) {
	m, clock := newManager(t)

	genesisLedger := m.ClosedLedger()
	clock.Advance(time.Second)
	second, err := m.Accept()
	require.NoError(t, err)

	bySeq, err := m.GetLedgerBySequence(2)
	require.NoError(t, err)
	require.Equal(t, second, bySeq)

	byHash, err := m.GetLedgerByHash(genesisLedger.Hash())
	require.NoError(t, err)
	require.Equal(t, genesisLedger, byHash)

	_, err = m.GetLedgerBySequence(99)
	require.ErrorIs(t, err, manager.ErrLedgerNotFound)

	_, err = m.GetLedgerByHash([32]byte{0xff})
	require.ErrorIs(t, err, manager.ErrLedgerNotFound)
}

func TestManagerPersistence(t *testing.T) {
	dbm := pebble.NewManager(t.TempDir())
	defer dbm.Close()
	db, err := dbm.OpenDB("ledger")
	require.NoError(t, err)

	clock := jtx.NewManualClock()
	m, err := manager.New(db, registry.New(), manager.Config{
		CacheSize: 1, // force storage reads
		Clock:     clock,
		Genesis:   genesis.Config{CloseTime: clock.Now()},
	})
	require.NoError(t, err)

	dest := sle.ID{0x42}
	result, err := m.Submit(masterPayment(1, dest, 1_000))
	require.NoError(t, err)
	require.True(t, result.Applied)

	clock.Advance(time.Second)
	second, err := m.Accept()
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = m.Accept()
	require.NoError(t, err)

	// The genesis ledger fell out of the single-entry cache; this read
	// comes back from pebble
	loaded, err := m.GetLedgerBySequence(1)
	require.NoError(t, err)
	require.Equal(t, uint32(1), loaded.Sequence())
	require.True(t, loaded.Header.Closed)

	loaded, err = m.GetLedgerBySequence(2)
	require.NoError(t, err)
	require.Equal(t, second.Hash(), loaded.Hash())
	require.Equal(t, second.Header.StateHash, loaded.State.Hash())
	require.Len(t, loaded.Txns, 1)
	require.Equal(t, result.TxHash, loaded.Txns[0].Hash)

	byHash, err := m.GetLedgerByHash(second.Hash())
	require.NoError(t, err)
	require.Equal(t, second.Sequence(), byHash.Sequence())
}
