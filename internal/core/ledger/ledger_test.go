package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLedger() *Ledger {
	s := NewStateMap()
	return &Ledger{
		Header: Header{Sequence: 1},
		State:  s,
	}
}

func TestLedgerClose(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.State.Insert(testKeylet(1), []byte("a")))
	l.State.AdjustFeesDestroyed(30)

	require.Equal(t, [32]byte{}, l.Hash(), "open ledger has no hash")

	closeTime := time.Unix(1_700_000_000, 0)
	require.NoError(t, l.Close(closeTime))

	require.True(t, l.Header.Closed)
	require.Equal(t, closeTime.Unix(), l.Header.CloseTime)
	require.Equal(t, uint64(30), l.Header.FeesDestroyed)
	require.Equal(t, l.State.Hash(), l.Header.StateHash)
	require.NotEqual(t, [32]byte{}, l.Hash())

	// Closing twice is an error
	require.ErrorIs(t, l.Close(closeTime), ErrAlreadyClosed)
}

func TestLedgerNewOpen(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.State.Insert(testKeylet(1), []byte("a")))

	// The successor requires a closed parent
	_, err := l.NewOpen()
	require.ErrorIs(t, err, ErrNotClosed)

	require.NoError(t, l.Close(time.Unix(1_700_000_000, 0)))

	next, err := l.NewOpen()
	require.NoError(t, err)
	require.Equal(t, l.Sequence()+1, next.Sequence())
	require.Equal(t, l.Hash(), next.Header.ParentHash)
	require.False(t, next.Header.Closed)

	// The successor state starts as a copy of the parent
	data, err := next.State.Read(testKeylet(1))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), data)

	// Mutating the successor leaves the closed parent intact
	require.NoError(t, next.State.Update(testKeylet(1), []byte("b")))
	parentData, err := l.State.Read(testKeylet(1))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), parentData)
}

func TestHeaderHashCommitsToContents(t *testing.T) {
	a := newTestLedger()
	b := newTestLedger()
	require.NoError(t, a.State.Insert(testKeylet(1), []byte("x")))
	require.NoError(t, b.State.Insert(testKeylet(1), []byte("x")))

	closeTime := time.Unix(1_700_000_000, 0)
	require.NoError(t, a.Close(closeTime))
	require.NoError(t, b.Close(closeTime))
	require.Equal(t, a.Hash(), b.Hash())

	// A different close time yields a different hash
	c := newTestLedger()
	require.NoError(t, c.State.Insert(testKeylet(1), []byte("x")))
	require.NoError(t, c.Close(closeTime.Add(time.Second)))
	require.NotEqual(t, a.Hash(), c.Hash())
}
