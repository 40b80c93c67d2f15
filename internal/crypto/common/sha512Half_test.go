package crypto

import (
	"crypto/sha512"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSha512Half(t *testing.T) {
	full := sha512.Sum512([]byte("fakeRandomString"))
	var want [32]byte
	copy(want[:], full[:32])

	got := Sha512Half([]byte("fakeRandomString"))
	require.Equal(t, want, got)

	// Concatenation must hash the same as a single joined input.
	split := Sha512Half([]byte("fakeRandom"), []byte("String"))
	require.Equal(t, want, split)
}
