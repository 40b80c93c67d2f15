package protocol

// makeHashPrefix combines three ASCII characters into a 4-byte prefix with
// the last byte set to zero.
func makeHashPrefix(a, b, c byte) [4]byte {
	return [4]byte{a, b, c, 0}
}

// HashPrefix constants separate the hash domains of different objects.
var (
	HashPrefixTransactionID = makeHashPrefix('T', 'X', 'N') // Transaction ID
	HashPrefixLedgerHeader  = makeHashPrefix('L', 'G', 'R') // Ledger header
)
