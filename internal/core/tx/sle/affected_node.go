package sle

// AffectedNode describes one ledger entry touched by a transaction,
// reported in transaction metadata.
type AffectedNode struct {
	// NodeType is "CreatedNode", "ModifiedNode", or "DeletedNode"
	NodeType string `json:"-"`

	// LedgerEntryType names the entry type
	LedgerEntryType string `json:"LedgerEntryType"`

	// LedgerIndex is the hex-encoded entry key
	LedgerIndex string `json:"LedgerIndex"`

	// NewFields holds the created entry's fields (CreatedNode only)
	NewFields map[string]any `json:"NewFields,omitempty"`

	// FinalFields holds the entry's fields after the transaction
	// (ModifiedNode and DeletedNode)
	FinalFields map[string]any `json:"FinalFields,omitempty"`

	// PreviousFields holds the changed fields' prior values (ModifiedNode)
	PreviousFields map[string]any `json:"PreviousFields,omitempty"`
}
