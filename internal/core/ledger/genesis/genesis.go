// Package genesis builds the first ledger: a single master account holding
// the full supply.
package genesis

import (
	"time"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/tx/sle"
)

// DefaultSupply is the full initial supply in base units
const DefaultSupply uint64 = 100_000_000_000_000_000

// MasterAccountID is the well-known identity holding the genesis supply
var MasterAccountID = sle.ID{0x01}

// Config controls genesis ledger creation
type Config struct {
	// Master is the account funded with the initial supply;
	// defaults to MasterAccountID
	Master sle.ID

	// Supply is the initial supply; defaults to DefaultSupply
	Supply uint64

	// CloseTime is the genesis close time; defaults to now
	CloseTime time.Time
}

// Create builds and closes the genesis ledger
func Create(cfg Config) (*ledger.Ledger, error) {
	master := cfg.Master
	if master.IsZero() {
		master = MasterAccountID
	}
	supply := cfg.Supply
	if supply == 0 {
		supply = DefaultSupply
	}
	closeTime := cfg.CloseTime
	if closeTime.IsZero() {
		closeTime = time.Now()
	}

	state := ledger.NewStateMap()

	rootData, err := sle.SerializeAccountRoot(sle.NewAccountRoot(master, supply))
	if err != nil {
		return nil, err
	}
	if err := state.Insert(keylet.Account([32]byte(master)), rootData); err != nil {
		return nil, err
	}

	l := &ledger.Ledger{
		Header: ledger.Header{Sequence: 1},
		State:  state,
	}
	if err := l.Close(closeTime); err != nil {
		return nil, err
	}

	return l, nil
}
