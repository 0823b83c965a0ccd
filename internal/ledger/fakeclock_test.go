package ledger

import (
	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/pmem"
)

// fakeClock is a fixed/advanceable Clock for deterministic tests, standing
// in for SystemClock the way the spec's §6 "Time" seam intends.
type fakeClock struct{ now uint64 }

func (c *fakeClock) Now() uint64 { return c.now }

// newTestLedger opens an in-memory Ledger (no disk backing) with genesis
// as the sole controller and a fake clock fixed at an arbitrary instant.
func newTestLedger(genesis entity.Principal) (*Ledger, *fakeClock) {
	mgr := pmem.OpenMemory()
	clock := &fakeClock{now: 1_700_000_000_000_000_000}
	l, err := Open(mgr, genesis, clock)
	if err != nil {
		panic(err)
	}
	return l, clock
}
