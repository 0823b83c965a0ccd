package ledger

import (
	"testing"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/pmem"
)

// TestControllersGenesisBootstrap verifies a fresh region installs the
// genesis primary as the sole controller.
func TestControllersGenesisBootstrap(t *testing.T) {
	mgr := pmem.OpenMemory()
	genesis := entity.Principal{1, 2, 3}
	c, err := OpenControllers(mgr, genesis)
	if err != nil {
		t.Fatalf("OpenControllers: %v", err)
	}
	if !c.IsController(genesis) {
		t.Fatalf("genesis principal should be a controller")
	}
	if got := c.ListControllers(); len(got) != 1 {
		t.Fatalf("len(ListControllers) = %d, want 1", len(got))
	}
}

// TestCannotRemoveLastController verifies the sole invariant named in
// SPEC_FULL.md §4.D.
func TestCannotRemoveLastController(t *testing.T) {
	mgr := pmem.OpenMemory()
	genesis := entity.Principal{1}
	c, _ := OpenControllers(mgr, genesis)
	if err := c.RemoveController(genesis); err == nil {
		t.Fatalf("expected error removing the last controller")
	}
	if !c.IsController(genesis) {
		t.Fatalf("genesis should still be a controller after failed removal")
	}
}

// TestAddThenRemoveController verifies removal succeeds once more than one
// controller exists.
func TestAddThenRemoveController(t *testing.T) {
	mgr := pmem.OpenMemory()
	genesis := entity.Principal{1}
	second := entity.Principal{2}
	c, _ := OpenControllers(mgr, genesis)
	if err := c.AddController(second); err != nil {
		t.Fatalf("AddController: %v", err)
	}
	if err := c.RemoveController(genesis); err != nil {
		t.Fatalf("RemoveController: %v", err)
	}
	if c.IsController(genesis) {
		t.Fatalf("genesis should no longer be a controller")
	}
	if !c.IsController(second) {
		t.Fatalf("second should remain a controller")
	}
}

// TestSetControllerMovesPrimary verifies SetController both adds a new
// principal and demotes the previous primary rather than removing it.
func TestSetControllerMovesPrimary(t *testing.T) {
	mgr := pmem.OpenMemory()
	genesis := entity.Principal{1}
	next := entity.Principal{2}
	c, _ := OpenControllers(mgr, genesis)
	if err := c.SetController(next); err != nil {
		t.Fatalf("SetController: %v", err)
	}
	if !c.IsController(genesis) || !c.IsController(next) {
		t.Fatalf("both old and new primary should remain controllers")
	}
	if got := len(c.ListControllers()); got != 2 {
		t.Fatalf("len(ListControllers) = %d, want 2", got)
	}
}
