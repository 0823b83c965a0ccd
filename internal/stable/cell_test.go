package stable

import (
	"testing"

	"synnergy-multiledger/internal/pmem"
)

// TestCellDefaultZero verifies a freshly opened cell reads as zero.
func TestCellDefaultZero(t *testing.T) {
	c, err := OpenCell(pmem.OpenMemory(), 9)
	if err != nil {
		t.Fatalf("OpenCell: %v", err)
	}
	if c.Get() != 0 {
		t.Fatalf("Get() = %d, want 0", c.Get())
	}
}

// TestCellSetGet verifies Set is reflected by a subsequent Get.
func TestCellSetGet(t *testing.T) {
	c, _ := OpenCell(pmem.OpenMemory(), 9)
	if err := c.Set(42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c.Get() != 42 {
		t.Fatalf("Get() = %d, want 42", c.Get())
	}
}

// TestCellPersistsAcrossReopen ensures the counter survives a reopen
// against the same region.
func TestCellPersistsAcrossReopen(t *testing.T) {
	mgr := pmem.OpenMemory()
	c, _ := OpenCell(mgr, 9)
	_ = c.Set(7)

	c2, err := OpenCell(mgr, 9)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if c2.Get() != 7 {
		t.Fatalf("Get() = %d, want 7", c2.Get())
	}
}
