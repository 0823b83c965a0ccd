package main

import (
	"testing"
	"time"

	"synnergy-multiledger/internal/pmem"
)

func TestGenesisPrincipalEmptyListIsNil(t *testing.T) {
	p, err := genesisPrincipal(nil)
	if err != nil {
		t.Fatalf("genesisPrincipal(nil): %v", err)
	}
	if p != nil {
		t.Fatalf("genesisPrincipal(nil) = %v, want nil", p)
	}
}

func TestGenesisPrincipalUsesFirstController(t *testing.T) {
	p, err := genesisPrincipal([]string{"aabb", "ccdd"})
	if err != nil {
		t.Fatalf("genesisPrincipal: %v", err)
	}
	if len(p) != 2 || p[0] != 0xaa || p[1] != 0xbb {
		t.Fatalf("genesisPrincipal = %x, want aabb", []byte(p))
	}
}

func TestGenesisPrincipalRejectsInvalidHex(t *testing.T) {
	if _, err := genesisPrincipal([]string{"zz"}); err == nil {
		t.Fatal("expected an error for invalid hex controller")
	}
}

func TestStartPeriodicSnapshotsZeroIntervalIsNoop(t *testing.T) {
	mgr := pmem.OpenMemory()
	stop := startPeriodicSnapshots(mgr, 0)
	stop() // must not panic or block
}

func TestStartPeriodicSnapshotsTicksAndStops(t *testing.T) {
	mgr := pmem.OpenMemory()
	stop := startPeriodicSnapshots(mgr, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	stop()
}
