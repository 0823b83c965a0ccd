package pmem

import (
	"os"
	"path/filepath"
	"testing"
)

// TestSetRegionRoundTrip ensures a written region reads back unchanged.
func TestSetRegionRoundTrip(t *testing.T) {
	m := OpenMemory()
	if err := m.SetRegion(3, []byte("hello")); err != nil {
		t.Fatalf("SetRegion: %v", err)
	}
	if got := m.Region(3); string(got) != "hello" {
		t.Fatalf("Region(3) = %q, want %q", got, "hello")
	}
}

// TestWALReplay verifies a Manager reopened from disk recovers every
// region written before Close.
func TestWALReplay(t *testing.T) {
	dir := t.TempDir()
	wal := filepath.Join(dir, "ledger.wal")
	snap := filepath.Join(dir, "ledger.snap")

	m, err := Open(wal, snap)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := m.SetRegion(0, []byte("tokens")); err != nil {
		t.Fatalf("SetRegion: %v", err)
	}
	if err := m.SetRegion(1, []byte("balances")); err != nil {
		t.Fatalf("SetRegion: %v", err)
	}
	if err := m.wal.Close(); err != nil {
		t.Fatalf("close wal: %v", err)
	}

	m2, err := Open(wal, snap)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if string(m2.Region(0)) != "tokens" || string(m2.Region(1)) != "balances" {
		t.Fatalf("replay mismatch: region0=%q region1=%q", m2.Region(0), m2.Region(1))
	}
}

// TestSnapshotTruncatesWAL ensures a snapshot survives a WAL truncation and
// that region IDs written before the snapshot are still present after
// reopening.
func TestSnapshotTruncatesWAL(t *testing.T) {
	dir := t.TempDir()
	wal := filepath.Join(dir, "ledger.wal")
	snap := filepath.Join(dir, "ledger.snap")

	m, err := Open(wal, snap)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := m.SetRegion(9, []byte{0, 0, 0, 0, 0, 0, 0, 1}); err != nil {
		t.Fatalf("SetRegion: %v", err)
	}
	if err := m.Snapshot(); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	info, err := os.Stat(wal)
	if err != nil {
		t.Fatalf("stat wal: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("wal size = %d, want 0 after snapshot", info.Size())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m2, err := Open(wal, snap)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(m2.Region(9)) != 8 {
		t.Fatalf("region 9 length = %d, want 8", len(m2.Region(9)))
	}
}

// TestStorageStats reports only regions actually in use.
func TestStorageStats(t *testing.T) {
	m := OpenMemory()
	_ = m.SetRegion(0, []byte("abc"))
	_ = m.SetRegion(3, []byte("de"))
	stats := m.StorageStats()
	if len(stats) != 2 {
		t.Fatalf("StorageStats len = %d, want 2", len(stats))
	}
	if stats[0] != 3 || stats[3] != 2 {
		t.Fatalf("StorageStats = %v", stats)
	}
}
