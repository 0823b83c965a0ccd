package stable

import (
	"bytes"
	"testing"

	"synnergy-multiledger/internal/pmem"
)

func rec(b byte) []byte {
	r := make([]byte, 8)
	r[0] = b
	return r
}

// TestLogAppendGet verifies indexed access returns exactly what was
// appended, in order.
func TestLogAppendGet(t *testing.T) {
	l, err := OpenLog(pmem.OpenMemory(), 3, 8)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	i0, err := l.Append(rec(1))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	i1, _ := l.Append(rec(2))
	if i0 != 0 || i1 != 1 {
		t.Fatalf("indices = %d, %d; want 0, 1", i0, i1)
	}
	got, err := l.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if !bytes.Equal(got, rec(1)) {
		t.Fatalf("Get(0) = %v, want %v", got, rec(1))
	}
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
}

// TestLogRejectsWrongRecordSize ensures Append enforces the fixed record
// width rather than silently padding or truncating.
func TestLogRejectsWrongRecordSize(t *testing.T) {
	l, _ := OpenLog(pmem.OpenMemory(), 3, 8)
	if _, err := l.Append([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for undersized record")
	}
}

// TestLogGetOutOfRange verifies Get rejects an index at or beyond Len.
func TestLogGetOutOfRange(t *testing.T) {
	l, _ := OpenLog(pmem.OpenMemory(), 3, 8)
	_, _ = l.Append(rec(1))
	if _, err := l.Get(1); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

// TestLogPersistsAcrossReopen ensures the region's raw bytes round-trip
// through OpenLog.
func TestLogPersistsAcrossReopen(t *testing.T) {
	mgr := pmem.OpenMemory()
	l, _ := OpenLog(mgr, 4, 8)
	_, _ = l.Append(rec(9))

	l2, err := OpenLog(mgr, 4, 8)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if l2.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l2.Len())
	}
}
