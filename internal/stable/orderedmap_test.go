package stable

import (
	"bytes"
	"testing"

	"synnergy-multiledger/internal/pmem"
)

// TestOrderedMapInsertGet ensures Insert and Get round-trip a value.
func TestOrderedMapInsertGet(t *testing.T) {
	m, err := OpenOrderedMap(pmem.OpenMemory(), 1)
	if err != nil {
		t.Fatalf("OpenOrderedMap: %v", err)
	}
	if err := m.Insert([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	v, ok := m.Get([]byte("k1"))
	if !ok || string(v) != "v1" {
		t.Fatalf("Get = %q, %v; want v1, true", v, ok)
	}
}

// TestOrderedMapOverwrite ensures a second Insert on the same key replaces
// the value rather than duplicating the entry.
func TestOrderedMapOverwrite(t *testing.T) {
	m, _ := OpenOrderedMap(pmem.OpenMemory(), 1)
	_ = m.Insert([]byte("k"), []byte("v1"))
	_ = m.Insert([]byte("k"), []byte("v2"))
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	v, _ := m.Get([]byte("k"))
	if string(v) != "v2" {
		t.Fatalf("Get = %q, want v2", v)
	}
}

// TestOrderedMapRemove verifies removal and that removing a missing key
// is a no-op rather than an error.
func TestOrderedMapRemove(t *testing.T) {
	m, _ := OpenOrderedMap(pmem.OpenMemory(), 1)
	_ = m.Insert([]byte("k"), []byte("v"))
	if err := m.Remove([]byte("k")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := m.Get([]byte("k")); ok {
		t.Fatalf("key still present after Remove")
	}
	if err := m.Remove([]byte("missing")); err != nil {
		t.Fatalf("Remove missing key returned error: %v", err)
	}
}

// TestOrderedMapRangeIsLexOrdered verifies Range yields keys in ascending
// byte-lex order and respects the [from, to) bounds, exercising the
// "contiguous range per token prefix" property holder enumeration relies on.
func TestOrderedMapRangeIsLexOrdered(t *testing.T) {
	m, _ := OpenOrderedMap(pmem.OpenMemory(), 1)
	keys := [][]byte{{2, 0}, {1, 0}, {1, 1}, {3, 0}}
	for _, k := range keys {
		_ = m.Insert(k, []byte{1})
	}
	var got [][]byte
	m.Range([]byte{1, 0}, []byte{3, 0}, func(k, v []byte) bool {
		got = append(got, append([]byte(nil), k...))
		return true
	})
	want := [][]byte{{1, 0}, {1, 1}, {2, 0}}
	if len(got) != len(want) {
		t.Fatalf("Range returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Fatalf("Range()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestOrderedMapPersistsAcrossReopen ensures the in-memory mirror is
// rebuilt correctly from a region's encoded bytes.
func TestOrderedMapPersistsAcrossReopen(t *testing.T) {
	mgr := pmem.OpenMemory()
	m, _ := OpenOrderedMap(mgr, 5)
	_ = m.Insert([]byte("a"), []byte("1"))
	_ = m.Insert([]byte("b"), []byte("2"))

	m2, err := OpenOrderedMap(mgr, 5)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if m2.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m2.Len())
	}
	v, ok := m2.Get([]byte("b"))
	if !ok || string(v) != "2" {
		t.Fatalf("Get(b) = %q, %v", v, ok)
	}
}
