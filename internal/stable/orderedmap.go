// Package stable implements the small set of persisted container types the
// ledger engine is built from: an ordered byte-lex map, a fixed-record
// append-only log, and a single-value cell. Each is backed by exactly one
// pmem.Manager region and keeps an in-memory mirror that is re-derived from
// the region's bytes on open and re-encoded into the region on every
// mutation, the same "decode whole, mutate, re-encode whole" shape the
// teacher's Ledger uses for its State map (see ledger.go's snapshot
// encode/decode and SetState/GetState pair).
package stable

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	"synnergy-multiledger/internal/pmem"
)

func init() {
	gob.Register([][]byte{})
}

// kv is one entry in the ordered map's on-disk representation.
type kv struct {
	Key   []byte
	Value []byte
}

// OrderedMap is a lexicographically ordered map over byte-slice keys,
// grounded on the teacher's PrefixIterator-backed State map (common_structs.go
// StateRW, ledger.go GetState/SetState/HasState/DeleteState) generalized
// into a standalone, directly range-queryable container.
type OrderedMap struct {
	mgr    *pmem.Manager
	region uint8

	// keys is always kept sorted; values is index-aligned with keys.
	keys   [][]byte
	values [][]byte
}

// OpenOrderedMap loads (or initialises) the ordered map stored in region id.
func OpenOrderedMap(mgr *pmem.Manager, region uint8) (*OrderedMap, error) {
	m := &OrderedMap{mgr: mgr, region: region}
	raw := mgr.Region(region)
	if len(raw) == 0 {
		return m, nil
	}
	var entries []kv
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("stable: decode ordered map region %d: %w", region, err)
	}
	m.keys = make([][]byte, len(entries))
	m.values = make([][]byte, len(entries))
	for i, e := range entries {
		m.keys[i] = e.Key
		m.values[i] = e.Value
	}
	return m, nil
}

func (m *OrderedMap) search(key []byte) (idx int, found bool) {
	idx = sort.Search(len(m.keys), func(i int) bool {
		return bytes.Compare(m.keys[i], key) >= 0
	})
	found = idx < len(m.keys) && bytes.Equal(m.keys[idx], key)
	return idx, found
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key []byte) ([]byte, bool) {
	idx, found := m.search(key)
	if !found {
		return nil, false
	}
	v := make([]byte, len(m.values[idx]))
	copy(v, m.values[idx])
	return v, true
}

// Insert sets key to value, overwriting any existing entry, and persists
// the map.
func (m *OrderedMap) Insert(key, value []byte) error {
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	idx, found := m.search(k)
	if found {
		m.values[idx] = v
	} else {
		m.keys = append(m.keys, nil)
		copy(m.keys[idx+1:], m.keys[idx:])
		m.keys[idx] = k

		m.values = append(m.values, nil)
		copy(m.values[idx+1:], m.values[idx:])
		m.values[idx] = v
	}
	return m.flush()
}

// Remove deletes key if present and persists the map. It is not an error
// to remove a missing key.
func (m *OrderedMap) Remove(key []byte) error {
	idx, found := m.search(key)
	if !found {
		return nil
	}
	m.keys = append(m.keys[:idx], m.keys[idx+1:]...)
	m.values = append(m.values[:idx], m.values[idx+1:]...)
	return m.flush()
}

// Range calls fn for every key k with from <= k < to, in ascending order.
// A nil from means "from the start"; a nil to means "to the end". Iteration
// stops early if fn returns false.
func (m *OrderedMap) Range(from, to []byte, fn func(key, value []byte) bool) {
	start := 0
	if from != nil {
		start = sort.Search(len(m.keys), func(i int) bool {
			return bytes.Compare(m.keys[i], from) >= 0
		})
	}
	for i := start; i < len(m.keys); i++ {
		if to != nil && bytes.Compare(m.keys[i], to) >= 0 {
			return
		}
		if !fn(m.keys[i], m.values[i]) {
			return
		}
	}
}

// Len returns the number of entries in the map.
func (m *OrderedMap) Len() int { return len(m.keys) }

func (m *OrderedMap) flush() error {
	entries := make([]kv, len(m.keys))
	for i := range m.keys {
		entries[i] = kv{Key: m.keys[i], Value: m.values[i]}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return fmt.Errorf("stable: encode ordered map region %d: %w", m.region, err)
	}
	return m.mgr.SetRegion(m.region, buf.Bytes())
}
