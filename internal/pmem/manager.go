// Package pmem partitions a byte-addressed persistent store into a small,
// fixed number of independent regions, each addressed by a single byte ID.
// It is the bottom of the dependency stack: every stable container in
// internal/stable is built on top of a region handed out by a Manager.
//
// Durability is provided the same way the teacher ledger provides it for its
// in-memory state map: an append-only write-ahead log of mutations plus a
// periodic full snapshot, replayed on open. The actual paged persistent
// memory a production deployment would run on is supplied by the host
// runtime and is out of scope here (see SPEC_FULL.md §1); this package
// stands in for it with an ordinary file pair so the rest of the engine can
// be built and tested without that host.
package pmem

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// MaxRegions bounds the number of independent regions a Manager can hand
// out, matching the spec's 256-region address space (region IDs are a
// single byte).
const MaxRegions = 256

// walRecord is one line of the write-ahead log: a full replacement of a
// region's contents. Regions in this engine are always rewritten whole
// (they hold a handful of maps, never raw page ranges), so record-level
// diffing buys nothing over replacing the region's JSON blob each mutation.
type walRecord struct {
	Region uint8  `json:"region"`
	Data   []byte `json:"data"`
}

// Manager owns the regions and the files backing their durability.
type Manager struct {
	mu      sync.Mutex
	regions [MaxRegions][]byte
	used    [MaxRegions]bool

	walPath      string
	snapshotPath string
	wal          *os.File
}

// Open creates or reattaches a Manager backed by walPath and snapshotPath.
// If a snapshot exists it is loaded first, then any WAL records appended
// after that snapshot are replayed on top of it, mirroring NewLedger's
// "load snapshot, then replay WAL" sequence in the teacher codebase.
func Open(walPath, snapshotPath string) (*Manager, error) {
	m := &Manager{walPath: walPath, snapshotPath: snapshotPath}

	if f, err := os.Open(snapshotPath); err == nil {
		defer f.Close()
		var snap map[uint8][]byte
		if err := json.NewDecoder(f).Decode(&snap); err != nil {
			return nil, fmt.Errorf("pmem: decode snapshot: %w", err)
		}
		for id, data := range snap {
			m.regions[id] = data
			m.used[id] = true
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("pmem: open snapshot: %w", err)
	}

	wal, err := os.OpenFile(walPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("pmem: open wal: %w", err)
	}
	m.wal = wal

	scanner := bufio.NewScanner(wal)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		var rec walRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			wal.Close()
			return nil, fmt.Errorf("pmem: wal replay: %w", err)
		}
		m.regions[rec.Region] = rec.Data
		m.used[rec.Region] = true
	}
	if err := scanner.Err(); err != nil {
		wal.Close()
		return nil, fmt.Errorf("pmem: wal scan: %w", err)
	}
	return m, nil
}

// OpenMemory creates a Manager with no disk backing, useful for tests.
// Writes are not durable.
func OpenMemory() *Manager {
	return &Manager{}
}

// Region returns the current raw bytes assigned to id, or nil if unused.
func (m *Manager) Region(id uint8) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regions[id]
}

// SetRegion replaces the bytes held by region id and, if the Manager is
// disk-backed, appends the replacement to the WAL before returning.
// Reserved IDs (see SPEC_FULL.md §4.A) are accepted here without
// complaint; the region table itself has no notion of which IDs the
// ledger engine has chosen to use versus left reserved.
func (m *Manager) SetRegion(id uint8, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cpy := make([]byte, len(data))
	copy(cpy, data)

	if m.wal != nil {
		raw, err := json.Marshal(walRecord{Region: id, Data: cpy})
		if err != nil {
			return fmt.Errorf("pmem: marshal wal record: %w", err)
		}
		if _, err := m.wal.Write(append(raw, '\n')); err != nil {
			return fmt.Errorf("pmem: write wal: %w", err)
		}
	}
	m.regions[id] = cpy
	m.used[id] = true
	return nil
}

// Snapshot writes the full region table to the snapshot file and truncates
// the WAL, the same coalescing step the teacher's ledger performs
// periodically to keep its WAL from growing without bound.
func (m *Manager) Snapshot() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshotPath == "" {
		return nil
	}
	snap := make(map[uint8][]byte, MaxRegions)
	for id := 0; id < MaxRegions; id++ {
		if m.used[id] {
			snap[uint8(id)] = m.regions[id]
		}
	}
	tmp := m.snapshotPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("pmem: create snapshot: %w", err)
	}
	if err := json.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		return fmt.Errorf("pmem: encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pmem: close snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.snapshotPath); err != nil {
		return fmt.Errorf("pmem: rename snapshot: %w", err)
	}
	if m.wal != nil {
		if err := m.wal.Truncate(0); err != nil {
			return fmt.Errorf("pmem: truncate wal: %w", err)
		}
		if _, err := m.wal.Seek(0, 0); err != nil {
			return fmt.Errorf("pmem: seek wal: %w", err)
		}
	}
	return nil
}

// Close flushes a final snapshot and releases the WAL file handle.
func (m *Manager) Close() error {
	if err := m.Snapshot(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wal != nil {
		return m.wal.Close()
	}
	return nil
}

// StorageStats reports the byte size of every region currently in use,
// backing the get_storage_stats query (SPEC_FULL.md §4.G).
func (m *Manager) StorageStats() map[uint8]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := make(map[uint8]int)
	for id := 0; id < MaxRegions; id++ {
		if m.used[id] {
			stats[uint8(id)] = len(m.regions[id])
		}
	}
	return stats
}
