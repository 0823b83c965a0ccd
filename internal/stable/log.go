package stable

import (
	"fmt"

	"synnergy-multiledger/internal/pmem"
)

// Log is an append-only log of fixed-size records, grounded on the spec's
// requirement (§4.B) that indexed random access into the transaction history
// be O(1): records are stored back-to-back in a single contiguous region, so
// Get(i) is a direct offset multiply with no scan.
type Log struct {
	mgr        *pmem.Manager
	region     uint8
	recordSize int
	data       []byte
}

// OpenLog loads (or initialises) the fixed-recordSize log stored in region
// id. recordSize must match across every Open call against the same region;
// a mismatched length indicates on-disk corruption or a programming error
// and is reported rather than silently truncated or padded.
func OpenLog(mgr *pmem.Manager, region uint8, recordSize int) (*Log, error) {
	raw := mgr.Region(region)
	if len(raw)%recordSize != 0 {
		return nil, fmt.Errorf("stable: log region %d length %d not a multiple of record size %d", region, len(raw), recordSize)
	}
	l := &Log{mgr: mgr, region: region, recordSize: recordSize}
	l.data = append([]byte(nil), raw...)
	return l, nil
}

// Append writes rec as the next record and returns its index.
func (l *Log) Append(rec []byte) (uint64, error) {
	if len(rec) != l.recordSize {
		return 0, fmt.Errorf("stable: log record size %d, want %d", len(rec), l.recordSize)
	}
	index := uint64(len(l.data) / l.recordSize)
	l.data = append(l.data, rec...)
	if err := l.mgr.SetRegion(l.region, l.data); err != nil {
		l.data = l.data[:len(l.data)-l.recordSize]
		return 0, err
	}
	return index, nil
}

// Get returns the record at index.
func (l *Log) Get(index uint64) ([]byte, error) {
	if index >= l.Len() {
		return nil, fmt.Errorf("stable: log index %d out of range (len %d)", index, l.Len())
	}
	start := int(index) * l.recordSize
	rec := make([]byte, l.recordSize)
	copy(rec, l.data[start:start+l.recordSize])
	return rec, nil
}

// Len returns the number of records currently stored.
func (l *Log) Len() uint64 { return uint64(len(l.data) / l.recordSize) }
