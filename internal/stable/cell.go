package stable

import (
	"encoding/binary"
	"fmt"

	"synnergy-multiledger/internal/pmem"
)

// Cell is a single persisted uint64 value with atomic replace, used for the
// global transaction counter (SPEC_FULL.md §3).
type Cell struct {
	mgr    *pmem.Manager
	region uint8
	value  uint64
}

// OpenCell loads (or initialises to zero) the value stored in region id.
func OpenCell(mgr *pmem.Manager, region uint8) (*Cell, error) {
	raw := mgr.Region(region)
	c := &Cell{mgr: mgr, region: region}
	switch len(raw) {
	case 0:
		c.value = 0
	case 8:
		c.value = binary.BigEndian.Uint64(raw)
	default:
		return nil, fmt.Errorf("stable: cell region %d has invalid length %d", region, len(raw))
	}
	return c, nil
}

// Get returns the current value.
func (c *Cell) Get() uint64 { return c.value }

// Set atomically replaces the value.
func (c *Cell) Set(v uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	if err := c.mgr.SetRegion(c.region, buf); err != nil {
		return err
	}
	c.value = v
	return nil
}
