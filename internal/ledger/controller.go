package ledger

import (
	"bytes"
	"sync"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/pmem"
	"synnergy-multiledger/internal/stable"
)

// RegionControllers is the persistent-memory region ID for the controller
// set (SPEC_FULL.md §4.A).
const RegionControllers uint8 = 2

// Controllers maintains the non-empty set of controller principals with a
// distinguished primary, grounded on the teacher's AccessController
// (access_control.go) generalized from per-address roles to a single
// privileged set, and on its cached-then-persisted read pattern.
type Controllers struct {
	mu  sync.Mutex
	set *stable.OrderedMap
}

const (
	controllerFlagPlain   = 0
	controllerFlagPrimary = 1
)

// OpenControllers loads (or initialises) the controller set stored in
// RegionControllers. If the set is empty and genesisPrimary is non-empty,
// genesisPrimary is installed as the sole controller — the genesis
// bootstrap path.
func OpenControllers(mgr *pmem.Manager, genesisPrimary entity.Principal) (*Controllers, error) {
	om, err := stable.OpenOrderedMap(mgr, RegionControllers)
	if err != nil {
		return nil, err
	}
	c := &Controllers{set: om}
	if om.Len() == 0 && len(genesisPrimary) > 0 {
		if err := om.Insert(genesisPrimary, []byte{controllerFlagPrimary}); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// IsController reports whether p is a current controller.
func (c *Controllers) IsController(p entity.Principal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.set.Get(p)
	return ok
}

// AddController adds p to the controller set. Adding an existing
// controller is a no-op.
func (c *Controllers) AddController(p entity.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.set.Get(p); ok {
		return nil
	}
	return c.set.Insert(p, []byte{controllerFlagPlain})
}

// RemoveController removes p from the controller set. It fails with
// "Cannot remove the last controller" if p is the only remaining
// controller, or if removing it would empty the set.
func (c *Controllers) RemoveController(p entity.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.set.Get(p); !ok {
		return genericf("not a controller")
	}
	if c.set.Len() <= 1 {
		return genericf("Cannot remove the last controller")
	}
	return c.set.Remove(p)
}

// SetController replaces the primary controller with p, adding p to the
// set if it is not already a member.
func (c *Controllers) SetController(p entity.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var clearErr error
	c.set.Range(nil, nil, func(key, value []byte) bool {
		if value[0] == controllerFlagPrimary && !bytes.Equal(key, p) {
			clearErr = c.set.Insert(append([]byte(nil), key...), []byte{controllerFlagPlain})
			return clearErr == nil
		}
		return true
	})
	if clearErr != nil {
		return clearErr
	}
	return c.set.Insert(p, []byte{controllerFlagPrimary})
}

// ListControllers returns every current controller principal.
func (c *Controllers) ListControllers() []entity.Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []entity.Principal
	c.set.Range(nil, nil, func(key, value []byte) bool {
		out = append(out, append(entity.Principal(nil), key...))
		return true
	})
	return out
}
