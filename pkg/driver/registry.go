package driver

import (
	"sync"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
)

// Registry holds the set of drivers loaded into the gateway and
// resolves which one owns a newly discovered device.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	drivers map[string]Driver
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register adds a driver under its own Name(). Registration order is
// preserved and used as the tie-break for ClaimDevice resolution.
func (r *Registry) Register(d Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := d.Name()
	if _, exists := r.drivers[name]; exists {
		return gwerrors.New(gwerrors.InvalidArg, "driver already registered: "+name)
	}
	r.drivers[name] = d
	r.order = append(r.order, name)
	return nil
}

// Get returns the driver registered under name.
func (r *Registry) Get(name string) (Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[name]
	return d, ok
}

// All returns every registered driver in registration order.
func (r *Registry) All() []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Driver, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.drivers[name])
	}
	return out
}

// ClaimDevice asks each registered driver, in registration order,
// whether it claims details. The first driver to return true from
// ClaimDevice wins; ties (only possible if two drivers would both
// claim) are broken by registration order, i.e. first registered
// wins.
func (r *Registry) ClaimDevice(details DeviceFoundDetails) (Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		d := r.drivers[name]
		if d.ClaimDevice(details) {
			return d, true
		}
	}
	return nil, false
}
