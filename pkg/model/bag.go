package model

// EmptySentinel is the resource value materialized when a key is
// present in the bag but its value is NULL ("create the resource but
// unknown initial content").
const EmptySentinel = ""

// entry distinguishes "absent" (no map key at all) from "present with
// NULL value" (map key present, value nil).
type entry struct {
	value *string
}

// InitialResourceValues is the scratch bag a driver populates during
// discovery (spec §4.C / §4.F step 4) to decide which resources get
// materialized during registration and with what seed value.
//
// A present key with a nil value means "create the resource but
// unknown initial content"; an absent key means the resource must not
// be created.
type InitialResourceValues struct {
	device    map[string]entry
	endpoints map[string]map[string]entry
}

// NewInitialResourceValues returns an empty bag.
func NewInitialResourceValues() *InitialResourceValues {
	return &InitialResourceValues{
		device:    make(map[string]entry),
		endpoints: make(map[string]map[string]entry),
	}
}

// Put sets (replacing any existing entry) the device-level value for
// resourceID.
func (b *InitialResourceValues) Put(resourceID, value string) {
	b.device[resourceID] = entry{value: &value}
}

// PutNull marks resourceID present with unknown (NULL) initial value.
func (b *InitialResourceValues) PutNull(resourceID string) {
	b.device[resourceID] = entry{value: nil}
}

// PutIfAbsent sets the device-level value for resourceID only if no
// entry yet exists. Returns true if it set the value.
func (b *InitialResourceValues) PutIfAbsent(resourceID, value string) bool {
	if _, ok := b.device[resourceID]; ok {
		return false
	}
	b.Put(resourceID, value)
	return true
}

// Get returns the device-level entry for resourceID: present reports
// whether the key exists at all; isNull reports whether it exists with
// a NULL value.
func (b *InitialResourceValues) Get(resourceID string) (value string, present bool, isNull bool) {
	e, ok := b.device[resourceID]
	if !ok {
		return "", false, false
	}
	if e.value == nil {
		return "", true, true
	}
	return *e.value, true, false
}

// PutEndpoint sets (replacing) the value for resourceID under endpointID.
func (b *InitialResourceValues) PutEndpoint(endpointID, resourceID, value string) {
	m, ok := b.endpoints[endpointID]
	if !ok {
		m = make(map[string]entry)
		b.endpoints[endpointID] = m
	}
	m[resourceID] = entry{value: &value}
}

// PutEndpointNull marks resourceID under endpointID present with NULL value.
func (b *InitialResourceValues) PutEndpointNull(endpointID, resourceID string) {
	m, ok := b.endpoints[endpointID]
	if !ok {
		m = make(map[string]entry)
		b.endpoints[endpointID] = m
	}
	m[resourceID] = entry{value: nil}
}

// PutEndpointIfAbsent sets the value under endpointID/resourceID only
// if absent. Returns true if it set the value.
func (b *InitialResourceValues) PutEndpointIfAbsent(endpointID, resourceID, value string) bool {
	if m, ok := b.endpoints[endpointID]; ok {
		if _, ok := m[resourceID]; ok {
			return false
		}
	}
	b.PutEndpoint(endpointID, resourceID, value)
	return true
}

// GetEndpoint returns the entry for resourceID under endpointID.
func (b *InitialResourceValues) GetEndpoint(endpointID, resourceID string) (value string, present bool, isNull bool) {
	m, ok := b.endpoints[endpointID]
	if !ok {
		return "", false, false
	}
	e, ok := m[resourceID]
	if !ok {
		return "", false, false
	}
	if e.value == nil {
		return "", true, true
	}
	return *e.value, true, false
}

// CreateDeviceResourceIfAvailable creates and attaches a device-level
// resource on d only if resourceID is present in the bag; returns nil
// if the key is absent (skip), matching the endpoint-level helper's
// contract.
func CreateDeviceResourceIfAvailable(d *Device, bag *InitialResourceValues, resourceID, resourceType string, mode ResourceMode, caching CachingPolicy) *Resource {
	value, present, isNull := bag.Get(resourceID)
	if !present {
		return nil
	}
	if isNull {
		value = EmptySentinel
	}
	r := &Resource{ID: resourceID, Type: resourceType, Value: value, Mode: mode, CachingPolicy: caching}
	d.AddDeviceResource(r)
	return r
}

// CreateEndpointResourceIfAvailable creates and attaches a resource on
// endpoint e only if endpointID/resourceID is present in the bag
// (spec §4.F step 5): returns nil if the key is absent (skip); creates
// the resource with the bag's value, or EmptySentinel for a
// present-but-null entry, if the key is present.
func CreateEndpointResourceIfAvailable(e *Endpoint, bag *InitialResourceValues, resourceID, resourceType string, mode ResourceMode, caching CachingPolicy) *Resource {
	value, present, isNull := bag.GetEndpoint(e.ID, resourceID)
	if !present {
		return nil
	}
	if isNull {
		value = EmptySentinel
	}
	r := &Resource{ID: resourceID, Type: resourceType, Value: value, Mode: mode, CachingPolicy: caching}
	e.AddResource(r)
	return r
}
