// Package model defines the device → endpoint → resource → metadata
// graph that every other component in the gateway addresses, reads,
// writes, and executes against.
package model

import "fmt"

// ResourceMode is a bit set over the access/behavior flags a resource
// may carry.
type ResourceMode uint8

const (
	Readable     ResourceMode = 1 << iota // READABLE
	Writeable                             // WRITEABLE
	Dynamic                               // DYNAMIC
	EmitEvents                            // EMIT_EVENTS
	LazySaveNext                          // LAZY_SAVE_NEXT
)

// Has reports whether all bits in want are set in m.
func (m ResourceMode) Has(want ResourceMode) bool { return m&want == want }

// CachingPolicy governs whether a resource's last-known value is served
// from cache or always re-read from its managing driver.
type CachingPolicy uint8

const (
	CacheNever CachingPolicy = iota
	CacheAlways
)

// Metadata is an opaque name -> value string pair attached to a device
// or endpoint, individually addressable by URI.
type Metadata struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Resource is a named, typed, possibly-writable value on a device or
// endpoint.
type Resource struct {
	ID                  string        `json:"id"`
	Type                string        `json:"type"`
	Value               string        `json:"value"`
	Mode                ResourceMode  `json:"mode"`
	CachingPolicy       CachingPolicy `json:"cachingPolicy"`
	DateOfLastSyncMilli int64         `json:"dateOfLastSyncMillis"`
	OwnerURI            string        `json:"ownerUri"`
}

// URI returns the canonical resource address: owner.uri + "/r/<id>".
func (r *Resource) URI() string {
	return r.OwnerURI + "/r/" + r.ID
}

// Endpoint is an addressable sub-unit of a device.
type Endpoint struct {
	ID             string               `json:"id"`
	Profile        string               `json:"profile"`
	ProfileVersion int                  `json:"profileVersion"`
	Enabled        bool                 `json:"enabled"`
	Resources      []*Resource          `json:"resources"`
	Metadata       map[string]*Metadata `json:"metadata"`
	DeviceURI      string               `json:"deviceUri"`
}

// URI returns the canonical endpoint address: device.uri + "/ep/<id>".
func (e *Endpoint) URI() string {
	return e.DeviceURI + "/ep/" + e.ID
}

// Resource looks up a resource owned directly by this endpoint by id.
func (e *Endpoint) Resource(id string) (*Resource, bool) {
	for _, r := range e.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Device is the top-level unit in the graph: a physical or logical
// smart-home device normalized into endpoints and resources.
type Device struct {
	UUID               string               `json:"uuid"`
	DeviceClass        string               `json:"deviceClass"`
	DeviceClassVersion int                  `json:"deviceClassVersion"`
	ManagingDriverName string               `json:"managingDriverName"`
	Subsystem          string               `json:"subsystem"`
	Resources          []*Resource          `json:"resources"`
	Endpoints          []*Endpoint          `json:"endpoints"`
	Metadata           map[string]*Metadata `json:"metadata"`
}

// NewDevice constructs an empty device shell with its URI-bearing
// fields wired up. Used by the lifecycle orchestrator's bootstrap step
// (spec §4.F step 2) before any resources/endpoints are attached.
func NewDevice(uuid, deviceClass, managingDriverName string) *Device {
	return &Device{
		UUID:               uuid,
		DeviceClass:        deviceClass,
		ManagingDriverName: managingDriverName,
		Metadata:           make(map[string]*Metadata),
	}
}

// URI returns the canonical device address: "/<uuid>".
func (d *Device) URI() string {
	return "/" + d.UUID
}

// Resource looks up a device-level resource by id (not endpoint-owned).
func (d *Device) Resource(id string) (*Resource, bool) {
	for _, r := range d.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Endpoint looks up an endpoint by id.
func (d *Device) Endpoint(id string) (*Endpoint, bool) {
	for _, e := range d.Endpoints {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// AddDeviceResource appends a device-owned resource, stamping its
// owner URI. Caller is responsible for uniqueness of id (enforced by
// the store on persist).
func (d *Device) AddDeviceResource(r *Resource) {
	r.OwnerURI = d.URI()
	d.Resources = append(d.Resources, r)
}

// AddEndpoint appends an endpoint, stamping its device URI.
func (d *Device) AddEndpoint(e *Endpoint) {
	e.DeviceURI = d.URI()
	if e.Metadata == nil {
		e.Metadata = make(map[string]*Metadata)
	}
	d.Endpoints = append(d.Endpoints, e)
}

// AddResource appends a resource owned by endpoint e, stamping
// its owner URI.
func (e *Endpoint) AddResource(r *Resource) {
	r.OwnerURI = e.URI()
	e.Resources = append(e.Resources, r)
}

// String implements fmt.Stringer for log lines.
func (d *Device) String() string {
	return fmt.Sprintf("Device{uuid=%s class=%s driver=%s}", d.UUID, d.DeviceClass, d.ManagingDriverName)
}
