// Package stats gathers a runtime snapshot of the gateway by
// coordinating the device store and driver registry: device/endpoint/
// resource counts, devices per class, and per-driver stats. It does not
// read the communication watchdog and reports no comm-fail count.
package stats

import (
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/store"
)

// Snapshot is a point-in-time rollup of gateway runtime state.
type Snapshot struct {
	DeviceCount    int                          `json:"deviceCount"`
	EndpointCount  int                          `json:"endpointCount"`
	ResourceCount  int                          `json:"resourceCount"`
	DriverStats    map[string]map[string]string `json:"driverStats"`
	DevicesByClass map[string]int               `json:"devicesByClass"`
}

// Gatherer coordinates the store and driver registry to produce a
// Snapshot on demand.
type Gatherer struct {
	store   *store.Store
	drivers *driver.Registry
}

// New returns a Gatherer reading from s and drivers.
func New(s *store.Store, drivers *driver.Registry) *Gatherer {
	return &Gatherer{store: s, drivers: drivers}
}

// Gather computes a fresh Snapshot.
func (g *Gatherer) Gather() Snapshot {
	devices := g.store.GetAll()

	snap := Snapshot{
		DriverStats:    make(map[string]map[string]string),
		DevicesByClass: make(map[string]int),
	}

	for _, d := range devices {
		snap.DeviceCount++
		snap.ResourceCount += len(d.Resources)
		snap.DevicesByClass[d.DeviceClass]++
		for _, ep := range d.Endpoints {
			snap.EndpointCount++
			snap.ResourceCount += len(ep.Resources)
		}
	}

	for _, drv := range g.drivers.All() {
		snap.DriverStats[drv.Name()] = drv.FetchRuntimeStats()
	}

	return snap
}
