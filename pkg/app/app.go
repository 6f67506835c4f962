// Package app wires the gateway's core components — device store,
// driver registry, lifecycle orchestrator, communication watchdog,
// descriptor handler, and property store — behind a single facade that
// both the HTTP API and the MCP server call through. Neither transport
// talks to pkg/store or pkg/lifecycle directly; both go through App.
package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/descriptor"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/lifecycle"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/propconfig"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/stats"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/store"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/watchdog"
)

// connectable is implemented by drivers that track a live transport
// connection (e.g. the zigbee EZSP driver); drivers without a notion
// of connectivity are skipped by App.IsConnected.
type connectable interface {
	IsConnected() bool
}

// App is the single dependency graph root for the gateway's external
// surfaces.
type App struct {
	Store       *store.Store
	Drivers     *driver.Registry
	Lifecycle   *lifecycle.Orchestrator
	Watchdog    *watchdog.Watchdog
	Descriptors *descriptor.Handler
	Properties  *propconfig.Store
	Bus         *events.Bus
	Stats       *stats.Gatherer
}

// New assembles an App from its already-constructed collaborators.
func New(s *store.Store, drivers *driver.Registry, orch *lifecycle.Orchestrator, wd *watchdog.Watchdog, desc *descriptor.Handler, props *propconfig.Store, bus *events.Bus) *App {
	return &App{
		Store:       s,
		Drivers:     drivers,
		Lifecycle:   orch,
		Watchdog:    wd,
		Descriptors: desc,
		Properties:  props,
		Bus:         bus,
		Stats:       stats.New(s, drivers),
	}
}

// IsConnected reports whether any registered driver that tracks
// connectivity currently reports a live transport connection. Drivers
// with no notion of connectivity (e.g. a purely logical subsystem) do
// not count against this.
func (a *App) IsConnected() bool {
	for _, drv := range a.Drivers.All() {
		c, ok := drv.(connectable)
		if !ok {
			continue
		}
		if c.IsConnected() {
			return true
		}
	}
	return false
}

// ListDevices returns every device in the graph, optionally filtered
// by device class and/or subsystem when non-empty.
func (a *App) ListDevices(deviceClass, subsystem string) []*model.Device {
	devices := a.Store.GetAll()
	if deviceClass == "" && subsystem == "" {
		return devices
	}
	filtered := make([]*model.Device, 0, len(devices))
	for _, d := range devices {
		if deviceClass != "" && d.DeviceClass != deviceClass {
			continue
		}
		if subsystem != "" && d.Subsystem != subsystem {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}

// GetDevice returns the device at uri ("/<uuid>").
func (a *App) GetDevice(uri string) (*model.Device, bool) {
	return a.Store.GetByUri(uri)
}

// RemoveDevice removes a device and notifies its managing driver.
func (a *App) RemoveDevice(uri string) error {
	d, ok := a.Store.GetByUri(uri)
	if !ok {
		return gwerrors.New(gwerrors.NotFound, "no device at "+uri)
	}
	if drv, ok := a.Drivers.Get(d.ManagingDriverName); ok {
		if err := drv.DeviceRemoved(d); err != nil {
			log.Warn().Err(err).Str("uuid", d.UUID).Msg("deviceRemoved hook failed")
		}
	}
	a.Watchdog.StopMonitoring(d.UUID)
	return a.Store.RemoveDevice(d.UUID)
}

// ReadResource reads the current value of the resource at uri.
func (a *App) ReadResource(uri string) (string, error) {
	return a.Store.ReadResource(uri)
}

// WriteResource writes newValue to the resource at uri.
func (a *App) WriteResource(uri, newValue string) error {
	return a.Store.WriteResource(uri, newValue)
}

// ExecuteResource invokes the executable resource at uri with arg.
func (a *App) ExecuteResource(uri, arg string) (string, error) {
	return a.Store.ExecuteResource(uri, arg)
}

// ChangeResourceMode updates the access mode bitmask of the resource at uri.
func (a *App) ChangeResourceMode(uri string, mode model.ResourceMode) error {
	return a.Store.ChangeResourceMode(uri, mode)
}

// QueryResourcesByUriPattern returns every resource matching pattern.
func (a *App) QueryResourcesByUriPattern(pattern string) ([]*model.Resource, error) {
	return a.Store.QueryResourcesByUriPattern(pattern)
}

// GetMetadata reads a metadata value owned by ownerURI (a device or
// endpoint URI).
func (a *App) GetMetadata(ownerURI, name string) (string, bool) {
	return a.Store.GetMetadata(ownerURI, name)
}

// SetMetadata writes a metadata value owned by ownerURI.
func (a *App) SetMetadata(ownerURI, name, value string) error {
	return a.Store.SetMetadata(ownerURI, name, value)
}

// GetProperty reads a gateway configuration property.
func (a *App) GetProperty(key string) (string, bool) {
	return a.Properties.Get(key)
}

// SetProperty writes a gateway configuration property, validated
// against its type catalog entry.
func (a *App) SetProperty(key, value, src string) error {
	return a.Properties.Set(key, value, src)
}

// ReprocessDescriptors forces every stored device to re-evaluate its
// descriptor against the current catalog.
func (a *App) ReprocessDescriptors() error {
	return a.Lifecycle.HandleDescriptorsUpdated()
}

// StartDiscovery opens the join window for deviceClass (or every
// driver if empty) for durationSecs, automatically closing it again
// once the duration elapses.
func (a *App) StartDiscovery(deviceClass string, durationSecs int) error {
	if durationSecs <= 0 {
		durationSecs = 120
	}
	var firstErr error
	for _, drv := range a.Drivers.All() {
		if err := drv.DiscoverDevices(deviceClass); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	time.AfterFunc(time.Duration(durationSecs)*time.Second, func() {
		if err := a.StopDiscovery(deviceClass); err != nil {
			log.Warn().Err(err).Msg("failed to auto-close discovery window")
		}
	})
	return nil
}

// StopDiscovery closes the join window for deviceClass (or every
// driver if empty) immediately.
func (a *App) StopDiscovery(deviceClass string) error {
	var firstErr error
	for _, drv := range a.Drivers.All() {
		if err := drv.StopDiscovering(deviceClass); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RuntimeStats returns a snapshot of gateway-wide counters and
// per-driver stats.
func (a *App) RuntimeStats() stats.Snapshot {
	return a.Stats.Gather()
}

// RemainingForLPM returns the number of seconds device uuid can remain
// unresponsive before entering low power mode would trip its
// communication-fail timeout, per watchdog.Watchdog.RemainingForLPM.
func (a *App) RemainingForLPM(uuid string, delaySecs int64) int32 {
	return a.Watchdog.RemainingForLPM(uuid, delaySecs)
}

// EnterLowPowerMode notifies every driver that the system is entering
// low power mode, so battery-backed subsystems can throttle polling.
func (a *App) EnterLowPowerMode() error {
	return a.broadcastPowerState(driver.PowerStateLowPowerMode)
}

// ExitLowPowerMode notifies every driver that normal operation has resumed.
func (a *App) ExitLowPowerMode() error {
	return a.broadcastPowerState(driver.PowerStateNormal)
}

func (a *App) broadcastPowerState(state driver.PowerState) error {
	var firstErr error
	for _, drv := range a.Drivers.All() {
		if err := drv.SystemPowerEvent(state); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", drv.Name(), err)
		}
	}
	return firstErr
}
