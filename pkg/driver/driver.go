// Package driver defines the vtable every device driver implements and
// the registry the lifecycle orchestrator uses to resolve which driver
// owns a newly discovered device. It is the idiomatic-Go analog of the
// spec's "opaque driver context" pattern: rather than a void-pointer
// struct of function pointers, a driver is any type implementing the
// Driver interface, and BaseDriver supplies the default-hook behavior a
// driver gets for free by embedding it.
package driver

import (
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/descriptor"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
)

// DeviceFoundDetails carries everything discovered about a candidate
// device before it has a model.Device representation: the raw
// identifiers a driver needs to decide whether it owns the device and,
// if so, to configure it.
type DeviceFoundDetails struct {
	UUID                    string
	DeviceClass             string
	DeviceClassVersion      int
	ManufacturerID          string
	ModelID                 string
	HardwareVersion         string
	FirmwareVersion         string
	DiscoveredVia           string // subsystem name that found this device
	Address                 string // protocol-specific address (e.g. IEEE addr)
	EndpointProfileMap      map[string]string
	CommFailTimeoutSecs     int64
	Details                 map[string]string
}

// PropertyChangedEvent is delivered to propertyChanged when a gateway
// configuration property a driver is interested in changes.
type PropertyChangedEvent struct {
	Key      string
	OldValue string
	NewValue string
}

// PowerState is the argument to SystemPowerEvent.
type PowerState int

const (
	PowerStateNormal PowerState = iota
	PowerStateLowPowerMode
	PowerStateShuttingDown
)

// Driver is the full hook vtable a device driver may implement.
// Concrete drivers embed BaseDriver and override only the hooks they
// need; unoverridden hooks behave per the spec's default-hook rules
// (§4.E): every hook defaults to no-op success except ClaimDevice
// (defaults false) and RegisterResources (defaults false, i.e.
// rejection).
type Driver interface {
	Name() string

	// Lifecycle
	Startup() error
	Shutdown() error
	SubsystemInitialized() error
	SystemPowerEvent(state PowerState) error
	PropertyChanged(evt PropertyChangedEvent) error

	// Discovery
	DiscoverDevices(deviceClass string) error
	RecoverDevices(deviceClass string) error
	StopDiscovering(deviceClassOrEmpty string) error

	// Onboarding, called in this strict order per device.
	ClaimDevice(details DeviceFoundDetails) bool
	ConfigureDevice(device *model.Device, desc *descriptor.Descriptor) bool
	FetchInitialResourceValues(device *model.Device, details DeviceFoundDetails, bag *model.InitialResourceValues) bool
	RegisterResources(device *model.Device, details DeviceFoundDetails, bag *model.InitialResourceValues) bool
	DevicePersisted(device *model.Device) bool

	// Runtime
	ReadResource(resource *model.Resource) (value string, err error)
	// WriteEndpointResource asks the driver to apply newValue to
	// resource. handledByStore reports whether the store should
	// persist newValue and emit resourceUpdated itself ("base driver
	// updates resource"); when false the driver has already applied
	// and recorded the value through its own channel and the store
	// takes no further action.
	WriteEndpointResource(resource *model.Resource, previousValue, newValue string) (handledByStore bool, err error)
	ExecuteResource(resource *model.Resource, arg string) (result string, err error)
	SynchronizeDevice(device *model.Device) error
	DeviceNeedsReconfiguring(device *model.Device) bool
	ProcessDeviceDescriptor(device *model.Device, desc *descriptor.Descriptor) error
	CommunicationFailed(device *model.Device) error
	CommunicationRestored(device *model.Device) error
	DeviceRemoved(device *model.Device) error
	EndpointDisabled(endpoint *model.Endpoint) error
	FetchRuntimeStats() map[string]string
	GetDeviceClassVersion(deviceClass string) int

	// Integrity
	NeverReject() bool
	RestoreConfig(path string) error
	PreRestoreConfig() error
	PostRestoreConfig() error
}

// BaseDriver gives every hook a spec-compliant default. Embed it by
// value in a concrete driver struct and override only the methods that
// need real behavior.
type BaseDriver struct{}

func (BaseDriver) Startup() error                                    { return nil }
func (BaseDriver) Shutdown() error                                   { return nil }
func (BaseDriver) SubsystemInitialized() error                       { return nil }
func (BaseDriver) SystemPowerEvent(state PowerState) error           { return nil }
func (BaseDriver) PropertyChanged(evt PropertyChangedEvent) error     { return nil }
func (BaseDriver) DiscoverDevices(deviceClass string) error          { return nil }
func (BaseDriver) RecoverDevices(deviceClass string) error           { return nil }
func (BaseDriver) StopDiscovering(deviceClassOrEmpty string) error    { return nil }

// ClaimDevice defaults to false: a driver must explicitly claim a
// device class it supports.
func (BaseDriver) ClaimDevice(details DeviceFoundDetails) bool { return false }

func (BaseDriver) ConfigureDevice(device *model.Device, desc *descriptor.Descriptor) bool {
	return true
}

func (BaseDriver) FetchInitialResourceValues(device *model.Device, details DeviceFoundDetails, bag *model.InitialResourceValues) bool {
	return true
}

// RegisterResources defaults to false (rejection): a driver that
// claims a device must explicitly register its resources.
func (BaseDriver) RegisterResources(device *model.Device, details DeviceFoundDetails, bag *model.InitialResourceValues) bool {
	return false
}

func (BaseDriver) DevicePersisted(device *model.Device) bool { return true }

func (BaseDriver) ReadResource(resource *model.Resource) (string, error) {
	return resource.Value, nil
}
func (BaseDriver) WriteEndpointResource(resource *model.Resource, previousValue, newValue string) (bool, error) {
	return true, nil
}
func (BaseDriver) ExecuteResource(resource *model.Resource, arg string) (string, error) {
	return "", nil
}
func (BaseDriver) SynchronizeDevice(device *model.Device) error         { return nil }
func (BaseDriver) DeviceNeedsReconfiguring(device *model.Device) bool   { return false }
func (BaseDriver) ProcessDeviceDescriptor(device *model.Device, desc *descriptor.Descriptor) error {
	return nil
}
func (BaseDriver) CommunicationFailed(device *model.Device) error   { return nil }
func (BaseDriver) CommunicationRestored(device *model.Device) error { return nil }
func (BaseDriver) DeviceRemoved(device *model.Device) error         { return nil }
func (BaseDriver) EndpointDisabled(endpoint *model.Endpoint) error  { return nil }
func (BaseDriver) FetchRuntimeStats() map[string]string             { return nil }
func (BaseDriver) GetDeviceClassVersion(deviceClass string) int     { return 1 }
func (BaseDriver) NeverReject() bool                                { return false }
func (BaseDriver) RestoreConfig(path string) error                  { return nil }
func (BaseDriver) PreRestoreConfig() error                          { return nil }
func (BaseDriver) PostRestoreConfig() error                         { return nil }
