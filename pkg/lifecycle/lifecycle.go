// Package lifecycle implements the device onboarding pipeline: the
// single path by which a device discovered by a driver becomes a
// fully persisted, watchdog-armed member of the device graph. It
// guarantees onboarding steps run in order, that a failure at any
// step leaves no partial state behind, and that devicePersisted/
// watchdog arming happen exactly once per device.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/descriptor"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/store"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/watchdog"
)

// Orchestrator drives the onboarding, reconfigure, and descriptor
// refresh flows against a store, driver registry, descriptor catalog,
// and watchdog.
type Orchestrator struct {
	Store       *store.Store
	Drivers     *driver.Registry
	Descriptors *descriptor.Handler
	Watchdog    *watchdog.Watchdog
	Bus         *events.Bus
}

// New returns an Orchestrator wired to its collaborators.
func New(s *store.Store, drivers *driver.Registry, descriptors *descriptor.Handler, wd *watchdog.Watchdog, bus *events.Bus) *Orchestrator {
	return &Orchestrator{Store: s, Drivers: drivers, Descriptors: descriptors, Watchdog: wd, Bus: bus}
}

// Onboard runs the full seven-step pipeline for a single discovered
// device. repairMode suppresses the duplicate-uuid rejection (step 1)
// so a device can be re-onboarded after recovery.
func (o *Orchestrator) Onboard(details driver.DeviceFoundDetails, repairMode bool) (*model.Device, error) {
	correlationID := uuid.NewString()
	log := log.With().Str("correlationId", correlationID).Str("uuid", details.UUID).Logger()
	log.Debug().Msg("onboarding started")

	drv, ok := o.Drivers.ClaimDevice(details)
	if !ok {
		return nil, gwerrors.New(gwerrors.DriverError, "no driver claimed device: "+details.UUID)
	}

	// Step 1: Admission.
	if _, exists := o.Store.GetByUri("/" + details.UUID); exists && !repairMode {
		return nil, gwerrors.New(gwerrors.Duplicate, "device already persisted: "+details.UUID)
	}
	desc, hasDescriptor := o.Descriptors.Catalog().Lookup(details.ManufacturerID, details.ModelID, details.DeviceClassVersion)
	if !hasDescriptor && !drv.NeverReject() {
		return nil, gwerrors.New(gwerrors.NoDescriptor, "no matching descriptor for "+details.ManufacturerID+"/"+details.ModelID)
	}

	// Step 2: Bootstrap graph.
	device := bootstrapDevice(details)
	device.ManagingDriverName = drv.Name()

	// Step 3: Configure.
	if !drv.ConfigureDevice(device, desc) {
		return nil, gwerrors.New(gwerrors.DriverError, "configureDevice rejected device "+details.UUID)
	}

	// Step 4: Fetch initial values.
	bag := model.NewInitialResourceValues()
	if !drv.FetchInitialResourceValues(device, details, bag) {
		return nil, gwerrors.New(gwerrors.DriverError, "fetchInitialResourceValues rejected device "+details.UUID)
	}

	// Step 5: Register resources.
	if !drv.RegisterResources(device, details, bag) {
		return nil, gwerrors.New(gwerrors.DriverError, "registerResources rejected device "+details.UUID)
	}

	// Step 6: Persist. Terminal: after this point the device is live
	// and any remaining failure is logged, not rolled back.
	if err := o.Store.AddDevice(device); err != nil {
		return nil, err
	}

	// Step 7: Notify.
	if !drv.DevicePersisted(device) {
		log.Warn().Str("uuid", device.UUID).Msg("devicePersisted hook reported failure; device remains onboarded")
	}
	if details.CommFailTimeoutSecs > 0 {
		o.Watchdog.Monitor(device.UUID, details.CommFailTimeoutSecs, false)
	}

	log.Debug().Msg("onboarding completed")
	return device, nil
}

// bootstrapDevice constructs the in-memory device shell carrying its
// identity and mandatory resources (step 2).
func bootstrapDevice(details driver.DeviceFoundDetails) *model.Device {
	d := model.NewDevice(details.UUID, details.DeviceClass, details.DiscoveredVia)
	d.DeviceClassVersion = details.DeviceClassVersion
	d.Subsystem = details.DiscoveredVia

	nowMillis := fmt.Sprintf("%d", time.Now().UnixMilli())
	d.AddDeviceResource(&model.Resource{ID: "manufacturer", Type: "string", Value: details.ManufacturerID, Mode: model.Readable})
	d.AddDeviceResource(&model.Resource{ID: "model", Type: "string", Value: details.ModelID, Mode: model.Readable})
	d.AddDeviceResource(&model.Resource{ID: "hardwareVersion", Type: "string", Value: details.HardwareVersion, Mode: model.Readable})
	d.AddDeviceResource(&model.Resource{ID: "firmwareVersion", Type: "string", Value: details.FirmwareVersion, Mode: model.Readable})
	d.AddDeviceResource(&model.Resource{ID: "commFail", Type: "boolean", Value: "false", Mode: model.Readable | model.EmitEvents})
	d.AddDeviceResource(&model.Resource{ID: "lastInteraction", Type: "dateTime", Value: nowMillis, Mode: model.Readable})
	return d
}

// Reconfigure executes the condensed pipeline for every stored device
// that reports deviceNeedsReconfiguring: reapply driver bindings, then
// reprocess the current descriptor.
func (o *Orchestrator) Reconfigure() {
	for _, device := range o.Store.GetAll() {
		drv, ok := o.Drivers.Get(device.ManagingDriverName)
		if !ok {
			continue
		}
		if !drv.DeviceNeedsReconfiguring(device) {
			continue
		}
		if err := drv.SynchronizeDevice(device); err != nil {
			log.Warn().Err(err).Str("uuid", device.UUID).Msg("synchronizeDevice failed during reconfigure")
			continue
		}
		manufacturer, _ := device.Resource("manufacturer")
		modelResource, _ := device.Resource("model")
		var manufacturerVal, modelVal string
		if manufacturer != nil {
			manufacturerVal = manufacturer.Value
		}
		if modelResource != nil {
			modelVal = modelResource.Value
		}
		desc, _ := o.Descriptors.Catalog().Lookup(manufacturerVal, modelVal, device.DeviceClassVersion)
		if err := drv.ProcessDeviceDescriptor(device, desc); err != nil {
			log.Warn().Err(err).Str("uuid", device.UUID).Msg("processDeviceDescriptor failed during reconfigure")
		}
	}
}

// HandleDescriptorsUpdated iterates every stored device and reprocesses
// its descriptor against the now-current catalog. Individual failures
// are logged, not fatal to the sweep.
func (o *Orchestrator) HandleDescriptorsUpdated() error {
	var errs *multierror.Error
	catalog := o.Descriptors.Catalog()

	for _, device := range o.Store.GetAll() {
		drv, ok := o.Drivers.Get(device.ManagingDriverName)
		if !ok {
			continue
		}
		manufacturer, _ := device.Resource("manufacturer")
		modelResource, _ := device.Resource("model")
		var manufacturerVal, modelVal string
		if manufacturer != nil {
			manufacturerVal = manufacturer.Value
		}
		if modelResource != nil {
			modelVal = modelResource.Value
		}
		desc, _ := catalog.Lookup(manufacturerVal, modelVal, device.DeviceClassVersion)
		if err := drv.ProcessDeviceDescriptor(device, desc); err != nil {
			log.Warn().Err(err).Str("uuid", device.UUID).Msg("processDeviceDescriptor failed during descriptor refresh")
			errs = multierror.Append(errs, fmt.Errorf("device %s: %w", device.UUID, err))
		}
	}
	return errs.ErrorOrNil()
}
