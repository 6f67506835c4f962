package lifecycle_test

import (
	"path/filepath"
	"testing"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/descriptor"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/lifecycle"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/store"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/watchdog"
)

type fakeDriver struct {
	driver.BaseDriver
	claims          bool
	neverReject     bool
	configureOK     bool
	fetchOK         bool
	registerOK      bool
	persistedCalled int
}

func (d *fakeDriver) Name() string { return "fake" }
func (d *fakeDriver) ClaimDevice(details driver.DeviceFoundDetails) bool { return d.claims }
func (d *fakeDriver) NeverReject() bool                                  { return d.neverReject }
func (d *fakeDriver) ConfigureDevice(device *model.Device, desc *descriptor.Descriptor) bool {
	return d.configureOK
}
func (d *fakeDriver) FetchInitialResourceValues(device *model.Device, details driver.DeviceFoundDetails, bag *model.InitialResourceValues) bool {
	bag.PutEndpoint("1", "faulted", "false")
	return d.fetchOK
}
func (d *fakeDriver) RegisterResources(device *model.Device, details driver.DeviceFoundDetails, bag *model.InitialResourceValues) bool {
	if !d.registerOK {
		return false
	}
	ep := &model.Endpoint{ID: "1", Profile: "sensor", Metadata: map[string]*model.Metadata{}}
	device.AddEndpoint(ep)
	model.CreateEndpointResourceIfAvailable(ep, bag, "faulted", "boolean", model.Readable, model.CacheNever)
	return true
}
func (d *fakeDriver) DevicePersisted(device *model.Device) bool {
	d.persistedCalled++
	return true
}

func newTestOrchestrator(t *testing.T, drv driver.Driver) (*lifecycle.Orchestrator, *descriptor.Handler) {
	t.Helper()
	registry := driver.NewRegistry()
	if err := registry.Register(drv); err != nil {
		t.Fatalf("register driver: %v", err)
	}
	bus := events.NewBus()
	s, err := store.Open(filepath.Join(t.TempDir(), "devices.db"), registry, bus)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	desc := descriptor.NewHandler(t.TempDir(), nil)
	wd := watchdog.New()

	return lifecycle.New(s, registry, desc, wd, bus), desc
}

func TestOnboardHappyPath(t *testing.T) {
	drv := &fakeDriver{claims: true, neverReject: true, configureOK: true, fetchOK: true, registerOK: true}
	orch, _ := newTestOrchestrator(t, drv)

	details := driver.DeviceFoundDetails{
		UUID:                "dev-1",
		DeviceClass:         "sensor",
		ManufacturerID:      "Acme",
		ModelID:             "Widget",
		DiscoveredVia:       "fake",
		CommFailTimeoutSecs: 60,
	}

	device, err := orch.Onboard(details, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if device.UUID != "dev-1" {
		t.Errorf("unexpected device: %+v", device)
	}
	if drv.persistedCalled != 1 {
		t.Errorf("expected devicePersisted to be called once, got %d", drv.persistedCalled)
	}
	if _, ok := device.Endpoint("1"); !ok {
		t.Error("expected endpoint 1 to be registered")
	}
}

func TestOnboardRejectsDuplicate(t *testing.T) {
	drv := &fakeDriver{claims: true, neverReject: true, configureOK: true, fetchOK: true, registerOK: true}
	orch, _ := newTestOrchestrator(t, drv)

	details := driver.DeviceFoundDetails{UUID: "dev-1", ManufacturerID: "Acme", ModelID: "Widget", DiscoveredVia: "fake"}
	if _, err := orch.Onboard(details, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := orch.Onboard(details, false); err == nil {
		t.Fatal("expected duplicate onboarding to be rejected")
	}
}

func TestOnboardAbortsOnConfigureFailureWithNoPartialState(t *testing.T) {
	drv := &fakeDriver{claims: true, neverReject: true, configureOK: false}
	orch, _ := newTestOrchestrator(t, drv)

	details := driver.DeviceFoundDetails{UUID: "dev-1", ManufacturerID: "Acme", ModelID: "Widget", DiscoveredVia: "fake"}
	if _, err := orch.Onboard(details, false); err == nil {
		t.Fatal("expected configure failure to abort onboarding")
	}
	if _, ok := orch.Store.GetByUri("/dev-1"); ok {
		t.Error("expected no persisted state after aborted onboarding")
	}
}

func TestOnboardRejectsWithoutDescriptorUnlessNeverReject(t *testing.T) {
	drv := &fakeDriver{claims: true, neverReject: false, configureOK: true, fetchOK: true, registerOK: true}
	orch, _ := newTestOrchestrator(t, drv)

	details := driver.DeviceFoundDetails{UUID: "dev-1", ManufacturerID: "Unknown", ModelID: "Unknown", DiscoveredVia: "fake"}
	if _, err := orch.Onboard(details, false); err == nil {
		t.Fatal("expected missing descriptor to be rejected when driver is not neverReject")
	}
}
