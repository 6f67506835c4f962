package app_test

import (
	"path/filepath"
	"testing"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/descriptor"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/lifecycle"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/propconfig"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/store"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/watchdog"
)

type stubDriver struct {
	driver.BaseDriver
	discoverCalls int
	stopCalls     int
}

func (d *stubDriver) Name() string                           { return "stub" }
func (d *stubDriver) DiscoverDevices(deviceClass string) error { d.discoverCalls++; return nil }
func (d *stubDriver) StopDiscovering(deviceClass string) error { d.stopCalls++; return nil }

func newTestApp(t *testing.T) (*app.App, *stubDriver) {
	t.Helper()
	registry := driver.NewRegistry()
	drv := &stubDriver{}
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
	orch := lifecycle.New(s, registry, desc, wd, bus)
	props, err := propconfig.Load(filepath.Join(t.TempDir(), "properties.xml"), nil)
	if err != nil {
		t.Fatalf("load properties: %v", err)
	}

	return app.New(s, registry, orch, wd, desc, props, bus), drv
}

func TestListDevicesFiltersByClassAndSubsystem(t *testing.T) {
	a, _ := newTestApp(t)

	dev := model.NewDevice("dev-1", "sensor", "stub")
	dev.Subsystem = "stub"
	if err := a.Store.AddDevice(dev); err != nil {
		t.Fatalf("add device: %v", err)
	}

	if got := a.ListDevices("sensor", ""); len(got) != 1 {
		t.Errorf("ListDevices(sensor,\"\") = %d devices, want 1", len(got))
	}
	if got := a.ListDevices("thermostat", ""); len(got) != 0 {
		t.Errorf("ListDevices(thermostat,\"\") = %d devices, want 0", len(got))
	}
	if got := a.ListDevices("", "stub"); len(got) != 1 {
		t.Errorf("ListDevices(\"\",stub) = %d devices, want 1", len(got))
	}
}

func TestStartDiscoveryInvokesEveryDriver(t *testing.T) {
	a, drv := newTestApp(t)

	if err := a.StartDiscovery("", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drv.discoverCalls != 1 {
		t.Errorf("discoverCalls = %d, want 1", drv.discoverCalls)
	}

	if err := a.StopDiscovery(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drv.stopCalls != 1 {
		t.Errorf("stopCalls = %d, want 1", drv.stopCalls)
	}
}

func TestRemoveDeviceRejectsUnknownURI(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.RemoveDevice("/does-not-exist"); err == nil {
		t.Fatal("expected error removing unknown device")
	}
}

func TestRuntimeStatsReflectsStoredDevices(t *testing.T) {
	a, _ := newTestApp(t)

	dev := model.NewDevice("dev-1", "sensor", "stub")
	if err := a.Store.AddDevice(dev); err != nil {
		t.Fatalf("add device: %v", err)
	}

	snap := a.RuntimeStats()
	if snap.DeviceCount != 1 {
		t.Errorf("DeviceCount = %d, want 1", snap.DeviceCount)
	}
}
