package stats_test

import (
	"path/filepath"
	"testing"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/stats"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/store"
)

type countingDriver struct {
	driver.BaseDriver
	name string
}

func (d *countingDriver) Name() string { return d.name }
func (d *countingDriver) FetchRuntimeStats() map[string]string {
	return map[string]string{"ok": "true"}
}

func TestGatherCountsDevicesEndpointsResources(t *testing.T) {
	registry := driver.NewRegistry()
	drv := &countingDriver{name: "fake"}
	if err := registry.Register(drv); err != nil {
		t.Fatalf("register: %v", err)
	}

	bus := events.NewBus()
	s, err := store.Open(filepath.Join(t.TempDir(), "devices.db"), registry, bus)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	dev := model.NewDevice("dev-1", "sensor", "fake")
	dev.AddDeviceResource(&model.Resource{ID: "manufacturer", Mode: model.Readable})
	ep := &model.Endpoint{ID: "1", Metadata: map[string]*model.Metadata{}}
	dev.AddEndpoint(ep)
	ep.AddResource(&model.Resource{ID: "state", Mode: model.Readable})
	if err := s.AddDevice(dev); err != nil {
		t.Fatalf("add device: %v", err)
	}

	g := stats.New(s, registry)
	snap := g.Gather()

	if snap.DeviceCount != 1 {
		t.Errorf("DeviceCount = %d, want 1", snap.DeviceCount)
	}
	if snap.EndpointCount != 1 {
		t.Errorf("EndpointCount = %d, want 1", snap.EndpointCount)
	}
	if snap.ResourceCount != 2 {
		t.Errorf("ResourceCount = %d, want 2", snap.ResourceCount)
	}
	if snap.DevicesByClass["sensor"] != 1 {
		t.Errorf("DevicesByClass[sensor] = %d, want 1", snap.DevicesByClass["sensor"])
	}
	if snap.DriverStats["fake"]["ok"] != "true" {
		t.Errorf("DriverStats[fake] = %v, want ok=true", snap.DriverStats["fake"])
	}
}
