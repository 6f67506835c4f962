package store_test

import (
	"path/filepath"
	"testing"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/store"
)

// recordingDriver lets tests control and observe WriteEndpointResource
// behavior without a real protocol backend.
type recordingDriver struct {
	driver.BaseDriver
	handledByStore bool
	lastWritten    string
	readValue      string
}

func (d *recordingDriver) Name() string { return "test-driver" }

func (d *recordingDriver) ReadResource(r *model.Resource) (string, error) {
	if d.readValue != "" {
		return d.readValue, nil
	}
	return r.Value, nil
}

func (d *recordingDriver) WriteEndpointResource(r *model.Resource, previous, newValue string) (bool, error) {
	d.lastWritten = newValue
	return d.handledByStore, nil
}

func (d *recordingDriver) ExecuteResource(r *model.Resource, arg string) (string, error) {
	return "executed:" + arg, nil
}

func newTestStore(t *testing.T, drv driver.Driver) *store.Store {
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
	return s
}

func sampleDevice() *model.Device {
	d := model.NewDevice("uuid-1", "sensor", "test-driver")
	r := &model.Resource{ID: "faulted", Type: "boolean", Value: "false", Mode: model.Readable | model.Writeable | model.EmitEvents}
	d.AddDeviceResource(r)
	ep := &model.Endpoint{ID: "1", Profile: "sensor", Metadata: map[string]*model.Metadata{}}
	d.AddEndpoint(ep)
	ep.AddResource(&model.Resource{ID: "tampered", Type: "boolean", Value: "false", Mode: model.Readable | model.Writeable})
	return d
}

func TestAddDeviceRejectsDuplicate(t *testing.T) {
	s := newTestStore(t, &recordingDriver{handledByStore: true})
	d := sampleDevice()

	if err := s.AddDevice(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddDevice(d); err == nil {
		t.Fatal("expected duplicate add to fail")
	}
}

func TestWriteResourceRejectsNonWriteable(t *testing.T) {
	s := newTestStore(t, &recordingDriver{handledByStore: true})
	d := sampleDevice()
	d.Resources[0].Mode = model.Readable
	s.AddDevice(d)

	if err := s.WriteResource(d.Resources[0].URI(), "true"); err == nil {
		t.Fatal("expected write to non-writeable resource to be rejected")
	}
}

func TestWriteResourcePersistsWhenHandledByStore(t *testing.T) {
	drv := &recordingDriver{handledByStore: true}
	s := newTestStore(t, drv)
	d := sampleDevice()
	s.AddDevice(d)

	uri := d.Resources[0].URI()
	if err := s.WriteResource(uri, "true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, err := s.ReadResource(uri)
	if err != nil || value != "true" {
		t.Errorf("expected updated value, got %q err=%v", value, err)
	}
}

func TestWriteResourceSkipsStoreUpdateWhenDriverHandlesDirectly(t *testing.T) {
	drv := &recordingDriver{handledByStore: false}
	s := newTestStore(t, drv)
	d := sampleDevice()
	s.AddDevice(d)

	uri := d.Resources[0].URI()
	if err := s.WriteResource(uri, "true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drv.lastWritten != "true" {
		t.Errorf("expected driver to observe the write, got %q", drv.lastWritten)
	}

	value, _ := s.ReadResource(uri)
	if value != "false" {
		t.Errorf("expected store value unchanged when driver handles write directly, got %q", value)
	}
}

func TestExecuteResourceReturnsDriverResult(t *testing.T) {
	s := newTestStore(t, &recordingDriver{})
	d := sampleDevice()
	s.AddDevice(d)

	result, err := s.ExecuteResource(d.Resources[0].URI(), "ping")
	if err != nil || result != "executed:ping" {
		t.Errorf("unexpected result: %q err=%v", result, err)
	}
}

func TestRemoveDeviceCascadesEndpoints(t *testing.T) {
	s := newTestStore(t, &recordingDriver{})
	d := sampleDevice()
	s.AddDevice(d)

	if err := s.RemoveDevice(d.UUID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.GetByUri(d.URI()); ok {
		t.Error("expected device to be gone after removal")
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t, &recordingDriver{})
	d := sampleDevice()
	s.AddDevice(d)

	if err := s.SetMetadata(d.URI(), "label", "Front Door"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, ok := s.GetMetadata(d.URI(), "label")
	if !ok || value != "Front Door" {
		t.Errorf("got %q ok=%v", value, ok)
	}
}

func TestQueryResourcesByUriPattern(t *testing.T) {
	s := newTestStore(t, &recordingDriver{})
	d := sampleDevice()
	s.AddDevice(d)

	matched, err := s.QueryResourcesByUriPattern("/[uuid]/ep/[ep]/r/[rid]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != "tampered" {
		t.Errorf("expected endpoint-owned resource match, got %+v", matched)
	}
}
