package driver_test

import (
	"testing"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
)

// stubDriver embeds BaseDriver and overrides only identity plus
// ClaimDevice/RegisterResources so its default-hook behavior can be
// exercised directly.
type stubDriver struct {
	driver.BaseDriver
	name      string
	claims    bool
	registers bool
}

func (s *stubDriver) Name() string { return s.name }
func (s *stubDriver) ClaimDevice(details driver.DeviceFoundDetails) bool {
	return s.claims
}
func (s *stubDriver) RegisterResources(device *model.Device, details driver.DeviceFoundDetails, bag *model.InitialResourceValues) bool {
	return s.registers
}

func TestBaseDriverDefaultsMatchSpec(t *testing.T) {
	var base driver.BaseDriver

	if base.ClaimDevice(driver.DeviceFoundDetails{}) {
		t.Error("expected ClaimDevice to default to false")
	}
	if base.RegisterResources(nil, driver.DeviceFoundDetails{}, nil) {
		t.Error("expected RegisterResources to default to false")
	}
	if !base.ConfigureDevice(nil, nil) {
		t.Error("expected ConfigureDevice to default to no-op success")
	}
	if err := base.Startup(); err != nil {
		t.Errorf("expected Startup to default to nil error, got %v", err)
	}
}

func TestRegistryClaimDeviceFirstRegisteredWins(t *testing.T) {
	reg := driver.NewRegistry()
	first := &stubDriver{name: "first", claims: true}
	second := &stubDriver{name: "second", claims: true}

	if err := reg.Register(first); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := reg.Register(second); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	claimed, ok := reg.ClaimDevice(driver.DeviceFoundDetails{DeviceClass: "sensor"})
	if !ok || claimed.Name() != "first" {
		t.Errorf("expected first-registered driver to win, got %v ok=%v", claimed, ok)
	}
}

func TestRegistryClaimDeviceNoneClaim(t *testing.T) {
	reg := driver.NewRegistry()
	reg.Register(&stubDriver{name: "d1", claims: false})

	if _, ok := reg.ClaimDevice(driver.DeviceFoundDetails{}); ok {
		t.Error("expected no driver to claim the device")
	}
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	reg := driver.NewRegistry()
	reg.Register(&stubDriver{name: "d1"})
	if err := reg.Register(&stubDriver{name: "d1"}); err == nil {
		t.Error("expected duplicate driver name to be rejected")
	}
}

func TestRegistryAllPreservesOrder(t *testing.T) {
	reg := driver.NewRegistry()
	reg.Register(&stubDriver{name: "a"})
	reg.Register(&stubDriver{name: "b"})
	reg.Register(&stubDriver{name: "c"})

	all := reg.All()
	if len(all) != 3 || all[0].Name() != "a" || all[2].Name() != "c" {
		t.Errorf("unexpected order: %+v", all)
	}
}
