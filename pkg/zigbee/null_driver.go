package zigbee

import (
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
)

// NullDriver is a no-op driver.Driver used when the EZSP dongle cannot
// be opened at startup. It lets the gateway's HTTP/MCP surfaces and
// the rest of the device graph run in a degraded mode instead of
// refusing to start, mirroring the teacher's NullController fallback
// for a missing Zigbee2MQTT connection.
type NullDriver struct {
	driver.BaseDriver
}

// NewNullDriver returns a NullDriver. ClaimDevice always returns false;
// DiscoverDevices, ReadResource and WriteEndpointResource always fail
// with ServiceDisabled; StopDiscovering succeeds; FetchRuntimeStats
// reports connected=false. Every other hook inherits BaseDriver's
// no-op defaults.
func NewNullDriver() *NullDriver {
	return &NullDriver{}
}

func (*NullDriver) Name() string { return "zigbee" }

func (*NullDriver) ClaimDevice(driver.DeviceFoundDetails) bool { return false }

func (*NullDriver) DiscoverDevices(deviceClass string) error {
	return gwerrors.New(gwerrors.ServiceDisabled, "zigbee radio unavailable")
}

func (*NullDriver) StopDiscovering(deviceClassOrEmpty string) error { return nil }

func (*NullDriver) ReadResource(resource *model.Resource) (string, error) {
	return "", gwerrors.New(gwerrors.ServiceDisabled, "zigbee radio unavailable")
}

func (*NullDriver) WriteEndpointResource(resource *model.Resource, previousValue, newValue string) (bool, error) {
	return false, gwerrors.New(gwerrors.ServiceDisabled, "zigbee radio unavailable")
}

func (*NullDriver) FetchRuntimeStats() map[string]string {
	return map[string]string{"connected": "false"}
}
