package zigbee

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/descriptor"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/watchdog"
)

// defaultCommFailTimeoutSecs is armed for every zigbee device onboarded
// through this driver; HA end devices that miss this many seconds of
// traffic are declared comm-failed by the watchdog.
const defaultCommFailTimeoutSecs = 3600

// KnownDevice tracks a Zigbee device discovered on the network, kept
// in the driver's own working set alongside the device graph the store
// holds once onboarding completes.
type KnownDevice struct {
	IEEEAddress [8]byte
	NodeID      uint16
	Endpoint    uint8
	State       map[string]string
}

// Driver implements driver.Driver for direct EZSP communication with a
// Sonoff Zigbee dongle. It owns device discovery (trust center join
// callbacks become driver.DeviceFoundDetails handed to OnDeviceFound)
// and the runtime read/write/execute path against ZCL clusters.
type Driver struct {
	driver.BaseDriver

	serial *SerialPort
	ash    *ASHLayer
	ezsp   *EZSPLayer

	devices   map[string]*KnownDevice // IEEE hex string -> device
	devicesMu sync.RWMutex

	bus      *events.Bus
	watchdog *watchdog.Watchdog

	// OnDeviceFound is invoked from the EZSP callback goroutine whenever
	// a new device joins the network. The lifecycle orchestrator wires
	// this to Onboard. Left nil, newly joined devices are tracked
	// locally but never reach the device graph.
	OnDeviceFound func(driver.DeviceFoundDetails)

	connected bool
	connMu    sync.RWMutex
}

// NewDriver creates and initializes a Zigbee EZSP driver bound to
// portPath, publishing communication events on bus and petting wd
// whenever a known device sends an incoming ZCL message.
func NewDriver(portPath string, bus *events.Bus, wd *watchdog.Watchdog) (*Driver, error) {
	log.Info().Str("port", portPath).Msg("Initializing Zigbee driver")
	s, err := OpenSerial(portPath)
	if err != nil {
		return nil, fmt.Errorf("open serial: %w", err)
	}

	ash := NewASHLayer(s)
	ezsp := NewEZSPLayer(ash)

	d := &Driver{
		serial:   s,
		ash:      ash,
		ezsp:     ezsp,
		devices:  make(map[string]*KnownDevice),
		bus:      bus,
		watchdog: wd,
	}

	ezsp.SetCallbackHandler(d.handleCallback)

	log.Info().Msg("Connecting ASH layer")
	if err := ash.Connect(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ASH connect: %w", err)
	}

	log.Info().Msg("Starting EZSP processing")
	ezsp.Start()

	log.Info().Msg("Initializing EZSP stack")
	if err := d.initStack(); err != nil {
		d.Shutdown()
		return nil, fmt.Errorf("init stack: %w", err)
	}

	d.connMu.Lock()
	d.connected = true
	d.connMu.Unlock()

	log.Info().Msg("Zigbee driver initialized")
	return d, nil
}

// Name identifies this driver in the registry; it doubles as the
// subsystem name new devices are discovered through.
func (d *Driver) Name() string { return "zigbee" }

// initStack performs EZSP version negotiation, stack configuration, and network setup.
func (d *Driver) initStack() error {
	log.Info().Msg("Negotiating EZSP version")
	proto, _, stackVer, err := d.ezsp.NegotiateVersion()
	if err != nil {
		return err
	}
	log.Info().Uint8("protocol", proto).Uint16("stack", stackVer).Msg("EZSP version OK")

	log.Info().Msg("Configuring EZSP stack")
	if err := d.ezsp.ConfigureStack(); err != nil {
		return err
	}

	log.Info().Msg("Initializing Zigbee network")
	status, err := d.ezsp.NetworkInit()
	if err != nil {
		return err
	}

	if status == emberSuccess || status == emberNetworkUp {
		log.Info().Msg("Resumed existing Zigbee network")
		return nil
	}

	log.Info().Uint8("status", status).Msg("No existing network, forming new one")

	channel := uint8(15)
	panID := uint16(rand.Intn(0xFFFE) + 1)
	var extPanID [8]byte
	for i := range extPanID {
		extPanID[i] = byte(rand.Intn(256))
	}

	if err := d.ezsp.FormNetwork(channel, panID, extPanID); err != nil {
		return fmt.Errorf("form network: %w", err)
	}

	time.Sleep(500 * time.Millisecond)
	return nil
}

// handleCallback processes async EZSP callbacks from the NCP.
func (d *Driver) handleCallback(frameID uint16, data []byte) {
	switch frameID {
	case ezspTrustCenterJoinHandler:
		d.handleTrustCenterJoin(data)
	case ezspIncomingMessageHandler:
		d.handleIncomingMessage(data)
	case ezspStackStatusHandler:
		d.handleStackStatus(data)
	default:
		log.Debug().Uint16("frameID", frameID).Msg("Unhandled EZSP callback")
	}
}

// handleTrustCenterJoin processes device join/leave events.
func (d *Driver) handleTrustCenterJoin(data []byte) {
	if len(data) < 11 {
		return
	}

	nodeID := binary.LittleEndian.Uint16(data[0:2])
	var ieee [8]byte
	copy(ieee[:], data[2:10])
	status := data[10]

	ieeeStr := formatIEEE(ieee)

	log.Info().
		Str("ieee", ieeeStr).
		Uint16("nodeID", nodeID).
		Uint8("status", status).
		Msg("Trust center join event")

	// Status 3 = DEVICE_LEFT.
	if status == 3 {
		d.devicesMu.Lock()
		delete(d.devices, ieeeStr)
		d.devicesMu.Unlock()

		if d.bus != nil {
			d.bus.Publish(events.Event{
				Kind:       events.CommunicationFailed,
				Timestamp:  time.Now(),
				DeviceUUID: ieeeStr,
			})
		}
		return
	}

	kd := &KnownDevice{
		IEEEAddress: ieee,
		NodeID:      nodeID,
		Endpoint:    1, // most HA devices use endpoint 1
		State:       make(map[string]string),
	}

	d.devicesMu.Lock()
	d.devices[ieeeStr] = kd
	d.devicesMu.Unlock()

	if d.OnDeviceFound != nil {
		d.OnDeviceFound(driver.DeviceFoundDetails{
			UUID:                ieeeStr,
			DeviceClass:         "light",
			DiscoveredVia:       d.Name(),
			Address:             ieeeStr,
			EndpointProfileMap:  map[string]string{"1": "light"},
			CommFailTimeoutSecs: defaultCommFailTimeoutSecs,
		})
	}
}

// handleIncomingMessage processes incoming ZCL messages from devices
// and pets the watchdog for the originating device's liveness entry.
func (d *Driver) handleIncomingMessage(data []byte) {
	// type(1) + apsFrame(12) + lastHopLqi(1) + lastHopRssi(1) + sender(2) + bindingIndex(1) + addressIndex(1) + messageLength(1) + message(N)
	if len(data) < 20 {
		return
	}

	clusterID := binary.LittleEndian.Uint16(data[3:5])
	sender := binary.LittleEndian.Uint16(data[15:17])
	msgLen := data[19]

	if len(data) < 20+int(msgLen) {
		return
	}
	message := data[20 : 20+int(msgLen)]

	log.Debug().
		Uint16("cluster", clusterID).
		Uint16("sender", sender).
		Int("msgLen", int(msgLen)).
		Msg("Incoming ZCL message")

	d.devicesMu.Lock()
	var ieeeStr string
	var kd *KnownDevice
	for ieee, known := range d.devices {
		if known.NodeID == sender {
			ieeeStr, kd = ieee, known
			break
		}
	}
	if kd != nil {
		d.updateDeviceStateFromZCL(kd, clusterID, message)
	}
	d.devicesMu.Unlock()

	if kd == nil {
		return
	}
	if d.watchdog != nil {
		d.watchdog.Pet(ieeeStr)
	}
}

// updateDeviceStateFromZCL updates device state based on ZCL message content.
func (d *Driver) updateDeviceStateFromZCL(kd *KnownDevice, clusterID uint16, message []byte) {
	if len(message) < 3 {
		return
	}

	frameControl := message[0]
	cmdID := message[2]
	payload := message[3:]

	isGlobal := frameControl&0x01 == 0

	if isGlobal && cmdID == zclGlobalReadAttributesResponse {
		attrs := ParseReadAttributesResponse(payload)
		switch clusterID {
		case zclClusterOnOff:
			if val, ok := attrs[zclAttrOnOff]; ok && len(val) > 0 {
				kd.State["state"] = boolToOnOff(val[0] != 0)
			}
		case zclClusterLevelControl:
			if val, ok := attrs[zclAttrCurrentLevel]; ok && len(val) > 0 {
				kd.State["brightness"] = fmt.Sprintf("%d", val[0])
			}
		}
	}
}

// handleStackStatus processes stack status changes.
func (d *Driver) handleStackStatus(data []byte) {
	if len(data) < 1 {
		return
	}
	status := data[0]
	switch status {
	case emberNetworkUp:
		log.Info().Msg("Stack status: network up")
	case emberNetworkDown:
		log.Warn().Msg("Stack status: network down")
	default:
		log.Info().Uint8("status", status).Msg("Stack status changed")
	}
}

// --- driver.Driver ---

// ClaimDevice claims every device this driver itself discovered; the
// zigbee subsystem is the sole source of its own DeviceFoundDetails.
func (d *Driver) ClaimDevice(details driver.DeviceFoundDetails) bool {
	return details.DiscoveredVia == d.Name()
}

// ConfigureDevice accepts unconditionally; descriptor-driven endpoint
// profile overrides are applied in RegisterResources.
func (d *Driver) ConfigureDevice(device *model.Device, desc *descriptor.Descriptor) bool {
	return true
}

func (d *Driver) FetchInitialResourceValues(device *model.Device, details driver.DeviceFoundDetails, bag *model.InitialResourceValues) bool {
	bag.PutEndpoint("1", "state", "OFF")
	bag.PutEndpoint("1", "brightness", "0")
	return true
}

// RegisterResources builds the single HA light endpoint every joined
// device is assumed to expose: an on/off state resource and a
// brightness level resource, both readable/writeable/event-emitting.
func (d *Driver) RegisterResources(device *model.Device, details driver.DeviceFoundDetails, bag *model.InitialResourceValues) bool {
	ep := &model.Endpoint{ID: "1", Profile: "light", Enabled: true, Metadata: map[string]*model.Metadata{}}
	device.AddEndpoint(ep)

	mode := model.Readable | model.Writeable | model.EmitEvents
	model.CreateEndpointResourceIfAvailable(ep, bag, "state", "string", mode, model.CacheAlways)
	model.CreateEndpointResourceIfAvailable(ep, bag, "brightness", "int", mode, model.CacheAlways)
	return true
}

// ReadResource issues a ZCL Read Attributes request and returns the
// last value the driver has observed for it; the NCP's asynchronous
// response updates local state via handleIncomingMessage, so a caller
// that needs the freshest value should read again shortly after.
func (d *Driver) ReadResource(resource *model.Resource) (string, error) {
	kd, ieeeStr, ok := d.deviceOwning(resource)
	if !ok {
		return "", gwerrors.New(gwerrors.NotFound, "no zigbee device owns resource "+resource.URI())
	}

	var attr uint16
	switch resource.ID {
	case "state":
		attr = zclAttrOnOff
	case "brightness":
		attr = zclAttrCurrentLevel
	default:
		return "", gwerrors.New(gwerrors.NotFound, "unknown resource "+resource.ID)
	}

	readCmd := BuildReadAttributesCommand(attr)
	if err := d.ezsp.SendUnicast(kd.NodeID, zclProfileHA, clusterForResource(resource.ID), 1, kd.Endpoint, readCmd); err != nil {
		return "", gwerrors.Wrap(gwerrors.IOError, "read attributes for "+ieeeStr, err)
	}

	d.devicesMu.RLock()
	value := kd.State[resource.ID]
	d.devicesMu.RUnlock()
	return value, nil
}

// WriteEndpointResource sends the ZCL command corresponding to
// resource.ID and updates the driver's local state cache. It returns
// handledByStore=true so the generic store path persists newValue and
// emits resourceUpdated once the command has been accepted by the
// radio layer.
func (d *Driver) WriteEndpointResource(resource *model.Resource, previousValue, newValue string) (bool, error) {
	kd, ieeeStr, ok := d.deviceOwning(resource)
	if !ok {
		return false, gwerrors.New(gwerrors.NotFound, "no zigbee device owns resource "+resource.URI())
	}

	switch resource.ID {
	case "state":
		var cmd uint8
		switch strings.ToUpper(newValue) {
		case "ON":
			cmd = zclCmdOn
		case "OFF":
			cmd = zclCmdOff
		case "TOGGLE":
			cmd = zclCmdToggle
		default:
			return false, gwerrors.New(gwerrors.InvalidArg, "invalid state value "+newValue)
		}
		payload := BuildOnOffCommand(cmd)
		if err := d.ezsp.SendUnicast(kd.NodeID, zclProfileHA, zclClusterOnOff, 1, kd.Endpoint, payload); err != nil {
			return false, gwerrors.Wrap(gwerrors.IOError, "send on/off command to "+ieeeStr, err)
		}
		d.devicesMu.Lock()
		kd.State["state"] = strings.ToUpper(newValue)
		d.devicesMu.Unlock()

	case "brightness":
		level, err := parseLevel(newValue)
		if err != nil {
			return false, gwerrors.Wrap(gwerrors.InvalidArg, "invalid brightness value "+newValue, err)
		}
		payload := BuildMoveToLevelCommand(level, 10) // 1 second transition
		if err := d.ezsp.SendUnicast(kd.NodeID, zclProfileHA, zclClusterLevelControl, 1, kd.Endpoint, payload); err != nil {
			return false, gwerrors.Wrap(gwerrors.IOError, "send level command to "+ieeeStr, err)
		}
		d.devicesMu.Lock()
		kd.State["brightness"] = newValue
		d.devicesMu.Unlock()

	default:
		return false, gwerrors.New(gwerrors.NotFound, "unknown resource "+resource.ID)
	}

	return true, nil
}

// ExecuteResource accepts the "identify" action for a known device and
// logs it; no cluster command is sent to the device.
func (d *Driver) ExecuteResource(resource *model.Resource, arg string) (string, error) {
	if resource.ID != "identify" {
		return "", gwerrors.New(gwerrors.NotFound, "unknown executable resource "+resource.ID)
	}
	_, ieeeStr, ok := d.deviceOwning(resource)
	if !ok {
		return "", gwerrors.New(gwerrors.NotFound, "no zigbee device owns resource "+resource.URI())
	}
	log.Info().Str("device", ieeeStr).Str("arg", arg).Msg("identify requested (not wired to a cluster command)")
	return "ok", nil
}

// DiscoverDevices opens the trust center to new joins for the default
// duration; deviceClass is ignored since every zigbee device class
// shares one join window.
func (d *Driver) DiscoverDevices(deviceClass string) error {
	return d.ezsp.PermitJoining(254)
}

func (d *Driver) StopDiscovering(deviceClassOrEmpty string) error {
	return d.ezsp.PermitJoining(0)
}

func (d *Driver) FetchRuntimeStats() map[string]string {
	d.devicesMu.RLock()
	defer d.devicesMu.RUnlock()
	return map[string]string{
		"knownDevices": fmt.Sprintf("%d", len(d.devices)),
		"connected":    fmt.Sprintf("%t", d.IsConnected()),
	}
}

// Shutdown tears down the EZSP/ASH/serial stack.
func (d *Driver) Shutdown() error {
	d.connMu.Lock()
	d.connected = false
	d.connMu.Unlock()

	d.ezsp.Close()
	d.ash.Close()
	if err := d.serial.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close serial port")
		return err
	}
	log.Info().Msg("Zigbee driver closed")
	return nil
}

// IsConnected reports whether the ASH transport to the dongle is up.
func (d *Driver) IsConnected() bool {
	d.connMu.RLock()
	defer d.connMu.RUnlock()
	return d.connected && d.ash.IsConnected()
}

// --- Helpers ---

func (d *Driver) deviceOwning(resource *model.Resource) (*KnownDevice, string, bool) {
	ieeeStr := ownerDeviceUUID(resource.OwnerURI)
	d.devicesMu.RLock()
	defer d.devicesMu.RUnlock()
	kd, ok := d.devices[ieeeStr]
	return kd, ieeeStr, ok
}

// ownerDeviceUUID extracts the device uuid segment from a resource's
// owner URI, which is either "/<uuid>" or "/<uuid>/ep/<id>".
func ownerDeviceUUID(ownerURI string) string {
	trimmed := strings.TrimPrefix(ownerURI, "/")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

func clusterForResource(resourceID string) uint16 {
	if resourceID == "brightness" {
		return zclClusterLevelControl
	}
	return zclClusterOnOff
}

func parseLevel(s string) (uint8, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, err
	}
	if n < 0 || n > 254 {
		return 0, fmt.Errorf("level %d out of range [0,254]", n)
	}
	return uint8(n), nil
}

// formatIEEE formats an 8-byte IEEE address as a colon-separated hex string.
func formatIEEE(addr [8]byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x:%02x:%02x",
		addr[7], addr[6], addr[5], addr[4], addr[3], addr[2], addr[1], addr[0])
}

func boolToOnOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
