package mcp

import "github.com/rdkcentral/zilker-sdk-sub009/pkg/model"

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool.
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	Connected bool   `json:"connected" jsonschema:"description=Whether any registered driver reports a live transport connection"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Devices Tool ---

// ListDevicesOutput is the output for the list_devices tool.
type ListDevicesOutput struct {
	Devices []*model.Device `json:"devices" jsonschema:"description=Devices in the graph"`
	Count   int             `json:"count" jsonschema:"description=Total number of devices returned"`
}

// --- Get Device Tool ---

// GetDeviceOutput is the output for the get_device tool.
type GetDeviceOutput struct {
	Device *model.Device `json:"device" jsonschema:"description=Full device graph (endpoints, resources, metadata)"`
}

// --- Remove Device Tool ---

// RemoveDeviceOutput is the output for the remove_device tool.
type RemoveDeviceOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the removal succeeded"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Read Resource Tool ---

// ReadResourceOutput is the output for the read_resource tool.
type ReadResourceOutput struct {
	URI   string `json:"uri" jsonschema:"description=Resource URI"`
	Value string `json:"value" jsonschema:"description=Current resource value"`
}

// --- Write Resource Tool ---

// WriteResourceOutput is the output for the write_resource tool.
type WriteResourceOutput struct {
	URI   string `json:"uri" jsonschema:"description=Resource URI"`
	Value string `json:"value" jsonschema:"description=Value that was written"`
}

// --- Execute Resource Tool ---

// ExecuteResourceOutput is the output for the execute_resource tool.
type ExecuteResourceOutput struct {
	URI    string `json:"uri" jsonschema:"description=Resource URI"`
	Result string `json:"result" jsonschema:"description=Result returned by the executable resource"`
}

// --- Start Discovery Tool ---

// StartDiscoveryOutput is the output for the start_discovery tool.
type StartDiscoveryOutput struct {
	Success         bool   `json:"success" jsonschema:"description=Whether the join window was opened"`
	DeviceClass     string `json:"deviceClass,omitempty" jsonschema:"description=Device class the window was opened for, empty means every driver"`
	DurationSeconds int    `json:"durationSeconds" jsonschema:"description=Duration the join window will remain open"`
}

// --- Stop Discovery Tool ---

// StopDiscoveryOutput is the output for the stop_discovery tool.
type StopDiscoveryOutput struct {
	Success bool `json:"success" jsonschema:"description=Whether the join window was closed"`
}

// --- Get Property Tool ---

// GetPropertyOutput is the output for the get_property tool.
type GetPropertyOutput struct {
	Key   string `json:"key" jsonschema:"description=Property key"`
	Value string `json:"value" jsonschema:"description=Property value"`
}

// --- Set Property Tool ---

// SetPropertyOutput is the output for the set_property tool.
type SetPropertyOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the property was written"`
	Key     string `json:"key" jsonschema:"description=Property key"`
	Value   string `json:"value" jsonschema:"description=New property value"`
}

// --- Runtime Stats Tool ---

// RuntimeStatsOutput mirrors stats.Snapshot for tool output.
type RuntimeStatsOutput struct {
	DeviceCount    int                          `json:"deviceCount"`
	EndpointCount  int                          `json:"endpointCount"`
	ResourceCount  int                          `json:"resourceCount"`
	DriverStats    map[string]map[string]string `json:"driverStats"`
	DevicesByClass map[string]int               `json:"devicesByClass"`
}
