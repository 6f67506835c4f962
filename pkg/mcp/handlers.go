package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connected := s.app.IsConnected()

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:    status,
		Connected: connected,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	deviceClass, _ := args["deviceClass"].(string)
	subsystem, _ := args["subsystem"].(string)

	devices := s.app.ListDevices(deviceClass, subsystem)

	out := ListDevicesOutput{
		Devices: devices,
		Count:   len(devices),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := requiredString(request, "uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, ok := s.app.GetDevice(uri)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no device at %s", uri)), nil
	}

	return mcp.NewToolResultText(formatJSON(GetDeviceOutput{Device: d})), nil
}

func (s *Server) handleRemoveDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := requiredString(request, "uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.app.RemoveDevice(uri); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove device: %s", err)), nil
	}

	out := RemoveDeviceOutput{
		Success: true,
		Message: fmt.Sprintf("device %q removed", uri),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleReadResource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := requiredString(request, "uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	value, err := s.app.ReadResource(uri)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read resource: %s", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(ReadResourceOutput{URI: uri, Value: value})), nil
}

func (s *Server) handleWriteResource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := requiredString(request, "uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := requiredString(request, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.app.WriteResource(uri, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write resource: %s", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(WriteResourceOutput{URI: uri, Value: value})), nil
}

func (s *Server) handleExecuteResource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := requiredString(request, "uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	arg, _ := request.GetArguments()["arg"].(string)

	result, err := s.app.ExecuteResource(uri, arg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to execute resource: %s", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(ExecuteResourceOutput{URI: uri, Result: result})), nil
}

func (s *Server) handleStartDiscovery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	deviceClass, _ := args["deviceClass"].(string)

	duration := 120
	if d, ok := args["durationSeconds"]; ok {
		if df, ok := d.(float64); ok && df > 0 {
			duration = int(df)
		}
	}

	if err := s.app.StartDiscovery(deviceClass, duration); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start discovery: %s", err)), nil
	}

	out := StartDiscoveryOutput{
		Success:         true,
		DeviceClass:     deviceClass,
		DurationSeconds: duration,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleStopDiscovery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceClass, _ := request.GetArguments()["deviceClass"].(string)

	if err := s.app.StopDiscovery(deviceClass); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to stop discovery: %s", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(StopDiscoveryOutput{Success: true})), nil
}

func (s *Server) handleGetProperty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requiredString(request, "key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	value, ok := s.app.GetProperty(key)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no property %q", key)), nil
	}

	return mcp.NewToolResultText(formatJSON(GetPropertyOutput{Key: key, Value: value})), nil
}

func (s *Server) handleSetProperty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requiredString(request, "key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := requiredString(request, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.app.SetProperty(key, value, "mcp"); err != nil {
		if gerr, ok := err.(*gwerrors.Error); ok {
			return mcp.NewToolResultError(fmt.Sprintf("failed to set property: %s", gerr.Message)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to set property: %s", err)), nil
	}

	out := SetPropertyOutput{Success: true, Key: key, Value: value}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleRuntimeStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.app.RuntimeStats()

	out := RuntimeStatsOutput{
		DeviceCount:    snap.DeviceCount,
		EndpointCount:  snap.EndpointCount,
		ResourceCount:  snap.ResourceCount,
		DriverStats:    snap.DriverStats,
		DevicesByClass: snap.DevicesByClass,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
