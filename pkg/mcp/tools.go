package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health status of the gateway and its registered drivers"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List devices in the graph, optionally filtered by class and/or subsystem"),
			mcp.WithString("deviceClass", mcp.Description("Filter by device class (optional)")),
			mcp.WithString("subsystem", mcp.Description("Filter by owning subsystem (optional)")),
		),
		s.handleListDevices,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_device",
			mcp.WithDescription("Get the full device graph (endpoints, resources, metadata) for a device URI"),
			mcp.WithString("uri", mcp.Required(), mcp.Description("Device URI, e.g. /abc123")),
		),
		s.handleGetDevice,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("remove_device",
			mcp.WithDescription("Remove a device from the graph"),
			mcp.WithString("uri", mcp.Required(), mcp.Description("Device URI")),
		),
		s.handleRemoveDevice,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("read_resource",
			mcp.WithDescription("Read the current value of a resource"),
			mcp.WithString("uri", mcp.Required(), mcp.Description("Resource URI, e.g. /abc123/ep/1/r/state")),
		),
		s.handleReadResource,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("write_resource",
			mcp.WithDescription("Write a new value to a writeable resource"),
			mcp.WithString("uri", mcp.Required(), mcp.Description("Resource URI")),
			mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		),
		s.handleWriteResource,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("execute_resource",
			mcp.WithDescription("Invoke an executable resource with an argument"),
			mcp.WithString("uri", mcp.Required(), mcp.Description("Resource URI")),
			mcp.WithString("arg", mcp.Description("Argument to pass (optional)")),
		),
		s.handleExecuteResource,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("start_discovery",
			mcp.WithDescription("Open the join window to allow new devices to pair"),
			mcp.WithString("deviceClass", mcp.Description("Restrict discovery to a device class (optional, default every driver)")),
			mcp.WithNumber("durationSeconds", mcp.Description("How long to keep the window open in seconds (default 120)")),
		),
		s.handleStartDiscovery,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("stop_discovery",
			mcp.WithDescription("Close the join window"),
			mcp.WithString("deviceClass", mcp.Description("Device class to close (optional, default every driver)")),
		),
		s.handleStopDiscovery,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_property",
			mcp.WithDescription("Read a gateway configuration property"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Property key")),
		),
		s.handleGetProperty,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_property",
			mcp.WithDescription("Write a gateway configuration property, validated against its type catalog entry"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Property key")),
			mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		),
		s.handleSetProperty,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("runtime_stats",
			mcp.WithDescription("Get device/endpoint/resource counts and per-driver runtime statistics"),
		),
		s.handleRuntimeStats,
	)
}
