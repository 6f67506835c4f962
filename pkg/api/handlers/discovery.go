package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/api/types"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
)

// DiscoveryHandler handles join-window and live event endpoints.
type DiscoveryHandler struct {
	app *app.App
}

// NewDiscoveryHandler creates a new discovery handler.
func NewDiscoveryHandler(a *app.App) *DiscoveryHandler {
	return &DiscoveryHandler{app: a}
}

// StartDiscovery handles POST /discovery/start
// @Summary      Start device discovery
// @Description  Opens the join window for a device class (or every driver if omitted) for a duration
// @Tags         discovery
// @Accept       json
// @Produce      json
// @Param        request  body      types.StartDiscoveryRequest  false  "Device class and duration (default 120 seconds, max 600)"
// @Success      200      {object}  types.DiscoveryStatusResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid duration"
// @Failure      500      {object}  types.ErrorResponse  "Driver error"
// @Router       /discovery/start [post]
func (h *DiscoveryHandler) StartDiscovery(c *gin.Context) {
	var req types.StartDiscoveryRequest
	_ = c.ShouldBindJSON(&req)

	if req.DurationSeconds <= 0 {
		req.DurationSeconds = 120
	}
	if req.DurationSeconds > 600 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_duration",
			Message: "duration cannot exceed 600 seconds",
		})
		return
	}

	if err := h.app.StartDiscovery(req.DeviceClass, req.DurationSeconds); err != nil {
		writeError(c, err)
		return
	}

	expiresAt := time.Now().Add(time.Duration(req.DurationSeconds) * time.Second)

	c.JSON(http.StatusOK, types.DiscoveryStatusResponse{
		Status:          "discovery_started",
		DeviceClass:     req.DeviceClass,
		DurationSeconds: req.DurationSeconds,
		ExpiresAt:       expiresAt,
	})
}

// StopDiscovery handles POST /discovery/stop
// @Summary      Stop device discovery
// @Tags         discovery
// @Accept       json
// @Produce      json
// @Param        request  body      types.StopDiscoveryRequest  false  "Device class to close (default all)"
// @Success      200      {object}  types.DiscoveryStatusResponse
// @Router       /discovery/stop [post]
func (h *DiscoveryHandler) StopDiscovery(c *gin.Context) {
	var req types.StopDiscoveryRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.app.StopDiscovery(req.DeviceClass); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DiscoveryStatusResponse{
		Status:      "discovery_stopped",
		DeviceClass: req.DeviceClass,
	})
}

// Events handles GET /discovery/events (SSE stream)
// @Summary      Subscribe to gateway events
// @Description  Server-Sent Events stream of device/endpoint/resource lifecycle and communication events
// @Tags         discovery
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE event stream"
// @Router       /discovery/events [get]
func (h *DiscoveryHandler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	eventChan := h.app.Bus.Subscribe(16)
	defer h.app.Bus.Unsubscribe(eventChan)

	sendSSEEvent(c.Writer, "connected", map[string]any{
		"timestamp": time.Now(),
	})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case evt, ok := <-eventChan:
			if !ok {
				return
			}
			sendSSEEvent(c.Writer, string(evt.Kind), evt)
			c.Writer.Flush()

		case <-ticker.C:
			sendSSEEvent(c.Writer, "heartbeat", map[string]any{
				"timestamp": time.Now(),
			})
			c.Writer.Flush()
		}
	}
}

func sendSSEEvent(w io.Writer, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	io.WriteString(w, "event: "+eventType+"\n")
	io.WriteString(w, "data: "+string(jsonData)+"\n\n")
}
