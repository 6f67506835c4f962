package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/api/types"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
)

// HealthHandler reports overall gateway connectivity.
type HealthHandler struct {
	app *app.App
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{app: a}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the gateway and its registered drivers
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	connected := h.app.IsConnected()

	status := "healthy"
	httpStatus := http.StatusOK
	if !connected {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Connected: connected,
		Timestamp: time.Now(),
	})
}
