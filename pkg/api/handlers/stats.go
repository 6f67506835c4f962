package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
)

// StatsHandler exposes runtime counters for the gateway and its drivers.
type StatsHandler struct {
	app *app.App
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(a *app.App) *StatsHandler {
	return &StatsHandler{app: a}
}

// GetStats handles GET /stats
// @Summary      Runtime statistics
// @Description  Device/endpoint/resource counts and per-driver runtime stats
// @Tags         stats
// @Produce      json
// @Success      200  {object}  stats.Snapshot
// @Router       /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.RuntimeStats())
}
