package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
)

// PowerHandler handles low power mode and descriptor reprocessing endpoints.
type PowerHandler struct {
	app *app.App
}

// NewPowerHandler creates a new power/descriptor handler.
func NewPowerHandler(a *app.App) *PowerHandler {
	return &PowerHandler{app: a}
}

// EnterLPM handles POST /lpm/enter
// @Summary      Enter low power mode
// @Description  Notifies every driver that the system is entering low power mode
// @Tags         power
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /lpm/enter [post]
func (h *PowerHandler) EnterLPM(c *gin.Context) {
	if err := h.app.EnterLowPowerMode(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

// ExitLPM handles POST /lpm/exit
// @Summary      Exit low power mode
// @Tags         power
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /lpm/exit [post]
func (h *PowerHandler) ExitLPM(c *gin.Context) {
	if err := h.app.ExitLowPowerMode(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

// ReprocessDescriptors handles POST /descriptors/reprocess
// @Summary      Reprocess device descriptors
// @Description  Forces every stored device to re-evaluate its descriptor against the current catalog
// @Tags         descriptors
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /descriptors/reprocess [post]
func (h *PowerHandler) ReprocessDescriptors(c *gin.Context) {
	if err := h.app.ReprocessDescriptors(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}
