package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/api/types"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
)

// DevicesHandler handles device listing/lookup/removal endpoints.
type DevicesHandler struct {
	app *app.App
}

// NewDevicesHandler creates a new devices handler.
func NewDevicesHandler(a *app.App) *DevicesHandler {
	return &DevicesHandler{app: a}
}

// ListDevices handles GET /devices
// @Summary      List devices
// @Description  Returns every device in the graph, optionally filtered by class and/or subsystem
// @Tags         devices
// @Produce      json
// @Param        deviceClass  query  string  false  "Filter by device class"
// @Param        subsystem    query  string  false  "Filter by owning subsystem"
// @Success      200  {array}  model.Device
// @Router       /devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	devices := h.app.ListDevices(c.Query("deviceClass"), c.Query("subsystem"))
	if devices == nil {
		devices = []*model.Device{}
	}
	c.JSON(http.StatusOK, devices)
}

// GetDevice handles GET /devices/*uri
// @Summary      Get device details
// @Description  Returns the full device graph (endpoints, resources, metadata) for a device URI
// @Tags         devices
// @Produce      json
// @Param        uri  path  string  true  "Device URI, e.g. /abc123"
// @Success      200  {object}  model.Device
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{uri} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	uri := c.Param("uri")

	d, ok := h.app.GetDevice(uri)
	if !ok {
		writeError(c, gwerrors.New(gwerrors.NotFound, "no device at "+uri))
		return
	}

	c.JSON(http.StatusOK, d)
}

// RemoveDevice handles DELETE /devices/*uri
// @Summary      Remove a device
// @Description  Removes a device from the graph and notifies its managing driver
// @Tags         devices
// @Produce      json
// @Param        uri  path  string  true  "Device URI"
// @Success      204  "Device removed successfully"
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{uri} [delete]
func (h *DevicesHandler) RemoveDevice(c *gin.Context) {
	uri := c.Param("uri")

	if err := h.app.RemoveDevice(uri); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMetadata handles GET /metadata
// @Summary      Read a metadata value
// @Tags         metadata
// @Produce      json
// @Param        ownerUri  query  string  true  "Owning device or endpoint URI"
// @Param        name      query  string  true  "Metadata name"
// @Success      200  {object}  types.MetadataResponse
// @Failure      404  {object}  types.ErrorResponse  "Metadata not found"
// @Router       /metadata [get]
func (h *DevicesHandler) GetMetadata(c *gin.Context) {
	ownerURI := c.Query("ownerUri")
	name := c.Query("name")

	value, ok := h.app.GetMetadata(ownerURI, name)
	if !ok {
		writeError(c, gwerrors.New(gwerrors.NotFound, "no metadata "+name+" on "+ownerURI))
		return
	}

	c.JSON(http.StatusOK, types.MetadataResponse{
		OwnerURI: ownerURI,
		Name:     name,
		Value:    value,
	})
}

// SetMetadata handles PUT /metadata
// @Summary      Write a metadata value
// @Tags         metadata
// @Accept       json
// @Produce      json
// @Param        request  body  types.SetMetadataRequest  true  "Metadata to set"
// @Success      200  {object}  types.StatusResponse
// @Router       /metadata [put]
func (h *DevicesHandler) SetMetadata(c *gin.Context) {
	var req types.SetMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   string(gwerrors.InvalidArg),
			Message: "ownerUri and name are required",
		})
		return
	}

	if err := h.app.SetMetadata(req.OwnerURI, req.Name, req.Value); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{Status: "ok"})
}
