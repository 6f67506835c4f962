package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/api/types"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
)

// ResourcesHandler handles resource read/write/execute/mode-change endpoints.
type ResourcesHandler struct {
	app *app.App
}

// NewControlHandler creates a new resources handler.
func NewControlHandler(a *app.App) *ResourcesHandler {
	return &ResourcesHandler{app: a}
}

// GetResource handles GET /resources/*uri
// @Summary      Read a resource
// @Description  Reads the current value of the resource at the given URI
// @Tags         resources
// @Produce      json
// @Param        uri  path      string  true  "Resource URI, e.g. /abc123/ep/1/r/state"
// @Success      200  {object}  types.ResourceValueResponse
// @Failure      404  {object}  types.ErrorResponse  "Resource not found"
// @Failure      500  {object}  types.ErrorResponse  "Driver error"
// @Router       /resources/{uri} [get]
func (h *ResourcesHandler) GetResource(c *gin.Context) {
	uri := c.Param("uri")

	value, err := h.app.ReadResource(uri)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ResourceValueResponse{
		URI:       uri,
		Value:     value,
		Timestamp: time.Now(),
	})
}

// WriteResource handles PUT /resources/*uri
// @Summary      Write a resource
// @Description  Writes a new value to the resource at the given URI
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        uri      path      string                       true  "Resource URI"
// @Param        request  body      types.WriteResourceRequest  true  "New value"
// @Success      200      {object}  types.ResourceValueResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Resource not found"
// @Failure      403      {object}  types.ErrorResponse  "Resource not writeable"
// @Router       /resources/{uri} [put]
func (h *ResourcesHandler) WriteResource(c *gin.Context) {
	uri := c.Param("uri")

	var req types.WriteResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   string(gwerrors.InvalidArg),
			Message: "value is required",
		})
		return
	}

	if err := h.app.WriteResource(uri, req.Value); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ResourceValueResponse{
		URI:       uri,
		Value:     req.Value,
		Timestamp: time.Now(),
	})
}

// ExecuteResource handles POST /execute/*uri
// @Summary      Execute a resource
// @Description  Invokes the executable resource at the given URI with an argument
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        uri      path      string                         true  "Resource URI"
// @Param        request  body      types.ExecuteResourceRequest  false  "Argument"
// @Success      200      {object}  types.ExecuteResourceResponse
// @Failure      404      {object}  types.ErrorResponse  "Resource not found"
// @Router       /execute/{uri} [post]
func (h *ResourcesHandler) ExecuteResource(c *gin.Context) {
	uri := c.Param("uri")

	var req types.ExecuteResourceRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.app.ExecuteResource(uri, req.Arg)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ExecuteResourceResponse{
		URI:    uri,
		Result: result,
	})
}

// ChangeResourceMode handles PATCH /resources/*uri
// @Summary      Change a resource's access mode
// @Description  Updates the access mode bitmask of the resource at the given URI
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        uri      path  string                            true  "Resource URI"
// @Param        request  body  types.ChangeResourceModeRequest  true  "New mode bitmask"
// @Success      200      {object}  types.StatusResponse
// @Router       /resources/{uri} [patch]
func (h *ResourcesHandler) ChangeResourceMode(c *gin.Context) {
	uri := c.Param("uri")

	var req types.ChangeResourceModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   string(gwerrors.InvalidArg),
			Message: "mode is required",
		})
		return
	}

	if err := h.app.ChangeResourceMode(uri, model.ResourceMode(req.Mode)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{Status: "ok"})
}

// QueryResources handles GET /resources?pattern=...
// @Summary      Query resources by URI pattern
// @Description  Returns every resource matching a URI template pattern with [name] wildcard segments (e.g. "/[uuid]/ep/1/r/state")
// @Tags         resources
// @Produce      json
// @Param        pattern  query  string  true  "URI template pattern"
// @Success      200      {array}  model.Resource
// @Router       /resources [get]
func (h *ResourcesHandler) QueryResources(c *gin.Context) {
	pattern := c.Query("pattern")
	resources, err := h.app.QueryResourcesByUriPattern(pattern)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

// LPMRemaining handles GET /lpm-remaining/:uuid
// @Summary      Query remaining time before low power mode entry trips a device's watchdog
// @Tags         power
// @Produce      json
// @Param        uuid   path   string  true  "Device UUID"
// @Param        delay  query  int     false  "Seconds the gateway intends to stay in low power mode"
// @Success      200    {object}  types.RemainingForLPMResponse
// @Router       /lpm-remaining/{uuid} [get]
func (h *ResourcesHandler) LPMRemaining(c *gin.Context) {
	uuid := c.Param("uuid")
	delay, _ := strconv.ParseInt(c.Query("delay"), 10, 64)

	c.JSON(http.StatusOK, types.RemainingForLPMResponse{
		UUID:             uuid,
		RemainingSeconds: h.app.RemainingForLPM(uuid, delay),
	})
}
