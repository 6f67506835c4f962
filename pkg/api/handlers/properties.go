package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/api/types"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
)

// PropertiesHandler handles gateway configuration property endpoints.
type PropertiesHandler struct {
	app *app.App
}

// NewPropertiesHandler creates a new properties handler.
func NewPropertiesHandler(a *app.App) *PropertiesHandler {
	return &PropertiesHandler{app: a}
}

// GetProperty handles GET /properties/:key
// @Summary      Read a configuration property
// @Tags         properties
// @Produce      json
// @Param        key  path  string  true  "Property key"
// @Success      200  {object}  types.PropertyResponse
// @Failure      404  {object}  types.ErrorResponse  "Property not found"
// @Router       /properties/{key} [get]
func (h *PropertiesHandler) GetProperty(c *gin.Context) {
	key := c.Param("key")

	value, ok := h.app.GetProperty(key)
	if !ok {
		writeError(c, gwerrors.New(gwerrors.NotFound, "no property "+key))
		return
	}

	c.JSON(http.StatusOK, types.PropertyResponse{Key: key, Value: value})
}

// SetProperty handles PUT /properties/:key
// @Summary      Write a configuration property
// @Description  Writes a property, validated against its type catalog entry
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        key      path  string                      true  "Property key"
// @Param        request  body  types.SetPropertyRequest  true  "New value"
// @Success      200      {object}  types.StatusResponse
// @Failure      400      {object}  types.ErrorResponse  "Validation error"
// @Router       /properties/{key} [put]
func (h *PropertiesHandler) SetProperty(c *gin.Context) {
	key := c.Param("key")

	var req types.SetPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   string(gwerrors.InvalidArg),
			Message: "value is required",
		})
		return
	}
	if req.Src == "" {
		req.Src = "api"
	}

	if err := h.app.SetProperty(key, req.Value, req.Src); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{Status: "ok"})
}
