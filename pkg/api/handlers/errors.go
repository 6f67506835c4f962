package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/api/types"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
)

var statusOK = types.StatusResponse{Status: "ok"}

// writeError maps a gwerrors.Kind to an HTTP status and writes the
// response. Errors that don't carry a Kind are reported as 500s.
func writeError(c *gin.Context, err error) {
	var gerr *gwerrors.Error
	if !errors.As(err, &gerr) {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	status := http.StatusInternalServerError
	switch gerr.Kind {
	case gwerrors.InvalidArg, gwerrors.ValueNotAllowed:
		status = http.StatusBadRequest
	case gwerrors.NotFound, gwerrors.NoDescriptor:
		status = http.StatusNotFound
	case gwerrors.NotAllowed:
		status = http.StatusForbidden
	case gwerrors.Timeout:
		status = http.StatusGatewayTimeout
	case gwerrors.ServiceDisabled:
		status = http.StatusServiceUnavailable
	case gwerrors.Duplicate:
		status = http.StatusConflict
	case gwerrors.DriverError, gwerrors.IOError:
		status = http.StatusInternalServerError
	}

	c.JSON(status, types.ErrorResponse{
		Error:   string(gerr.Kind),
		Message: gerr.Message,
	})
}
