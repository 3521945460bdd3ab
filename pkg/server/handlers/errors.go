package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/verity/pkg/server/dto"
	"github.com/soundprediction/verity/pkg/types"
)

// writeError renders err with the status its kind maps to.
func writeError(c *gin.Context, err error) {
	status := types.HTTPStatus(err)
	resp := dto.ErrorResponse{Code: status}

	var se *types.SearchError
	if errors.As(err, &se) {
		resp.Error = string(se.Kind)
		resp.Message = se.Detail()
		if se.Kind == types.KindGeneration {
			resp.Category = string(se.Category)
		}
	} else {
		resp.Error = "internal_error"
		resp.Message = err.Error()
	}

	c.JSON(status, resp)
}

// writeBadRequest renders a user-correctable input problem.
func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   string(types.KindInvalidInput),
		Message: message,
		Code:    http.StatusBadRequest,
	})
}
