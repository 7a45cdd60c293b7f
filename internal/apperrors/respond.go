package apperrors

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/catalog/internal/logger"
)

// ErrorResponse is the JSON envelope every failed request gets.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError writes err as a structured JSON response. Anything that is not
// an *AppError is treated as an internal failure: logged in full, surfaced
// as a bare 500.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !As(err, &appErr) {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		logger.Error("request failed",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", appErr.Error(),
		)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}
