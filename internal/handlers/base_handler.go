package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storefront/catalog/internal/apperrors"
	"github.com/storefront/catalog/internal/logger"
)

type BaseHandler struct{}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds the request body and answers the request itself on
// failure. Returns false when the caller should stop.
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.Debug("failed to bind request body", "path", c.Request.URL.Path, "error", err)
		apperrors.HandleError(c, apperrors.BadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return true
}

// ParseID reads the :id path parameter. Returns false after answering the
// request when the parameter is not a positive integer.
func (h *BaseHandler) ParseID(c *gin.Context) (uint, bool) {
	value, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || value == 0 {
		apperrors.HandleError(c, apperrors.BadRequestError("Invalid id parameter"))
		return 0, false
	}
	return uint(value), true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseQueryUint(c *gin.Context, key string) *uint {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(value)
	return &v
}

func parseQueryFloat(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
