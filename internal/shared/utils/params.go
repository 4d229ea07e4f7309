package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"nexus/internal/shared/errors"
)

// ParseUintParam parses a numeric ID from a URL path parameter.
func ParseUintParam(c *gin.Context, paramName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(paramName + " is required")
	}

	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, errors.NewValidationError("invalid " + paramName)
	}

	return uint(value), nil
}
