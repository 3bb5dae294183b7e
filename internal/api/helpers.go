package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// paramID parses a numeric path parameter, returning 0 when invalid
func paramID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
