package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/venue-analytics-service/internal/analytics"
)

// errorMessages are the client-facing messages of each analytics error kind.
var errorMessages = []struct {
	err error
	msg string
}{
	{analytics.ErrNullParams, "Parameters can't be null"},
	{analytics.ErrInvalidFormat, "Wrong parameter format"},
	{analytics.ErrInvalidTimeRange, "to_time has to be a higher epoch second than from_time"},
	{analytics.ErrCenterNotFound, "Center not found"},
	{analytics.ErrAreaNotFound, "Area not found"},
	{analytics.ErrCustomerNotFound, "Customer not found"},
	{analytics.ErrInvalidPage, "Wrong page number"},
}

// writeError maps analytics error kinds to 400 and everything else to 500.
func writeError(c *gin.Context, err error) {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": m.msg})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
}

// respond writes v as JSON or maps err.
func respond(c *gin.Context, v any, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
