package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/PratikDhanave/venue-analytics-service/internal/analytics"
)

// Pointers distinguish a missing parameter from a zero value.
type rangeQuery struct {
	From *int64 `form:"from" binding:"required"`
	To   *int64 `form:"to" binding:"required"`
}

type liveRangeQuery struct {
	From *int64 `form:"from" binding:"required"`
	To   *int64 `form:"to" binding:"required"`
	Live *bool  `form:"live" binding:"required"`
}

type customersQuery struct {
	From     *int64 `form:"from" binding:"required"`
	To       *int64 `form:"to" binding:"required"`
	Live     *bool  `form:"live" binding:"required"`
	Page     int    `form:"page,default=0"`
	PageSize int    `form:"page_size,default=20"`
}

type historyQuery struct {
	Type     string `form:"type" binding:"required"`
	From     *int64 `form:"from" binding:"required"`
	To       *int64 `form:"to" binding:"required"`
	Interval *int64 `form:"interval" binding:"required"`
}

type heatmapQuery struct {
	From     *int64 `form:"from" binding:"required"`
	To       *int64 `form:"to" binding:"required"`
	Identity string `form:"identity"`
}

type startQuery struct {
	Start *int64 `form:"start" binding:"required"`
}

// bindQuery binds query parameters into obj. A missing required parameter
// yields analytics.ErrNullParams; any other binding failure yields
// analytics.ErrInvalidFormat.
func bindQuery(c *gin.Context, obj any) error {
	err := c.ShouldBindQuery(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return analytics.ErrNullParams
			}
		}
	}
	return analytics.ErrInvalidFormat
}
