package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/venue-analytics-service/internal/analytics"
)

// RegisterCenterRoutes registers the per-center analytics endpoints.
//
// GET /centers/:center/waiting?from&to&live
// GET /centers/:center/waiting/demographics?from&to&live
// GET /centers/:center/areas/statistics?from&to&live
// GET /centers/:center/areas/dwell?from&to
// GET /centers/:center/areas/happiness?from&to
// GET /centers/:center/customers?from&to&live&page&page_size
// GET /centers/:center/customers/:identity/journey
func RegisterCenterRoutes(r gin.IRoutes, svc *analytics.Service) {
	r.GET("/centers/:center/waiting", func(c *gin.Context) {
		var q liveRangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.WaitingStats(c.Request.Context(), c.Param("center"), *q.From, *q.To, *q.Live)
		respond(c, out, err)
	})

	r.GET("/centers/:center/waiting/demographics", func(c *gin.Context) {
		var q liveRangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.WaitingDemographics(c.Request.Context(), c.Param("center"), *q.From, *q.To, *q.Live)
		respond(c, out, err)
	})

	r.GET("/centers/:center/areas/statistics", func(c *gin.Context) {
		var q liveRangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.AreaStatistics(c.Request.Context(), c.Param("center"), *q.From, *q.To, *q.Live)
		respond(c, out, err)
	})

	r.GET("/centers/:center/areas/dwell", func(c *gin.Context) {
		var q rangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.AreaDwellStatistics(c.Request.Context(), c.Param("center"), *q.From, *q.To)
		respond(c, out, err)
	})

	r.GET("/centers/:center/areas/happiness", func(c *gin.Context) {
		var q rangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.AreasHappiness(c.Request.Context(), c.Param("center"), *q.From, *q.To)
		respond(c, out, err)
	})

	r.GET("/centers/:center/customers", func(c *gin.Context) {
		var q customersQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.CustomerList(c.Request.Context(), c.Param("center"), *q.From, *q.To, *q.Live, q.Page, q.PageSize)
		respond(c, out, err)
	})

	r.GET("/centers/:center/customers/:identity/journey", func(c *gin.Context) {
		out, err := svc.CustomerJourney(c.Request.Context(), c.Param("center"), c.Param("identity"))
		respond(c, out, err)
	})
}
