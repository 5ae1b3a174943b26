package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/venue-analytics-service/internal/analytics"
	"github.com/PratikDhanave/venue-analytics-service/internal/auth"
)

// RegisterTimelineRoutes registers the trend, journey and heatmap endpoints
// and the per-customer timelines.
//
// GET /timeline/:center/history?type&from&to&interval
// GET /timeline/:center/journeys/summary?from&to
// GET /timeline/:center/journeys/popular?from&to
// GET /timeline/:center/heatmap?from&to&identity
// GET /timeline/:center/heatmap/dwell?from&to
// GET /timeline/:center/attendance?from&to&live
// GET /centers/:center/customers/:identity/timeline/{stages,happiness,footage}?start
func RegisterTimelineRoutes(r gin.IRoutes, svc *analytics.Service) {
	r.GET("/timeline/:center/history", func(c *gin.Context) {
		var q historyQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		// "ALL" is honored only for the privileged role.
		out, err := svc.History(c.Request.Context(), c.Param("center"), q.Type, *q.From, *q.To, *q.Interval, auth.Role(c))
		respond(c, out, err)
	})

	r.GET("/timeline/:center/journeys/summary", func(c *gin.Context) {
		var q rangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.JourneySummary(c.Request.Context(), c.Param("center"), *q.From, *q.To)
		respond(c, out, err)
	})

	r.GET("/timeline/:center/journeys/popular", func(c *gin.Context) {
		var q rangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.MostTraveledJourneys(c.Request.Context(), c.Param("center"), *q.From, *q.To)
		respond(c, out, err)
	})

	r.GET("/timeline/:center/heatmap", func(c *gin.Context) {
		var q heatmapQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.Heatmap(c.Request.Context(), c.Param("center"), *q.From, *q.To, q.Identity)
		respond(c, out, err)
	})

	r.GET("/timeline/:center/heatmap/dwell", func(c *gin.Context) {
		var q rangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.DwellHeatmap(c.Request.Context(), c.Param("center"), *q.From, *q.To)
		respond(c, out, err)
	})

	r.GET("/timeline/:center/attendance", func(c *gin.Context) {
		var q liveRangeQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.HistoricAttendance(c.Request.Context(), c.Param("center"), *q.From, *q.To, *q.Live)
		respond(c, out, err)
	})

	r.GET("/centers/:center/customers/:identity/timeline/stages", func(c *gin.Context) {
		var q startQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.StagesTimeline(c.Request.Context(), c.Param("center"), c.Param("identity"), *q.Start)
		respond(c, out, err)
	})

	r.GET("/centers/:center/customers/:identity/timeline/happiness", func(c *gin.Context) {
		var q startQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.HappinessTimeline(c.Request.Context(), c.Param("center"), c.Param("identity"), *q.Start)
		respond(c, out, err)
	})

	r.GET("/centers/:center/customers/:identity/timeline/footage", func(c *gin.Context) {
		var q startQuery
		if err := bindQuery(c, &q); err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.FootageTimeline(c.Request.Context(), c.Param("center"), c.Param("identity"), *q.Start)
		respond(c, out, err)
	})
}
