package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	advisory "cropcal/pkg/advisory/controller"
	auth "cropcal/pkg/auth/controller"
	"cropcal/pkg/middleware"
	observation "cropcal/pkg/observation/controller"
	plan "cropcal/pkg/plan/controller"
	plot "cropcal/pkg/plot/controller"
	schedule "cropcal/pkg/schedule/controller"
)

type Controllers struct {
	Plot        plot.PlotController
	Plan        plan.PlanController
	Schedule    schedule.ScheduleController
	Observation observation.ObservationController
	Advisory    advisory.AdvisoryController
	Auth        auth.AuthController
	Health      interface{ Health(echo.Context) error }
}

func New(e *echo.Echo, log *zap.Logger, requireFarmer bool, c Controllers) *echo.Echo {
	e.Use(middleware.RequestLog(log))
	e.GET("/health", c.Health.Health)
	e.POST("/auth/login", c.Auth.Login)

	api := e.Group("", middleware.Farmer(requireFarmer))

	api.POST("/advisory/ingest", c.Advisory.IngestText)
	api.POST("/advisory/ingest/url", c.Advisory.IngestURL)
	api.GET("/advisory/search", c.Advisory.Search)

	api.POST("/plots", c.Plot.Create)
	api.GET("/plots/:id", c.Plot.Get)

	g := api.Group("/plots")
	g.POST("/:id/calendar", c.Plan.Generate)
	g.POST("/:id/adjust", c.Plan.Adjust)
	g.GET("/:id/adjustments", c.Plan.Adjustments)
	g.POST("/:id/health-signals", c.Plan.HealthSignal)
	g.POST("/:id/treatments", c.Plan.ScheduleTreatment)
	g.DELETE("/:id/treatments/:diagnosis_id", c.Plan.CancelTreatment)
	g.GET("/:id/harvest", c.Plan.Harvest)

	g.GET("/:id/events", c.Schedule.List)
	g.GET("/:id/upcoming", c.Schedule.Upcoming)
	api.GET("/farmers/me", c.Auth.WhoAmI)
	api.GET("/farmers/me/upcoming", c.Schedule.FarmerUpcoming)
	api.PATCH("/events/:event_id", c.Schedule.Patch)

	g.POST("/:id/observations", c.Observation.Create)
	g.GET("/:id/observations", c.Observation.List)
	return e
}
