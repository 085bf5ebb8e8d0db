package controllerImp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"cropcal/entities"
	"cropcal/pkg/middleware"
	"cropcal/pkg/observation/service"
	plotsvc "cropcal/pkg/plot/service"
)

type ObservationCtrl struct {
	s     service.ObservationService
	plots plotsvc.PlotService
}

func New(s service.ObservationService, plots plotsvc.PlotService) *ObservationCtrl {
	return &ObservationCtrl{s: s, plots: plots}
}

type obsReq struct {
	ObservedAt  string  `json:"observed_at"`
	MaturityPct float64 `json:"maturity_pct"`
	HealthTrend string  `json:"health_trend"`
	Note        string  `json:"note"`
	PhotoURL    string  `json:"photo_url"`
}

func (h *ObservationCtrl) Create(c echo.Context) error {
	plotID := c.Param("id")
	if _, err := h.plots.GetPlot(c.Request().Context(), plotID, middleware.FarmerID(c)); err != nil {
		return middleware.JSONError(c, err)
	}
	var req obsReq
	if err := c.Bind(&req); err != nil {
		return middleware.BadRequest(c, "bad json")
	}
	o := &entities.Observation{
		PlotID:      plotID,
		MaturityPct: req.MaturityPct,
		HealthTrend: entities.HealthTrend(req.HealthTrend),
		Note:        req.Note,
		PhotoURL:    req.PhotoURL,
	}
	if req.ObservedAt != "" {
		t, err := time.Parse(time.RFC3339, req.ObservedAt)
		if err != nil {
			d, derr := entities.ParseDay(req.ObservedAt)
			if derr != nil {
				return middleware.BadRequest(c, "observed_at must be RFC3339 or YYYY-MM-DD")
			}
			t = d
		}
		o.ObservedAt = t
	}
	out, err := h.s.Record(c.Request().Context(), o)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ObservationCtrl) List(c echo.Context) error {
	plotID := c.Param("id")
	if _, err := h.plots.GetPlot(c.Request().Context(), plotID, middleware.FarmerID(c)); err != nil {
		return middleware.JSONError(c, err)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 60
	}
	out, err := h.s.Recent(c.Request().Context(), plotID, limit)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	if out == nil {
		out = []entities.Observation{}
	}
	return c.JSON(http.StatusOK, out)
}
