package controllerImp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"cropcal/entities"
	"cropcal/pkg/middleware"
	plotsvc "cropcal/pkg/plot/service"
	"cropcal/pkg/schedule/service"
)

type SchedCtrl struct {
	s     service.ScheduleService
	plots plotsvc.PlotService
}

func New(s service.ScheduleService, plots plotsvc.PlotService) *SchedCtrl {
	return &SchedCtrl{s: s, plots: plots}
}

// owned loads the plot in the path and 404s when it belongs to someone else.
func (h *SchedCtrl) owned(c echo.Context, plotID string) error {
	_, err := h.plots.GetPlot(c.Request().Context(), plotID, middleware.FarmerID(c))
	return err
}

func (h *SchedCtrl) List(c echo.Context) error {
	plotID := c.Param("id")
	if err := h.owned(c, plotID); err != nil {
		return middleware.JSONError(c, err)
	}
	ctx := c.Request().Context()
	var (
		out []entities.ScheduledEvent
		err error
	)
	if st := c.QueryParam("status"); st != "" {
		out, err = h.s.FilterByStatus(ctx, plotID, entities.EventStatus(st))
	} else {
		out, err = h.s.ListByPlot(ctx, plotID)
	}
	if err != nil {
		return middleware.JSONError(c, err)
	}
	if out == nil {
		out = []entities.ScheduledEvent{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SchedCtrl) Upcoming(c echo.Context) error {
	plotID := c.Param("id")
	if err := h.owned(c, plotID); err != nil {
		return middleware.JSONError(c, err)
	}
	return h.upcoming(c, service.Scope{PlotID: plotID})
}

func (h *SchedCtrl) FarmerUpcoming(c echo.Context) error {
	return h.upcoming(c, service.Scope{FarmerID: middleware.FarmerID(c)})
}

func (h *SchedCtrl) upcoming(c echo.Context, scope service.Scope) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	var anchor time.Time
	if from := c.QueryParam("from"); from != "" {
		d, err := entities.ParseDay(from)
		if err != nil {
			return middleware.BadRequest(c, "from must be YYYY-MM-DD")
		}
		anchor = d
	}
	out, err := h.s.ListUpcoming(c.Request().Context(), scope, anchor, days)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type patchReq struct {
	Action           string   `json:"action"`
	NewDate          string   `json:"new_date"`
	Reason           string   `json:"reason"`
	Notes            string   `json:"notes"`
	ActualLaborHours *float64 `json:"actual_labor_hours"`
	ImageRefs        []string `json:"image_refs"`
}

func (h *SchedCtrl) Patch(c echo.Context) error {
	var body patchReq
	if err := c.Bind(&body); err != nil {
		return middleware.BadRequest(c, "bad json")
	}
	action, ok := entities.ParseAction(body.Action)
	if !ok {
		return middleware.BadRequest(c, "action must be one of start, complete, skip, cancel, reschedule")
	}
	p := service.TransitionPayload{
		Reason:           body.Reason,
		Notes:            body.Notes,
		ActualLaborHours: body.ActualLaborHours,
		ImageRefs:        body.ImageRefs,
	}
	if body.NewDate != "" {
		d, err := entities.ParseDay(body.NewDate)
		if err != nil {
			return middleware.BadRequest(c, "new_date must be YYYY-MM-DD")
		}
		p.NewDate = d
	}

	ctx := c.Request().Context()
	ev, err := h.s.Get(ctx, c.Param("event_id"))
	if err != nil {
		return middleware.JSONError(c, err)
	}
	if err := h.owned(c, ev.PlotID); err != nil {
		return middleware.JSONError(c, err)
	}
	out, err := h.s.Transition(ctx, ev.ID, action, p)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
