package controllerImp

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"cropcal/entities"
	"cropcal/pkg/middleware"
	"cropcal/pkg/plan/service"
	plotsvc "cropcal/pkg/plot/service"
	"cropcal/pkg/weather"
)

type PlanCtrl struct {
	svc   service.PlanService
	plots plotsvc.PlotService
}

func NewPlanCtrl(svc service.PlanService, plots plotsvc.PlotService) *PlanCtrl {
	return &PlanCtrl{svc: svc, plots: plots}
}

func (h *PlanCtrl) plot(c echo.Context) (*entities.Plot, error) {
	return h.plots.GetPlot(c.Request().Context(), c.Param("id"), middleware.FarmerID(c))
}

// weatherBody reads an optional {"weather": {...}} body. An empty body or a
// missing key means the configured provider is asked instead.
func weatherBody(c echo.Context) (*entities.WeatherSignal, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var body struct {
		Weather json.RawMessage `json:"weather"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	if len(body.Weather) == 0 || string(body.Weather) == "null" {
		return nil, nil
	}
	return weather.DecodeSignal(body.Weather)
}

func (h *PlanCtrl) Generate(c echo.Context) error {
	p, err := h.plot(c)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	sig, err := weatherBody(c)
	if err != nil {
		return middleware.BadRequest(c, "bad weather signal: "+err.Error())
	}
	res, err := h.svc.GenerateCalendar(c.Request().Context(), p.ID, sig)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	if c.QueryParam("format") == "calendar" {
		cal := map[string][]entities.ScheduledEvent{}
		for _, ev := range res.Events {
			ds := ev.ScheduledDate.Format(entities.DateLayout)
			cal[ds] = append(cal[ds], ev)
		}
		return c.JSON(http.StatusCreated, map[string]any{
			"plot_id":    res.PlotID,
			"calendar":   cal,
			"harvest":    res.Harvest,
			"confidence": res.Confidence,
			"warnings":   res.Warnings,
			"advisories": res.Advisories,
		})
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *PlanCtrl) Adjust(c echo.Context) error {
	p, err := h.plot(c)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	sig, err := weatherBody(c)
	if err != nil {
		return middleware.BadRequest(c, "bad weather signal: "+err.Error())
	}
	rep, err := h.svc.AdjustForWeather(c.Request().Context(), p.ID, sig)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *PlanCtrl) Adjustments(c echo.Context) error {
	p, err := h.plot(c)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.svc.Adjustments(c.Request().Context(), p.ID, limit)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	if logs == nil {
		logs = []entities.AdjustmentLog{}
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *PlanCtrl) HealthSignal(c echo.Context) error {
	p, err := h.plot(c)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	var sig entities.HealthSignal
	if err := c.Bind(&sig); err != nil {
		return middleware.BadRequest(c, "bad json")
	}
	sig.PlotID = p.ID
	res, err := h.svc.InjectFromHealthSignal(c.Request().Context(), sig)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	status := http.StatusCreated
	if len(res.Events) == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, res)
}

type treatmentReq struct {
	DiagnosisDate string `json:"diagnosis_date"`
	entities.TreatmentPlan
}

func (h *PlanCtrl) ScheduleTreatment(c echo.Context) error {
	p, err := h.plot(c)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	var req treatmentReq
	if err := c.Bind(&req); err != nil {
		return middleware.BadRequest(c, "bad json")
	}
	date := time.Now().UTC()
	if req.DiagnosisDate != "" {
		if date, err = entities.ParseDay(req.DiagnosisDate); err != nil {
			return middleware.BadRequest(c, "diagnosis_date must be YYYY-MM-DD")
		}
	}
	res, err := h.svc.ScheduleTreatment(c.Request().Context(), p.ID, req.TreatmentPlan, date)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	status := http.StatusCreated
	if len(res.Events) == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, res)
}

func (h *PlanCtrl) CancelTreatment(c echo.Context) error {
	p, err := h.plot(c)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	evs, err := h.svc.CancelTreatment(c.Request().Context(), p.ID, c.Param("diagnosis_id"), c.QueryParam("reason"))
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cancelled": len(evs), "events": evs})
}

func (h *PlanCtrl) Harvest(c echo.Context) error {
	p, err := h.plot(c)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	rep, err := h.svc.RefineHarvest(c.Request().Context(), p.ID)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
