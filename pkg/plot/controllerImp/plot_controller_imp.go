package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cropcal/entities"
	"cropcal/pkg/middleware"
	"cropcal/pkg/plot/service"
)

type PlotCtrl struct{ s service.PlotService }

func New(s service.PlotService) *PlotCtrl { return &PlotCtrl{s} }

type createReq struct {
	ID           string                `json:"id"`
	CropName     string                `json:"crop_name"`
	Variety      string                `json:"variety"`
	PlantingDate string                `json:"planting_date"`
	Location     entities.Location     `json:"location"`
	Soil         *entities.SoilSummary `json:"soil"`
}

func (h *PlotCtrl) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return middleware.BadRequest(c, "bad json")
	}
	pd, err := entities.ParseDay(req.PlantingDate)
	if err != nil {
		return middleware.BadRequest(c, "planting_date must be YYYY-MM-DD")
	}
	p := &entities.Plot{
		ID:           req.ID,
		FarmerID:     middleware.FarmerID(c),
		CropName:     req.CropName,
		Variety:      req.Variety,
		PlantingDate: pd,
		Location:     req.Location,
		Soil:         req.Soil,
	}
	out, err := h.s.CreatePlot(c.Request().Context(), p)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PlotCtrl) Get(c echo.Context) error {
	p, err := h.s.GetPlot(c.Request().Context(), c.Param("id"), middleware.FarmerID(c))
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
