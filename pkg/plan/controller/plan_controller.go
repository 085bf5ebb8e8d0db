package controller

import "github.com/labstack/echo/v4"

type PlanController interface {
	Generate(c echo.Context) error
	Adjust(c echo.Context) error
	Adjustments(c echo.Context) error
	HealthSignal(c echo.Context) error
	ScheduleTreatment(c echo.Context) error
	CancelTreatment(c echo.Context) error
	Harvest(c echo.Context) error
}
