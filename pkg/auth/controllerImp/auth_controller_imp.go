package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"cropcal/pkg/auth/controller"
	"cropcal/pkg/middleware"
)

type authCtrl struct{}

func NewAuthController() controller.AuthController { return &authCtrl{} }

// Login pins the farmer id in a cookie so browser clients need not send the
// header on every call. There is no credential check; the id is an opaque key.
func (h *authCtrl) Login(c echo.Context) error {
	var body struct {
		FarmerID string `json:"farmer_id"`
	}
	if err := c.Bind(&body); err != nil {
		return middleware.BadRequest(c, "bad json")
	}
	id := strings.TrimSpace(body.FarmerID)
	if id == "" {
		id = strings.TrimSpace(c.QueryParam("farmer_id"))
	}
	if id == "" {
		return middleware.BadRequest(c, "farmer_id is required")
	}
	c.SetCookie(&http.Cookie{Name: middleware.FarmerCookie, Value: id, Path: "/", HttpOnly: true})
	return c.JSON(http.StatusOK, map[string]string{"farmer_id": id})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"farmer_id": middleware.FarmerID(c)})
}
