package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	farmerKey    = "farmer_id"
	FarmerCookie = "FARMER_ID"
	farmerHeader = "X-Farmer-Id"
	devFarmer    = "farmer-dev"
)

// Farmer resolves the caller's farmer id from the X-Farmer-Id header, the
// FARMER_ID cookie or a ?farmer_id= query. With required=false a missing id
// falls back to a development farmer; with required=true it is a 401.
func Farmer(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(farmerHeader)
			if id == "" {
				if ck, err := c.Cookie(FarmerCookie); err == nil {
					id = ck.Value
				}
			}
			if id == "" {
				if q := c.QueryParam("farmer_id"); q != "" {
					c.SetCookie(&http.Cookie{Name: FarmerCookie, Value: q, Path: "/"})
					id = q
				}
			}
			if id == "" {
				if required {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing farmer id"})
				}
				id = devFarmer
				c.SetCookie(&http.Cookie{Name: FarmerCookie, Value: id, Path: "/"})
			}
			c.Set(farmerKey, id)
			return next(c)
		}
	}
}

// FarmerID returns the id set by Farmer, or "" outside it.
func FarmerID(c echo.Context) string {
	id, _ := c.Get(farmerKey).(string)
	return id
}
