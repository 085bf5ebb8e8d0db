package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

type modelCounter interface{ Len() int }

type HealthCtrl struct {
	db     *gorm.DB
	models modelCounter
}

func NewHealthCtrl(db *gorm.DB, models modelCounter) *HealthCtrl {
	return &HealthCtrl{db: db, models: models}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := sub{OK: true}
	if h.db == nil {
		db = sub{Err: "gorm db is nil"}
	} else if sqlDB, err := h.db.DB(); err != nil {
		db = sub{Err: "db.DB(): " + err.Error()}
	} else if err := sqlDB.PingContext(ctx); err != nil {
		db = sub{Err: "ping: " + err.Error()}
	}

	catalog := sub{OK: true}
	crops := 0
	if h.models != nil {
		crops = h.models.Len()
	}
	if crops == 0 {
		catalog = sub{Err: "growth catalog is empty"}
	}

	allOK := db.OK && catalog.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database":       db,
			"growth_catalog": catalog,
		},
		"crops": crops,
		"time":  time.Now().UTC().Format(time.RFC3339),
	})
}
