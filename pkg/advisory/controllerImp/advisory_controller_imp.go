package controllerImp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"cropcal/entities"
	"cropcal/pkg/advisory/service"
	"cropcal/pkg/middleware"
)

type AdvisoryCtrl struct{ s service.AdvisoryService }

func New(s service.AdvisoryService) *AdvisoryCtrl { return &AdvisoryCtrl{s} }

type ingestReq struct {
	Title     string  `json:"title"`
	Tags      string  `json:"tags"`
	Text      string  `json:"text"`
	SourceURL *string `json:"source_url"`
}

func (h *AdvisoryCtrl) IngestText(c echo.Context) error {
	var req ingestReq
	if err := c.Bind(&req); err != nil {
		return middleware.BadRequest(c, "invalid json: "+err.Error())
	}
	src := ""
	if req.SourceURL != nil {
		src = *req.SourceURL
	}
	doc, err := h.s.Ingest(c.Request().Context(), req.Title, req.Tags, req.Text, src)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *AdvisoryCtrl) IngestURL(c echo.Context) error {
	var body struct {
		URL   string `json:"url"`
		Tags  string `json:"tags"`
		Title string `json:"title"`
	}
	if err := c.Bind(&body); err != nil || body.URL == "" {
		return middleware.BadRequest(c, "url required")
	}
	doc, err := h.s.IngestURL(c.Request().Context(), body.URL, body.Title, body.Tags)
	switch {
	case errors.Is(err, service.ErrDomainNotAllowed):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, entities.ErrInvalidInput):
		return middleware.JSONError(c, err)
	case err != nil:
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *AdvisoryCtrl) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return middleware.BadRequest(c, "q required")
	}
	k, _ := strconv.Atoi(c.QueryParam("k"))
	if k <= 0 {
		k = 6
	}
	docs, err := h.s.Search(c.Request().Context(), q, k)
	if err != nil {
		return middleware.JSONError(c, err)
	}
	if docs == nil {
		docs = []entities.AdvisoryDocument{}
	}
	return c.JSON(http.StatusOK, docs)
}
