package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/dto"
	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/labstack/echo/v4"
)

type TableHandler struct {
	tables service.TableService
	avail  service.AvailabilityService
	loc    *time.Location
}

// NewTableHandler serves the table registry and availability. Zone-less
// datetimes are read in loc.
func NewTableHandler(tables service.TableService, avail service.AvailabilityService, loc *time.Location) *TableHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TableHandler{tables: tables, avail: avail, loc: loc}
}

func (h *TableHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/tables", h.ListTables)
	g.GET("/availability", h.GetAvailability)
}

func (h *TableHandler) ListTables(c echo.Context) error {
	tables, err := h.tables.ListTables(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.DataResponse{Message: "success", Data: tables})
}

func (h *TableHandler) GetAvailability(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("datetime"))
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "datetime query parameter is required")
	}

	requested, err := service.ParseBookingTime(raw, h.loc)
	if err != nil {
		return toHTTPError(err)
	}

	tables, err := h.avail.ComputeAvailability(c.Request().Context(), requested)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		Message:   "success",
		QueryTime: raw,
		Data:      tables,
	})
}
