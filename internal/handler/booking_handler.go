package handler

import (
	"net/http"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/dto"
	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
	loc *time.Location
}

func NewBookingHandler(svc service.BookingService, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{svc: svc, loc: loc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings/:id", h.GetBooking)
	g.DELETE("/bookings/:id", h.CancelBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start, err := service.ParseBookingTime(req.BookingTime, h.loc)
	if err != nil {
		return toHTTPError(err)
	}

	lines := make([]service.OrderLineInput, len(req.OrderItems))
	for i, oi := range req.OrderItems {
		lines[i] = service.OrderLineInput{MenuItemID: oi.ID, Quantity: oi.Quantity, Price: *oi.Price}
	}

	id, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		BookingTime:   start,
		GuestCount:    req.GuestCount,
		TableID:       req.TableID,
		TotalPrice:    req.TotalPrice,
		OrderItems:    lines,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.BookingCreatedResponse{Message: "booking created", BookingID: id})
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.DataResponse{Message: "success", Data: dto.ToBookingResponse(booking)})
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.DataResponse{Message: "booking cancelled", Data: dto.ToBookingResponse(booking)})
}
