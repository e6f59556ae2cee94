package handler

import (
	"fmt"
	"net/http"

	"github.com/Eursukkul/restaurant-booking/internal/dto"
	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/labstack/echo/v4"
)

type MenuHandler struct {
	svc service.MenuService
}

func NewMenuHandler(svc service.MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

func (h *MenuHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/menu", h.ListMenu)
	g.POST("/menu", h.CreateMenuItem)
	g.PUT("/menu/:id", h.UpdateMenuItem)
	g.DELETE("/menu/:id", h.DeleteMenuItem)
}

func (h *MenuHandler) ListMenu(c echo.Context) error {
	items, err := h.svc.ListMenu(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.DataResponse{Message: "success", Data: items})
}

func (h *MenuHandler) CreateMenuItem(c echo.Context) error {
	var req dto.CreateMenuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.svc.CreateMenuItem(c.Request().Context(), service.CreateMenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.DataResponse{Message: "menu item created", Data: item})
}

func (h *MenuHandler) UpdateMenuItem(c echo.Context) error {
	id, err := parseID(c, "menu item")
	if err != nil {
		return err
	}

	var req dto.UpdateMenuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := service.MenuItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	}
	if req.IsAvailable != nil {
		v := bool(*req.IsAvailable)
		patch.IsAvailable = &v
	}

	changes, err := h.svc.UpdateMenuItem(c.Request().Context(), id, patch)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ChangesResponse{
		Message: fmt.Sprintf("menu item %d updated", id),
		Changes: changes,
	})
}

func (h *MenuHandler) DeleteMenuItem(c echo.Context) error {
	id, err := parseID(c, "menu item")
	if err != nil {
		return err
	}

	changes, err := h.svc.DeleteMenuItem(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ChangesResponse{
		Message: fmt.Sprintf("menu item %d deleted", id),
		Changes: changes,
	})
}
