package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ytakahashi/daily-checklist/internal/services"
)

// ChecklistHandler serves the checklist REST endpoints.
type ChecklistHandler struct {
	checklist *services.ChecklistService
}

func NewChecklistHandler(checklist *services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklist: checklist}
}

// GetAllItems handles GET /checklist/items.
func (h *ChecklistHandler) GetAllItems(c echo.Context) error {
	items, err := h.checklist.GetAllItems(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// CreateItems handles POST /checklist/items.
func (h *ChecklistHandler) CreateItems(c echo.Context) error {
	items, err := bindItems(c)
	if err != nil {
		return err
	}

	created, err := h.checklist.CreateItems(c.Request().Context(), items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateItems handles PUT /checklist/items.
func (h *ChecklistHandler) UpdateItems(c echo.Context) error {
	items, err := bindItems(c)
	if err != nil {
		return err
	}

	updated, err := h.checklist.UpdateItems(c.Request().Context(), items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteItem handles DELETE /checklist/items/:id.
func (h *ChecklistHandler) DeleteItem(c echo.Context) error {
	if err := h.checklist.DeleteItem(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetTodayChecklist handles GET /checklist.
func (h *ChecklistHandler) GetTodayChecklist(c echo.Context) error {
	snapshot, err := h.checklist.GetTodayChecklist(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

// MarkItemComplete handles PATCH /checklist/:itemId/complete.
func (h *ChecklistHandler) MarkItemComplete(c echo.Context) error {
	snapshot, err := h.checklist.MarkItemComplete(c.Request().Context(), c.Param("itemId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

// MarkItemUncomplete handles PATCH /checklist/:itemId/uncomplete.
func (h *ChecklistHandler) MarkItemUncomplete(c echo.Context) error {
	snapshot, err := h.checklist.MarkItemUncomplete(c.Request().Context(), c.Param("itemId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

// ResetChecklist handles POST /checklist/reset.
func (h *ChecklistHandler) ResetChecklist(c echo.Context) error {
	snapshot, err := h.checklist.ResetChecklist(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}
