package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ytakahashi/daily-checklist/internal/services"
)

// NewRouter wires the REST endpoints and, when webhook is non-nil, the LINE
// webhook endpoint.
func NewRouter(checklist *services.ChecklistService, webhook *WebhookHandler, logger services.Logger) *echo.Echo {
	if logger == nil {
		logger = services.NewNopLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "error", v.Error)
				return nil
			}
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h := NewChecklistHandler(checklist)
	e.GET("/checklist/items", h.GetAllItems)
	e.POST("/checklist/items", h.CreateItems)
	e.PUT("/checklist/items", h.UpdateItems)
	e.DELETE("/checklist/items/:id", h.DeleteItem)

	e.GET("/checklist", h.GetTodayChecklist)
	e.PATCH("/checklist/:itemId/complete", h.MarkItemComplete)
	e.PATCH("/checklist/:itemId/uncomplete", h.MarkItemUncomplete)
	e.POST("/checklist/reset", h.ResetChecklist)

	if webhook != nil {
		e.POST("/webhook", webhook.HandleWebhook)
	}

	return e
}
