// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", h.HandleHealth)

	// WebSocket progress/notification stream
	apiGroup.GET("/ws", h.HandleWebSocket)

	// Authentication
	apiGroup.POST("/auth/login", h.HandleLogin)
	apiGroup.POST("/auth/register", h.HandleRegister)
	apiGroup.POST("/auth/logout", h.HandleLogout)
	apiGroup.GET("/auth/me", h.HandleMe)

	// File staging
	apiGroup.POST("/files", h.HandleStageFile)
	apiGroup.GET("/files", h.HandleListStaged)
	apiGroup.DELETE("/files", h.HandleClearStaged)
	if h.cfg == nil || h.cfg.Security.AllowFileDeletion {
		apiGroup.DELETE("/files/:name", h.HandleUnstageFile)
	}

	// Option presets
	apiGroup.GET("/presets", h.HandleGetPresets)

	// Batch processing and results
	apiGroup.POST("/process", h.HandleProcess)
	apiGroup.GET("/results", h.HandleListResults)
	apiGroup.GET("/results/:index/preview", h.HandleResultPreview)
	apiGroup.POST("/results/:index/download", h.HandleResultDownload)
	apiGroup.GET("/results/:index/export", h.HandleResultExport)

	// Processing history
	apiGroup.GET("/history", h.HandleGetHistory)
	apiGroup.GET("/history/summary", h.HandleHistorySummary)
	apiGroup.DELETE("/history/:id", h.HandleDeleteHistory)
	apiGroup.POST("/history/:id/download", h.HandleHistoryDownload)
}
