package routes

import (
	"net/http"

	"cap-inspect/internal/config"
	"cap-inspect/internal/handlers"
	"cap-inspect/internal/logger"
	"cap-inspect/internal/middleware"
	"cap-inspect/internal/services"
)

// SetupRoutes registers the API endpoints and wraps the mux with the
// CORS middleware.
func SetupRoutes(manager *services.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Inspection endpoints
	mux.HandleFunc("/health", handlers.HealthHandler(manager, logger))
	mux.HandleFunc("/frame", handlers.StreamFrameHandler(manager, cfg.StreamFPS, logger))
	mux.HandleFunc("/stop", handlers.StopCameraHandler(manager, logger))
	mux.HandleFunc("/predict", handlers.PredictHandler(manager, logger))
	mux.HandleFunc("/result", handlers.ResultHandler(manager))
	mux.HandleFunc("/reset", handlers.ResetHandler(manager, logger))
	mux.HandleFunc("/report", handlers.GenerateReportHandler(manager, logger))
	mux.HandleFunc("/reports", handlers.ReportHistoryHandler(manager, logger))

	// Live view
	mux.HandleFunc("/api/view", handlers.ViewWebsocketHandler(manager, logger))

	// Service log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowInfoLogsHandler(cfg))
	mux.HandleFunc("/logs/warning", handlers.ShowWarningLogsHandler(cfg))
	mux.HandleFunc("/logs/error", handlers.ShowErrorLogsHandler(cfg))

	return middleware.CORSMiddleware(mux)
}
