package handlers

import (
	"net/http"

	"cap-inspect/internal/logger"
	"cap-inspect/internal/services"
)

// HealthResponse is the service status payload.
type HealthResponse struct {
	Status       string  `json:"status"`
	ModelLoaded  bool    `json:"model_loaded"`
	CameraReady  bool    `json:"camera_ready"`
	TotalScanned int     `json:"total_scanned"`
	TotalGood    int     `json:"total_good"`
	TotalDefect  int     `json:"total_defect"`
	ErrorRate    float64 `json:"error_rate"`
}

// HealthHandler reports service, model and camera status plus the
// current counters.
func HealthHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := manager.Inspector().Snapshot()
		_, errorRate := snap.Rates()

		respondJSON(w, HealthResponse{
			Status:       "running",
			ModelLoaded:  manager.Inspector().ModelReady(),
			CameraReady:  manager.Session().Ready(),
			TotalScanned: snap.TotalScanned,
			TotalGood:    snap.TotalGood,
			TotalDefect:  snap.TotalDefect,
			ErrorRate:    errorRate,
		}, http.StatusOK)
	}
}
