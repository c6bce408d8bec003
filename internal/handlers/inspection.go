package handlers

import (
	"errors"
	"net/http"

	"cap-inspect/internal/logger"
	"cap-inspect/internal/services"
	"cap-inspect/internal/services/ai"
	"cap-inspect/internal/services/camera"
)

// PredictHandler classifies the current camera frame and returns the
// decision together with the updated counters.
func PredictHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcome, err := manager.ClassifyCurrentFrame()
		if err != nil {
			switch {
			case errors.Is(err, camera.ErrCameraNotReady):
				respondError(w, "Camera not initialized. Open /frame first.", http.StatusConflict)
			case errors.Is(err, camera.ErrCameraUnavailable):
				respondError(w, "Failed to capture frame", http.StatusServiceUnavailable)
			case errors.Is(err, ai.ErrModelUnavailable):
				respondError(w, "Detection model not loaded", http.StatusServiceUnavailable)
			default:
				logger.Error("Classification failed: %v", err)
				respondError(w, "Classification failed", http.StatusInternalServerError)
			}
			return
		}

		respondJSON(w, outcome, http.StatusOK)
	}
}

// ResultHandler returns the aggregate counters with derived rates.
func ResultHandler(manager *services.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, manager.Inspector().Results(), http.StatusOK)
	}
}

// ResetHandler clears the inspection log and counters. Destructive.
func ResetHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := manager.Inspector().Reset(); err != nil {
			logger.Error("Reset failed: %v", err)
			respondError(w, "Reset failed", http.StatusInternalServerError)
			return
		}

		respondJSON(w, map[string]string{
			"status":  "reset_success",
			"message": "All counters and logs have been reset.",
		}, http.StatusOK)
	}
}
