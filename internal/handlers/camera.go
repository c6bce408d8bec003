package handlers

import (
	"fmt"
	"net/http"
	"time"

	"cap-inspect/internal/logger"
	"cap-inspect/internal/services"
)

// StreamFrameHandler serves the live camera feed as an MJPEG multipart
// stream. The session is opened lazily on the first request; the loop
// re-checks the session flag and the request context every frame, so a
// stop or a client disconnect ends the stream within one frame period.
// Disconnect runs the same cleanup as an explicit stop.
func StreamFrameHandler(manager *services.Manager, fps int, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := manager.Session()

		if err := session.EnsureOpen(); err != nil {
			logger.Error("Stream request failed: %v", err)
			respondError(w, "Camera unavailable", http.StatusServiceUnavailable)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			respondError(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		w.Header().Set("Cache-Control", "no-cache")

		defer session.Stop()

		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()

		logger.Info("Frame stream started")
		for session.Active() {
			select {
			case <-r.Context().Done():
				logger.Info("Stream client disconnected")
				return
			case <-ticker.C:
			}

			frame, ok, err := session.NextFrame()
			if err != nil || !ok {
				// End-of-stream: terminate gracefully, never crash the service.
				logger.Info("Frame stream ended")
				return
			}

			if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\n\r\n"); err != nil {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			if _, err := fmt.Fprint(w, "\r\n"); err != nil {
				return
			}
			flusher.Flush()

			manager.Hub().BroadcastFrame(frame)
		}
	}
}

// StopCameraHandler releases the camera. Idempotent; always confirms.
func StopCameraHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager.Session().Stop()
		respondJSON(w, map[string]string{"status": "camera stopped"}, http.StatusOK)
	}
}
