package handlers

import (
	"errors"
	"net/http"

	"cap-inspect/internal/logger"
	"cap-inspect/internal/services"
	"cap-inspect/internal/services/report"
)

// GenerateReportHandler renders a new PDF report from the inspection
// log and returns the document.
func GenerateReportHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		path, summary, err := manager.GenerateReport()
		if err != nil {
			if errors.Is(err, report.ErrNoData) {
				respondError(w, "No scan data found. Scan first before generating report.", http.StatusConflict)
				return
			}
			logger.Error("Report generation failed: %v", err)
			respondError(w, "Report generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=\""+summary.Filename+"\"")
		http.ServeFile(w, r, path)
	}
}

// ReportHistoryHandler lists previously generated reports.
func ReportHistoryHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := manager.ReportHistory()
		if err != nil {
			logger.Error("Failed to load report history: %v", err)
			respondError(w, "Failed to load report history", http.StatusInternalServerError)
			return
		}

		respondJSON(w, map[string]interface{}{"reports": reports}, http.StatusOK)
	}
}
