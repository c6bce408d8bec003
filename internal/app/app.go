package app

import (
	"fmt"
	"net/http"

	"cap-inspect/internal/config"
	"cap-inspect/internal/logger"
	"cap-inspect/internal/repository/sqlite"
	"cap-inspect/internal/routes"
	"cap-inspect/internal/services"
	"cap-inspect/internal/services/ai"
	"cap-inspect/internal/services/camera"
	"cap-inspect/internal/services/inspection"
	"cap-inspect/internal/services/report"
	"cap-inspect/internal/services/storage"
	"cap-inspect/internal/services/websocket"
)

type App struct {
	config  *config.Config
	logger  *logger.Logger
	manager *services.Manager
	buffer  *storage.BufferService
	hub     *websocket.HubService
	db      *sqlite.DB
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg.LogDirectory)

	passLabels, err := config.LoadPassLabels(cfg.PassLabelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pass labels: %w", err)
	}

	// A missing model is not fatal; classify calls report it as unavailable.
	detector := ai.NewYOLODetector(cfg.ModelPath, cfg.ClassNamesPath, log)

	inspectionLog := inspection.NewLog(cfg.LogFilePath)
	inspector, err := inspection.NewService(inspectionLog, passLabels, detector, log)
	if err != nil {
		return nil, err
	}

	session := camera.NewSession(camera.OpenDevice, cfg.CameraIndex, cfg.FrameWidth, cfg.FrameHeight, log)
	hub := websocket.NewHubService(log)
	buffer := storage.NewBufferService(cfg.SnapshotDirectory, cfg.SnapshotLimit, log)
	reports := report.NewGenerator(cfg.ReportDirectory, cfg.ReportTitle, passLabels, log)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	reportRepo := sqlite.NewReportRepository(db)

	manager := services.NewManager(session, inspector, hub, buffer, reports, reportRepo, log)

	return &App{
		config:  cfg,
		logger:  log,
		manager: manager,
		buffer:  buffer,
		hub:     hub,
		db:      db,
	}, nil
}

func (a *App) Run() error {
	// Start background services
	go a.hub.Run()
	go a.buffer.Run(a.config.SnapshotFlushSecs)

	router := routes.SetupRoutes(a.manager, a.config, a.logger)

	a.logger.Info("Inspection server listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Inspection log: %s", a.config.LogFilePath)
	a.logger.Info("Reports: %s", a.config.ReportDirectory)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Close releases long-lived resources.
func (a *App) Close() error {
	a.manager.Session().Stop()
	return a.db.Close()
}
