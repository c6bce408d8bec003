package services

import (
	"cap-inspect/internal/logger"
	"cap-inspect/internal/models"
	"cap-inspect/internal/repository/sqlite"
	"cap-inspect/internal/services/camera"
	"cap-inspect/internal/services/inspection"
	"cap-inspect/internal/services/report"
	"cap-inspect/internal/services/storage"
	"cap-inspect/internal/services/websocket"
)

// Manager wires the inspection services together and is the single
// dependency handed to the HTTP handlers. There is no ambient state:
// everything a handler touches goes through here.
type Manager struct {
	session    *camera.Session
	inspector  *inspection.Service
	hub        *websocket.HubService
	buffer     *storage.BufferService
	reports    *report.Generator
	reportRepo *sqlite.ReportRepository
	logger     *logger.Logger
}

// NewManager builds the manager from already-constructed services.
func NewManager(
	session *camera.Session,
	inspector *inspection.Service,
	hub *websocket.HubService,
	buffer *storage.BufferService,
	reports *report.Generator,
	reportRepo *sqlite.ReportRepository,
	logger *logger.Logger,
) *Manager {
	return &Manager{
		session:    session,
		inspector:  inspector,
		hub:        hub,
		buffer:     buffer,
		reports:    reports,
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// Session returns the camera session owner.
func (m *Manager) Session() *camera.Session {
	return m.session
}

// Inspector returns the classifier service.
func (m *Manager) Inspector() *inspection.Service {
	return m.inspector
}

// Hub returns the live-view websocket hub.
func (m *Manager) Hub() *websocket.HubService {
	return m.hub
}

// Buffer returns the defect snapshot buffer.
func (m *Manager) Buffer() *storage.BufferService {
	return m.buffer
}

// ClassifyCurrentFrame reads one frame from the open session and runs
// the full classify step. Rejected frames are buffered as evidence.
func (m *Manager) ClassifyCurrentFrame() (*models.Outcome, error) {
	frame, ok, err := m.session.NextFrame()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, camera.ErrCameraUnavailable
	}

	outcome, err := m.inspector.Classify(frame)
	if err != nil {
		return nil, err
	}

	if outcome.Status == models.StatusReject {
		m.buffer.Add(frame, outcome.Prediction)
	}

	return outcome, nil
}

// GenerateReport renders a new PDF from the current log and records it
// in the report index. Returns the artifact path and summary.
func (m *Manager) GenerateReport() (string, *models.ReportSummary, error) {
	records, err := m.inspector.Records()
	if err != nil {
		return "", nil, err
	}

	path, summary, err := m.reports.Generate(records)
	if err != nil {
		return "", nil, err
	}

	if _, err := m.reportRepo.Insert(summary); err != nil {
		// The artifact exists; a missing index row is not fatal.
		m.logger.Warning("Failed to index report %s: %v", summary.Filename, err)
	}

	return path, summary, nil
}

// ReportHistory lists previously generated reports, newest first.
func (m *Manager) ReportHistory() ([]models.ReportSummary, error) {
	return m.reportRepo.List()
}
