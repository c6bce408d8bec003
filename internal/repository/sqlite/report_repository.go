package sqlite

import (
	"fmt"

	"cap-inspect/internal/models"
)

// ReportRepository stores the history of generated report documents.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new SQLite report repository.
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Insert adds a generated report to the index.
func (r *ReportRepository) Insert(summary *models.ReportSummary) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO reports (filename, generated_at, total_scanned, total_good, total_defect, success_rate, error_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, summary.Filename, summary.GeneratedAt, summary.TotalScanned, summary.TotalGood,
		summary.TotalDefect, summary.SuccessRate, summary.ErrorRate)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}

	return result.LastInsertId()
}

// List returns the report history, newest first.
func (r *ReportRepository) List() ([]models.ReportSummary, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT filename, generated_at, total_scanned, total_good, total_defect, success_rate, error_rate
		FROM reports ORDER BY generated_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.ReportSummary
	for rows.Next() {
		var rep models.ReportSummary
		if err := rows.Scan(&rep.Filename, &rep.GeneratedAt, &rep.TotalScanned, &rep.TotalGood,
			&rep.TotalDefect, &rep.SuccessRate, &rep.ErrorRate); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, nil
}
