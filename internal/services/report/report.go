package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cap-inspect/internal/logger"
	"cap-inspect/internal/models"
)

// ErrNoData is returned when there is nothing to report on. Expected
// condition, not a failure of the service.
var ErrNoData = errors.New("no scan data found")

// rowsPerPage bounds the defect listing on each report page.
const rowsPerPage = 35

// Generator renders PDF inspection reports from the log. Each call
// produces a new uniquely named artifact.
type Generator struct {
	outputDir  string
	title      string
	passLabels map[string]struct{}
	logger     *logger.Logger
}

// NewGenerator creates a report generator writing into outputDir.
func NewGenerator(outputDir, title string, passLabels map[string]struct{}, logger *logger.Logger) *Generator {
	return &Generator{
		outputDir:  outputDir,
		title:      title,
		passLabels: passLabels,
		logger:     logger,
	}
}

// Generate renders the summary and defect listing for the given log
// records. Returns the path of the written PDF and its summary row.
func (g *Generator) Generate(records []models.ClassificationRecord) (string, *models.ReportSummary, error) {
	if len(records) == 0 {
		return "", nil, ErrNoData
	}

	snap := g.tally(records)
	successRate, errorRate := snap.Rates()
	defects := g.defectRecords(records)

	now := time.Now()
	filename := fmt.Sprintf("report_%s.pdf", now.Format("20060102_150405"))

	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(g.outputDir, filename)

	pdf := gofpdf.New("P", "mm", "A4", "")
	g.writeSummaryPage(pdf, now, snap, successRate, errorRate)
	g.writeDefectPages(pdf, defects)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", nil, fmt.Errorf("failed to write report: %w", err)
	}

	g.logger.Info("Generated report %s (%d records, %d defects)", filename, len(records), len(defects))

	return path, &models.ReportSummary{
		Filename:     filename,
		GeneratedAt:  now.Format(models.TimestampLayout),
		TotalScanned: snap.TotalScanned,
		TotalGood:    snap.TotalGood,
		TotalDefect:  snap.TotalDefect,
		SuccessRate:  successRate,
		ErrorRate:    errorRate,
	}, nil
}

// tally derives the counters from the records with the same rules the
// aggregator uses, so report and counters always agree.
func (g *Generator) tally(records []models.ClassificationRecord) models.CounterSnapshot {
	var snap models.CounterSnapshot
	for _, rec := range records {
		if rec.Label == models.LabelNoObject {
			continue
		}
		snap.TotalScanned++
		if _, ok := g.passLabels[rec.Label]; ok {
			snap.TotalGood++
		} else {
			snap.TotalDefect++
		}
	}
	return snap
}

// defectRecords keeps the REJECT rows in log order. No-detection rows
// are excluded, matching the counter discipline.
func (g *Generator) defectRecords(records []models.ClassificationRecord) []models.ClassificationRecord {
	var defects []models.ClassificationRecord
	for _, rec := range records {
		if rec.Label == models.LabelNoObject {
			continue
		}
		if _, ok := g.passLabels[rec.Label]; !ok {
			defects = append(defects, rec)
		}
	}
	return defects
}

func (g *Generator) writeSummaryPage(pdf *gofpdf.Fpdf, now time.Time, snap models.CounterSnapshot, successRate, errorRate float64) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, g.title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Generated: "+now.Format(models.TimestampLayout), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Scanned: %d", snap.TotalScanned), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Good: %d", snap.TotalGood), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Defects: %d", snap.TotalDefect), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Success Rate: %.2f%%", successRate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Error Rate: %.2f%%", errorRate), "", 1, "L", false, 0, "")
}

func (g *Generator) writeDefectPages(pdf *gofpdf.Fpdf, defects []models.ClassificationRecord) {
	pdf.AddPage()

	if len(defects) == 0 {
		pdf.SetFont("Helvetica", "", 14)
		pdf.Ln(60)
		pdf.CellFormat(0, 10, "No Defects Detected", "", 1, "C", false, 0, "")
		return
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, "Defective Items", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for i, rec := range defects {
		if i > 0 && i%rowsPerPage == 0 {
			pdf.AddPage()
		}

		confidence := ""
		if rec.Confidence != nil {
			confidence = strconv.FormatFloat(*rec.Confidence, 'f', -1, 64)
		}

		pdf.SetFont("Helvetica", "B", 12)
		line := fmt.Sprintf("#%d  %s | Prediction: %s | Confidence: %s",
			i+1, rec.Timestamp.Format(models.TimestampLayout), rec.Label, confidence)
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}
}
