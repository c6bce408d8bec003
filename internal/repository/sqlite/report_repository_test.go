package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cap-inspect/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReportRepository_InsertAndList(t *testing.T) {
	repo := NewReportRepository(newTestDB(t))

	first := &models.ReportSummary{
		Filename:     "report_20260310_090000.pdf",
		GeneratedAt:  "2026-03-10 09:00:00",
		TotalScanned: 10,
		TotalGood:    8,
		TotalDefect:  2,
		SuccessRate:  80,
		ErrorRate:    20,
	}
	second := &models.ReportSummary{
		Filename:     "report_20260310_100000.pdf",
		GeneratedAt:  "2026-03-10 10:00:00",
		TotalScanned: 12,
		TotalGood:    9,
		TotalDefect:  3,
		SuccessRate:  75,
		ErrorRate:    25,
	}

	_, err := repo.Insert(first)
	require.NoError(t, err)
	_, err = repo.Insert(second)
	require.NoError(t, err)

	reports, err := repo.List()
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// Newest first.
	require.Equal(t, *second, reports[0])
	require.Equal(t, *first, reports[1])
}

func TestReportRepository_DuplicateFilenameRejected(t *testing.T) {
	repo := NewReportRepository(newTestDB(t))

	summary := &models.ReportSummary{
		Filename:    "report_20260310_090000.pdf",
		GeneratedAt: "2026-03-10 09:00:00",
	}

	_, err := repo.Insert(summary)
	require.NoError(t, err)

	_, err = repo.Insert(summary)
	require.Error(t, err)
}

func TestReportRepository_EmptyList(t *testing.T) {
	repo := NewReportRepository(newTestDB(t))

	reports, err := repo.List()
	require.NoError(t, err)
	require.Empty(t, reports)
}
