package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"crimeflow/pkg/contracts/domain"
)

const reportSheetName = "Crime Counts"

// ExcelWriter exports the reporting aggregate as an XLSX workbook alongside
// the canonical CSV artifact.
type ExcelWriter struct{}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// WriteReport writes the reporting table to an XLSX file with a bold header
// row and a trailing total row.
func (w *ExcelWriter) WriteReport(filePath string, report *domain.ReportTable) error {
	slog.Info("writing Excel report",
		slog.String("file_path", filePath),
		slog.Int("groups", len(report.Rows)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Crime type", "Broad Outcome Category", "Count"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(reportSheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(reportSheetName, "A1", "C1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range report.Rows {
		rowNum := i + 2
		if err := f.SetCellValue(reportSheetName, fmt.Sprintf("A%d", rowNum), row.CrimeType); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
		if err := f.SetCellValue(reportSheetName, fmt.Sprintf("B%d", rowNum), row.BroadOutcomeCategory); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
		if err := f.SetCellValue(reportSheetName, fmt.Sprintf("C%d", rowNum), row.Count); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	totalRow := len(report.Rows) + 2
	if err := f.SetCellValue(reportSheetName, fmt.Sprintf("A%d", totalRow), "Total"); err != nil {
		return fmt.Errorf("failed to write total row: %w", err)
	}
	if err := f.SetCellValue(reportSheetName, fmt.Sprintf("C%d", totalRow), report.TotalCount()); err != nil {
		return fmt.Errorf("failed to write total row: %w", err)
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
