package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter provides CSV export functionality for stage checkpoints
type CSVWriter struct {
	bomPrefix bool
}

// NewCSVWriter creates a new CSV writer instance. bomPrefix controls whether
// files get a UTF-8 BOM for Excel compatibility.
func NewCSVWriter(bomPrefix bool) *CSVWriter {
	return &CSVWriter{bomPrefix: bomPrefix}
}

// WriteCSV writes headers and records to the given path, creating parent
// directories as needed. Existing files are truncated.
func (w *CSVWriter) WriteCSV(filePath string, headers []string, records [][]string) error {
	slog.Info("writing CSV checkpoint",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if w.bomPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}
