package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"crimeflow/pkg/contracts/domain"
)

// ErrNotFound reports a missing input file. Callers treat it as a graceful
// halt rather than a failure.
var ErrNotFound = errors.New("input file not found")

// ParseError reports malformed tabular content in an input file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Expected column headers of the police.uk street and outcomes CSVs
const (
	colCrimeID             = "Crime ID"
	colMonth               = "Month"
	colReportedBy          = "Reported by"
	colFallsWithin         = "Falls within"
	colLongitude           = "Longitude"
	colLatitude            = "Latitude"
	colLocation            = "Location"
	colLSOACode            = "LSOA code"
	colLSOAName            = "LSOA name"
	colCrimeType           = "Crime type"
	colLastOutcomeCategory = "Last outcome category"
	colContext             = "Context"
	colOutcomeType         = "Outcome type"
	colBroadOutcome        = "Broad Outcome Category"
)

// ReadIncidents ingests the raw street-level incidents CSV into an in-memory
// table. A missing file yields ErrNotFound; malformed content yields a
// *ParseError. Column order in the file does not matter.
func ReadIncidents(path string) (*domain.IncidentTable, error) {
	logger := slog.Default().With(slog.String("file", path))
	logger.Info("starting data ingestion")

	rows, header, err := readCSV(path)
	if err != nil {
		logger.Error("data ingestion failed", slog.String("error", err.Error()))
		return nil, err
	}

	required := []string{colCrimeID, colCrimeType, colLastOutcomeCategory}
	if err := requireColumns(path, header, required); err != nil {
		logger.Error("data ingestion failed", slog.String("error", err.Error()))
		return nil, err
	}

	_, hasLat := header[colLatitude]
	_, hasLon := header[colLongitude]

	table := &domain.IncidentTable{
		Rows:           make([]domain.Incident, 0, len(rows)),
		HasCoordinates: hasLat && hasLon,
	}

	for i, row := range rows {
		lat, err := optionalFloat(row, header, colLatitude)
		if err != nil {
			perr := &ParseError{Path: path, Line: i + 2, Err: err}
			logger.Error("data ingestion failed", slog.String("error", perr.Error()))
			return nil, perr
		}
		lon, err := optionalFloat(row, header, colLongitude)
		if err != nil {
			perr := &ParseError{Path: path, Line: i + 2, Err: err}
			logger.Error("data ingestion failed", slog.String("error", perr.Error()))
			return nil, perr
		}

		table.Rows = append(table.Rows, domain.Incident{
			CrimeID:             cell(row, header, colCrimeID),
			Month:               cell(row, header, colMonth),
			ReportedBy:          cell(row, header, colReportedBy),
			FallsWithin:         cell(row, header, colFallsWithin),
			Longitude:           lon,
			Latitude:            lat,
			Location:            cell(row, header, colLocation),
			LSOACode:            cell(row, header, colLSOACode),
			LSOAName:            cell(row, header, colLSOAName),
			CrimeType:           cell(row, header, colCrimeType),
			LastOutcomeCategory: optionalString(row, header, colLastOutcomeCategory),
			Context:             cell(row, header, colContext),
		})
	}

	logger.Info("data ingestion completed",
		slog.Int("rows", len(table.Rows)),
		slog.Bool("has_coordinates", table.HasCoordinates))
	return table, nil
}

// ReadOutcomes ingests the companion outcomes CSV.
func ReadOutcomes(path string) (*domain.OutcomeTable, error) {
	logger := slog.Default().With(slog.String("file", path))
	logger.Info("starting data ingestion")

	rows, header, err := readCSV(path)
	if err != nil {
		logger.Error("data ingestion failed", slog.String("error", err.Error()))
		return nil, err
	}

	if err := requireColumns(path, header, []string{colCrimeID, colOutcomeType}); err != nil {
		logger.Error("data ingestion failed", slog.String("error", err.Error()))
		return nil, err
	}

	table := &domain.OutcomeTable{Rows: make([]domain.OutcomeEvent, 0, len(rows))}
	for _, row := range rows {
		table.Rows = append(table.Rows, domain.OutcomeEvent{
			CrimeID:     cell(row, header, colCrimeID),
			Month:       cell(row, header, colMonth),
			ReportedBy:  cell(row, header, colReportedBy),
			OutcomeType: optionalString(row, header, colOutcomeType),
		})
	}

	logger.Info("data ingestion completed", slog.Int("rows", len(table.Rows)))
	return table, nil
}

// ReadStaged re-ingests a staged checkpoint file. It exists so a run can be
// restarted manually from the staged artifact without redoing the join.
func ReadStaged(path string) (*domain.StagedTable, error) {
	logger := slog.Default().With(slog.String("file", path))
	logger.Info("starting staged checkpoint ingestion")

	rows, header, err := readCSV(path)
	if err != nil {
		logger.Error("staged checkpoint ingestion failed", slog.String("error", err.Error()))
		return nil, err
	}

	if err := requireColumns(path, header, []string{colCrimeID, colCrimeType, colBroadOutcome}); err != nil {
		logger.Error("staged checkpoint ingestion failed", slog.String("error", err.Error()))
		return nil, err
	}

	_, hasLat := header[colLatitude]
	_, hasLon := header[colLongitude]

	table := &domain.StagedTable{
		Rows:           make([]domain.StagedRecord, 0, len(rows)),
		HasCoordinates: hasLat && hasLon,
	}

	for i, row := range rows {
		lat, err := optionalFloat(row, header, colLatitude)
		if err != nil {
			return nil, &ParseError{Path: path, Line: i + 2, Err: err}
		}
		lon, err := optionalFloat(row, header, colLongitude)
		if err != nil {
			return nil, &ParseError{Path: path, Line: i + 2, Err: err}
		}

		table.Rows = append(table.Rows, domain.StagedRecord{
			CrimeID:              cell(row, header, colCrimeID),
			Month:                cell(row, header, colMonth),
			FallsWithin:          cell(row, header, colFallsWithin),
			Longitude:            lon,
			Latitude:             lat,
			LSOACode:             cell(row, header, colLSOACode),
			LSOAName:             cell(row, header, colLSOAName),
			CrimeType:            cell(row, header, colCrimeType),
			BroadOutcomeCategory: cell(row, header, colBroadOutcome),
		})
	}

	logger.Info("staged checkpoint ingestion completed", slog.Int("rows", len(table.Rows)))
	return table, nil
}

// readCSV reads a delimited file and returns its data rows plus a header
// index. The reader enforces a consistent field count per record, so a column
// mismatch surfaces as a *ParseError.
func readCSV(path string) ([][]string, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headerRow, err := reader.Read()
	if err == io.EOF {
		return nil, nil, &ParseError{Path: path, Err: fmt.Errorf("file is empty")}
	}
	if err != nil {
		return nil, nil, &ParseError{Path: path, Err: err}
	}

	// Strip a UTF-8 BOM if the producer wrote one
	if len(headerRow) > 0 {
		headerRow[0] = strings.TrimPrefix(headerRow[0], "\ufeff")
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &ParseError{Path: path, Line: line, Err: err}
		}
		rows = append(rows, row)
	}

	return rows, header, nil
}

// requireColumns verifies the header carries every required column
func requireColumns(path string, header map[string]int, required []string) error {
	for _, name := range required {
		if _, ok := header[name]; !ok {
			return &ParseError{Path: path, Err: fmt.Errorf("missing required column %q", name)}
		}
	}
	return nil
}

// cell returns the trimmed value of a column, or "" when the column is absent
func cell(row []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// optionalString returns a pointer to the cell value, nil for blank cells
func optionalString(row []string, header map[string]int, name string) *string {
	value := cell(row, header, name)
	if value == "" {
		return nil
	}
	return &value
}

// optionalFloat parses an optional float column. Blank cells are nil; a
// non-blank unparseable cell is an error.
func optionalFloat(row []string, header map[string]int, name string) (*float64, error) {
	value := cell(row, header, name)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q for column %q", value, name)
	}
	return &parsed, nil
}
