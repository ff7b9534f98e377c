package exporter

import (
	"strconv"

	"crimeflow/pkg/contracts/domain"
)

// FormatStaged converts a staged table to CSV headers and records. Coordinate
// columns are only emitted when the source carried them.
func FormatStaged(table *domain.StagedTable) ([]string, [][]string) {
	headers := []string{"Crime ID", "Month", "Falls within"}
	if table.HasCoordinates {
		headers = append(headers, "Longitude", "Latitude")
	}
	headers = append(headers, "LSOA code", "LSOA name", "Crime type", "Broad Outcome Category")

	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := []string{row.CrimeID, row.Month, row.FallsWithin}
		if table.HasCoordinates {
			record = append(record, formatFloat(row.Longitude), formatFloat(row.Latitude))
		}
		record = append(record, row.LSOACode, row.LSOAName, row.CrimeType, row.BroadOutcomeCategory)
		records = append(records, record)
	}

	return headers, records
}

// FormatPrimary converts a primary table to CSV headers and records. The
// Location Sum column appears only when the table carries it.
func FormatPrimary(table *domain.PrimaryTable) ([]string, [][]string) {
	headers := []string{"Crime ID", "Month", "Falls within"}
	if table.HasLocationSum {
		headers = append(headers, "Longitude", "Latitude")
	}
	headers = append(headers, "LSOA code", "LSOA name", "Crime type", "Broad Outcome Category")
	if table.HasLocationSum {
		headers = append(headers, "Location Sum")
	}

	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := []string{row.CrimeID, row.Month, row.FallsWithin}
		if table.HasLocationSum {
			record = append(record, formatFloat(row.Longitude), formatFloat(row.Latitude))
		}
		record = append(record, row.LSOACode, row.LSOAName, row.CrimeType, row.BroadOutcomeCategory)
		if table.HasLocationSum {
			record = append(record, formatFloat(row.LocationSum))
		}
		records = append(records, record)
	}

	return headers, records
}

// FormatReport converts a reporting table to CSV headers and records.
func FormatReport(table *domain.ReportTable) ([]string, [][]string) {
	headers := []string{"Crime type", "Broad Outcome Category", "Count"}

	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, []string{
			row.CrimeType,
			row.BroadOutcomeCategory,
			strconv.Itoa(row.Count),
		})
	}

	return headers, records
}

// formatFloat renders an optional float, empty for nil
func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
