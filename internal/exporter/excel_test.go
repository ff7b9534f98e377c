package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"crimeflow/pkg/contracts/domain"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "reporting_street.xlsx")

	report := &domain.ReportTable{
		Rows: []domain.ReportRow{
			{CrimeType: "Burglary", BroadOutcomeCategory: "No Further Action", Count: 2},
			{CrimeType: "Theft", BroadOutcomeCategory: "Unknown", Count: 5},
		},
	}

	writer := NewExcelWriter()
	require.NoError(t, writer.WriteReport(path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheetName)
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Crime type", "Broad Outcome Category", "Count"}, rows[0])
	assert.Equal(t, []string{"Burglary", "No Further Action", "2"}, rows[1])
	assert.Equal(t, []string{"Theft", "Unknown", "5"}, rows[2])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "7", rows[3][2])
}

func TestWriteReportEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reporting_street.xlsx")

	writer := NewExcelWriter()
	require.NoError(t, writer.WriteReport(path, &domain.ReportTable{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Total", rows[1][0])
}
