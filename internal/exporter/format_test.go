package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimeflow/pkg/contracts/domain"
)

func floatPtr(f float64) *float64 { return &f }

func TestFormatStagedWithCoordinates(t *testing.T) {
	table := &domain.StagedTable{
		HasCoordinates: true,
		Rows: []domain.StagedRecord{
			{
				CrimeID:              "abc",
				Month:                "2022-01",
				FallsWithin:          "Cheshire Constabulary",
				Longitude:            floatPtr(-2.52),
				Latitude:             floatPtr(53.19),
				LSOACode:             "E01018093",
				LSOAName:             "Cheshire East 001A",
				CrimeType:            "Burglary",
				BroadOutcomeCategory: "No Further Action",
			},
			{
				CrimeID:              "def",
				CrimeType:            "Theft",
				BroadOutcomeCategory: "Unknown",
			},
		},
	}

	headers, records := FormatStaged(table)

	assert.Equal(t, []string{
		"Crime ID", "Month", "Falls within", "Longitude", "Latitude",
		"LSOA code", "LSOA name", "Crime type", "Broad Outcome Category",
	}, headers)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"abc", "2022-01", "Cheshire Constabulary", "-2.52", "53.19",
		"E01018093", "Cheshire East 001A", "Burglary", "No Further Action",
	}, records[0])
	// nil coordinates render as empty cells
	assert.Equal(t, "", records[1][3])
	assert.Equal(t, "", records[1][4])
}

func TestFormatStagedDroppedColumnsAbsent(t *testing.T) {
	headers, _ := FormatStaged(&domain.StagedTable{HasCoordinates: true})

	for _, dropped := range []string{
		"Reported by", "Context", "Location", "Last outcome category",
		"Outcome type", "Final Outcome",
	} {
		assert.NotContains(t, headers, dropped)
	}
}

func TestFormatStagedWithoutCoordinates(t *testing.T) {
	headers, _ := FormatStaged(&domain.StagedTable{HasCoordinates: false})

	assert.NotContains(t, headers, "Longitude")
	assert.NotContains(t, headers, "Latitude")
}

func TestFormatPrimaryLocationSumColumn(t *testing.T) {
	withSum := &domain.PrimaryTable{
		HasLocationSum: true,
		Rows: []domain.PrimaryRecord{
			{
				StagedRecord: domain.StagedRecord{
					CrimeID:              "abc",
					Latitude:             floatPtr(53.19),
					Longitude:            floatPtr(-2.52),
					CrimeType:            "Burglary",
					BroadOutcomeCategory: "Unknown",
				},
				LocationSum: floatPtr(50.67),
			},
			{
				StagedRecord: domain.StagedRecord{CrimeID: "def"},
			},
		},
	}

	headers, records := FormatPrimary(withSum)
	assert.Contains(t, headers, "Location Sum")
	assert.Equal(t, "50.67", records[0][len(records[0])-1])
	assert.Equal(t, "", records[1][len(records[1])-1])

	withoutSum := &domain.PrimaryTable{HasLocationSum: false}
	headers, _ = FormatPrimary(withoutSum)
	assert.NotContains(t, headers, "Location Sum")
}

func TestFormatReport(t *testing.T) {
	table := &domain.ReportTable{
		Rows: []domain.ReportRow{
			{CrimeType: "Theft", BroadOutcomeCategory: "No Further Action", Count: 3},
			{CrimeType: "Theft", BroadOutcomeCategory: "Unknown", Count: 1},
		},
	}

	headers, records := FormatReport(table)

	assert.Equal(t, []string{"Crime type", "Broad Outcome Category", "Count"}, headers)
	assert.Equal(t, [][]string{
		{"Theft", "No Further Action", "3"},
		{"Theft", "Unknown", "1"},
	}, records)
}
