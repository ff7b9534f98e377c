package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimeflow/pkg/contracts/domain"
)

func primaryRow(crimeType, category string) domain.PrimaryRecord {
	return domain.PrimaryRecord{
		StagedRecord: domain.StagedRecord{
			CrimeType:            crimeType,
			BroadOutcomeCategory: category,
		},
	}
}

func TestAggregate(t *testing.T) {
	// primary = [(Theft, No Further Action)×3, (Theft, Unknown)×1]
	aggregator := NewAggregator(nil)

	primary := &domain.PrimaryTable{
		Rows: []domain.PrimaryRecord{
			primaryRow("Theft", "No Further Action"),
			primaryRow("Theft", "Unknown"),
			primaryRow("Theft", "No Further Action"),
			primaryRow("Theft", "No Further Action"),
		},
	}

	report, err := aggregator.Aggregate(primary)
	require.NoError(t, err)

	assert.Equal(t, []domain.ReportRow{
		{CrimeType: "Theft", BroadOutcomeCategory: "No Further Action", Count: 3},
		{CrimeType: "Theft", BroadOutcomeCategory: "Unknown", Count: 1},
	}, report.Rows)
}

func TestAggregateOrderIsDeterministic(t *testing.T) {
	aggregator := NewAggregator(nil)

	primary := &domain.PrimaryTable{
		Rows: []domain.PrimaryRecord{
			primaryRow("Vehicle crime", "Unknown"),
			primaryRow("Burglary", "Unknown"),
			primaryRow("Burglary", "No Further Action"),
			primaryRow("Anti-social behaviour", "Unknown"),
		},
	}

	first, err := aggregator.Aggregate(primary)
	require.NoError(t, err)
	second, err := aggregator.Aggregate(primary)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, []domain.ReportRow{
		{CrimeType: "Anti-social behaviour", BroadOutcomeCategory: "Unknown", Count: 1},
		{CrimeType: "Burglary", BroadOutcomeCategory: "No Further Action", Count: 1},
		{CrimeType: "Burglary", BroadOutcomeCategory: "Unknown", Count: 1},
		{CrimeType: "Vehicle crime", BroadOutcomeCategory: "Unknown", Count: 1},
	}, first.Rows)
}

func TestAggregateCountInvariants(t *testing.T) {
	aggregator := NewAggregator(nil)

	primary := &domain.PrimaryTable{
		Rows: []domain.PrimaryRecord{
			primaryRow("Theft", "Unknown"),
			primaryRow("Theft", "Unknown"),
			primaryRow("Burglary", "No Further Action"),
			primaryRow("Drugs", "Non-criminal Outcome"),
			primaryRow("Drugs", "Non-criminal Outcome"),
		},
	}

	report, err := aggregator.Aggregate(primary)
	require.NoError(t, err)

	// sum of counts equals the primary row count and no group is empty
	assert.Equal(t, len(primary.Rows), report.TotalCount())
	for _, row := range report.Rows {
		assert.Greater(t, row.Count, 0)
	}
}

func TestAggregateEmptyTable(t *testing.T) {
	aggregator := NewAggregator(nil)

	report, err := aggregator.Aggregate(&domain.PrimaryTable{})
	require.NoError(t, err)

	assert.Empty(t, report.Rows)
	assert.Zero(t, report.TotalCount())
}

func TestAggregateNilTable(t *testing.T) {
	aggregator := NewAggregator(nil)

	_, err := aggregator.Aggregate(nil)
	assert.Error(t, err)
}
