package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"

	"crimeflow/pkg/contracts/domain"
)

// Aggregator performs the reporting stage: crime counts grouped by crime type
// and broad outcome category.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a reporting aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// groupKey identifies one aggregation group
type groupKey struct {
	crimeType string
	category  string
}

// Aggregate counts primary rows per (Crime type, Broad Outcome Category)
// pair. Only observed pairs are emitted, so no row ever has a zero count, and
// the output is ordered lexicographically by crime type then category for
// reproducibility.
func (a *Aggregator) Aggregate(primary *domain.PrimaryTable) (*domain.ReportTable, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary table is nil")
	}

	a.logger.Info("starting reporting data aggregation",
		slog.Int("primary_rows", len(primary.Rows)))

	counts := make(map[groupKey]int)
	for _, row := range primary.Rows {
		counts[groupKey{crimeType: row.CrimeType, category: row.BroadOutcomeCategory}]++
	}

	keys := make([]groupKey, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].crimeType != keys[j].crimeType {
			return keys[i].crimeType < keys[j].crimeType
		}
		return keys[i].category < keys[j].category
	})

	report := &domain.ReportTable{Rows: make([]domain.ReportRow, 0, len(keys))}
	for _, key := range keys {
		report.Rows = append(report.Rows, domain.ReportRow{
			CrimeType:            key.crimeType,
			BroadOutcomeCategory: key.category,
			Count:                counts[key],
		})
	}

	a.logger.Info("reporting data aggregation completed",
		slog.Int("groups", len(report.Rows)),
		slog.Int("total_count", report.TotalCount()))
	return report, nil
}
