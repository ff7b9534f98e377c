package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"

	"crimeflow/pkg/contracts/domain"
)

// PrimaryTransformer performs the primary stage: bounded-label enumeration of
// the two categorical columns and the optional Location Sum derivation.
type PrimaryTransformer struct {
	classifier *Classifier
	logger     *slog.Logger
}

// NewPrimaryTransformer creates a primary transformer. Nil arguments fall
// back to the built-in rule table and slog.Default.
func NewPrimaryTransformer(classifier *Classifier, logger *slog.Logger) *PrimaryTransformer {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PrimaryTransformer{classifier: classifier, logger: logger}
}

// Transform builds the primary table. Location Sum is computed if and only if
// the staged table carried both coordinate columns; when it is, the value is
// nil for any row missing either operand. Outcome categories are validated
// against the fixed category set since downstream consumers rely on the
// bounded enumeration.
func (t *PrimaryTransformer) Transform(staged *domain.StagedTable) (*domain.PrimaryTable, error) {
	if staged == nil {
		return nil, fmt.Errorf("staged table is nil")
	}

	t.logger.Info("starting primary data transformation",
		slog.Int("staged_rows", len(staged.Rows)),
		slog.Bool("has_coordinates", staged.HasCoordinates))

	primary := &domain.PrimaryTable{
		Rows:           make([]domain.PrimaryRecord, 0, len(staged.Rows)),
		HasLocationSum: staged.HasCoordinates,
	}

	crimeTypes := make(map[string]bool)
	categories := make(map[string]bool)

	for i, record := range staged.Rows {
		if !t.classifier.IsKnownCategory(record.BroadOutcomeCategory) {
			return nil, fmt.Errorf("row %d: outcome category %q is outside the bounded label set",
				i, record.BroadOutcomeCategory)
		}

		crimeTypes[record.CrimeType] = true
		categories[record.BroadOutcomeCategory] = true

		row := domain.PrimaryRecord{StagedRecord: record}
		if staged.HasCoordinates && record.Latitude != nil && record.Longitude != nil {
			sum := *record.Latitude + *record.Longitude
			row.LocationSum = &sum
		}
		primary.Rows = append(primary.Rows, row)
	}

	primary.CrimeTypes = sortedKeys(crimeTypes)
	primary.OutcomeCategories = sortedKeys(categories)

	t.logger.Info("primary data transformation completed",
		slog.Int("primary_rows", len(primary.Rows)),
		slog.Int("crime_types", len(primary.CrimeTypes)),
		slog.Int("outcome_categories", len(primary.OutcomeCategories)))
	return primary, nil
}

// sortedKeys returns the keys of a set in lexicographic order
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
