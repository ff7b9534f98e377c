package dataprocessing

import (
	"fmt"
	"log/slog"

	"crimeflow/pkg/contracts/domain"
)

// Stager performs the staging stage: left-join incidents to outcomes, derive
// the final outcome, classify it, and drop the consumed columns.
type Stager struct {
	classifier *Classifier
	logger     *slog.Logger
}

// NewStager creates a stager. A nil classifier falls back to the built-in
// rule table; a nil logger falls back to slog.Default.
func NewStager(classifier *Classifier, logger *slog.Logger) *Stager {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stager{classifier: classifier, logger: logger}
}

// Stage builds the staged table. Join semantics are a standard left join on
// Crime ID restricted to the outcome type column: every incident row appears
// at least once, and duplicates per matching outcome row. An empty Crime ID
// never matches anything.
func (s *Stager) Stage(incidents *domain.IncidentTable, outcomes *domain.OutcomeTable) (*domain.StagedTable, error) {
	if incidents == nil {
		return nil, fmt.Errorf("incidents table is nil")
	}
	if outcomes == nil {
		return nil, fmt.Errorf("outcomes table is nil")
	}

	s.logger.Info("starting data staging",
		slog.Int("incident_rows", len(incidents.Rows)),
		slog.Int("outcome_rows", len(outcomes.Rows)))

	// Index outcome types by Crime ID, preserving outcome file order so the
	// duplicated incident rows come out deterministically
	outcomesByID := make(map[string][]*string, len(outcomes.Rows))
	for _, event := range outcomes.Rows {
		if event.CrimeID == "" {
			continue
		}
		outcomesByID[event.CrimeID] = append(outcomesByID[event.CrimeID], event.OutcomeType)
	}

	staged := &domain.StagedTable{
		Rows:           make([]domain.StagedRecord, 0, len(incidents.Rows)),
		HasCoordinates: incidents.HasCoordinates,
	}

	matched := 0
	for _, incident := range incidents.Rows {
		matches := outcomesByID[incident.CrimeID]
		if incident.CrimeID == "" || len(matches) == 0 {
			staged.Rows = append(staged.Rows, s.stageRow(incident, nil))
			continue
		}
		matched++
		for _, outcomeType := range matches {
			staged.Rows = append(staged.Rows, s.stageRow(incident, outcomeType))
		}
	}

	s.logger.Info("data staging completed",
		slog.Int("staged_rows", len(staged.Rows)),
		slog.Int("matched_incidents", matched))
	return staged, nil
}

// stageRow derives one staged record from an incident and its joined outcome
// type. Final Outcome exists only transiently here; the staged record keeps
// just the category derived from it.
func (s *Stager) stageRow(incident domain.Incident, outcomeType *string) domain.StagedRecord {
	finalOutcome := outcomeType
	if finalOutcome == nil {
		finalOutcome = incident.LastOutcomeCategory
	}

	return domain.StagedRecord{
		CrimeID:              incident.CrimeID,
		Month:                incident.Month,
		FallsWithin:          incident.FallsWithin,
		Longitude:            incident.Longitude,
		Latitude:             incident.Latitude,
		LSOACode:             incident.LSOACode,
		LSOAName:             incident.LSOAName,
		CrimeType:            incident.CrimeType,
		BroadOutcomeCategory: string(s.classifier.Categorize(finalOutcome)),
	}
}
