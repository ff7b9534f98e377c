package domain

// Incident represents a single street-level crime report as published in the
// monthly police.uk street CSV. Optional columns are pointers so an absent or
// blank cell survives the round trip as nil rather than a zero value.
type Incident struct {
	CrimeID             string   `json:"crime_id" csv:"Crime ID"`
	Month               string   `json:"month" csv:"Month"`
	ReportedBy          string   `json:"reported_by" csv:"Reported by"`
	FallsWithin         string   `json:"falls_within" csv:"Falls within"`
	Longitude           *float64 `json:"longitude,omitempty" csv:"Longitude"`
	Latitude            *float64 `json:"latitude,omitempty" csv:"Latitude"`
	Location            string   `json:"location" csv:"Location"`
	LSOACode            string   `json:"lsoa_code" csv:"LSOA code"`
	LSOAName            string   `json:"lsoa_name" csv:"LSOA name"`
	CrimeType           string   `json:"crime_type" csv:"Crime type"`
	LastOutcomeCategory *string  `json:"last_outcome_category,omitempty" csv:"Last outcome category"`
	Context             string   `json:"context" csv:"Context"`
}

// OutcomeEvent represents one row of the companion outcomes CSV. Only CrimeID
// and OutcomeType participate in staging; the remaining columns are read for
// completeness and ignored by the join.
type OutcomeEvent struct {
	CrimeID     string  `json:"crime_id" csv:"Crime ID"`
	Month       string  `json:"month" csv:"Month"`
	ReportedBy  string  `json:"reported_by" csv:"Reported by"`
	OutcomeType *string `json:"outcome_type,omitempty" csv:"Outcome type"`
}

// StagedRecord is an incident after staging: joined with outcomes, classified,
// and stripped of the columns consumed by the classification. The fields used
// to derive BroadOutcomeCategory are gone for good.
type StagedRecord struct {
	CrimeID              string   `json:"crime_id" csv:"Crime ID"`
	Month                string   `json:"month" csv:"Month"`
	FallsWithin          string   `json:"falls_within" csv:"Falls within"`
	Longitude            *float64 `json:"longitude,omitempty" csv:"Longitude"`
	Latitude             *float64 `json:"latitude,omitempty" csv:"Latitude"`
	LSOACode             string   `json:"lsoa_code" csv:"LSOA code"`
	LSOAName             string   `json:"lsoa_name" csv:"LSOA name"`
	CrimeType            string   `json:"crime_type" csv:"Crime type"`
	BroadOutcomeCategory string   `json:"broad_outcome_category" csv:"Broad Outcome Category"`
}

// PrimaryRecord is a staged record after primary typing. LocationSum is only
// populated when the staged table carried both coordinate columns; it is nil
// for rows where either operand is missing.
type PrimaryRecord struct {
	StagedRecord
	LocationSum *float64 `json:"location_sum,omitempty" csv:"Location Sum"`
}

// ReportRow is one aggregate row of the reporting dataset.
type ReportRow struct {
	CrimeType            string `json:"crime_type" csv:"Crime type"`
	BroadOutcomeCategory string `json:"broad_outcome_category" csv:"Broad Outcome Category"`
	Count                int    `json:"count" csv:"Count"`
}

// IncidentTable is an in-memory incidents dataset. HasCoordinates records
// whether the source file carried both Latitude and Longitude columns; the
// primary stage keys the Location Sum column on it.
type IncidentTable struct {
	Rows           []Incident `json:"rows"`
	HasCoordinates bool       `json:"has_coordinates"`
}

// OutcomeTable is an in-memory outcomes dataset.
type OutcomeTable struct {
	Rows []OutcomeEvent `json:"rows"`
}

// StagedTable is the output of the staging stage.
type StagedTable struct {
	Rows           []StagedRecord `json:"rows"`
	HasCoordinates bool           `json:"has_coordinates"`
}

// PrimaryTable is the output of the primary stage. CrimeTypes and
// OutcomeCategories are the bounded label enumerations of the two categorical
// columns, sorted and de-duplicated, so downstream consumers can rely on a
// fixed label set instead of rescanning rows.
type PrimaryTable struct {
	Rows              []PrimaryRecord `json:"rows"`
	HasLocationSum    bool            `json:"has_location_sum"`
	CrimeTypes        []string        `json:"crime_types"`
	OutcomeCategories []string        `json:"outcome_categories"`
}

// ReportTable is the output of the reporting stage, ordered lexicographically
// by (CrimeType, BroadOutcomeCategory).
type ReportTable struct {
	Rows []ReportRow `json:"rows"`
}

// TotalCount returns the sum of Count over all report rows. It equals the
// primary row count the aggregate was built from.
func (t *ReportTable) TotalCount() int {
	total := 0
	for _, r := range t.Rows {
		total += r.Count
	}
	return total
}
