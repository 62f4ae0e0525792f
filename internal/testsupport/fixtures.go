package testsupport

import (
	"time"

	"dwcexport/internal/observation"
)

// Provider returns a data provider with the given id and identifier.
func Provider(id int, identifier string) observation.DataProvider {
	return observation.DataProvider{ID: id, Identifier: identifier, Name: identifier}
}

// Occurrence builds a minimal public record for occurrenceID attached to eventID.
// An empty eventID leaves the record without an event.
func Occurrence(providerID int, occurrenceID, eventID string) *observation.Observation {
	start := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	rec := &observation.Observation{
		DataProviderID: providerID,
		BasisOfRecord:  "HumanObservation",
		AccessRights:   &observation.VocabularyValue{ID: observation.AccessFreeUsage, Value: "Free usage"},
		Occurrence: observation.Occurrence{
			OccurrenceID: occurrenceID,
			RecordedBy:   "Test Observer",
		},
		Taxon: &observation.Taxon{ScientificName: "Parus major", Kingdom: "Animalia"},
	}
	if eventID != "" {
		rec.Event = &observation.Event{EventID: eventID, StartDate: &start, EndDate: &start}
	}
	return rec
}

// Restricted marks rec as not for public usage and returns it.
func Restricted(rec *observation.Observation) *observation.Observation {
	rec.AccessRights = &observation.VocabularyValue{ID: observation.AccessNotForPublicUsage, Value: "Not for public usage"}
	return rec
}

// WithFact adds an occurrence-level measurement to rec and returns it.
func WithFact(rec *observation.Observation, measurementType, value string) *observation.Observation {
	rec.Measurements = append(rec.Measurements, observation.MeasurementOrFact{
		MeasurementType:  measurementType,
		MeasurementValue: value,
	})
	return rec
}

// WithEventFact adds an event-level measurement to rec and returns it.
func WithEventFact(rec *observation.Observation, measurementType, value string) *observation.Observation {
	if rec.Event != nil {
		rec.Event.Measurements = append(rec.Event.Measurements, observation.MeasurementOrFact{
			MeasurementType:  measurementType,
			MeasurementValue: value,
		})
	}
	return rec
}
