package observation_test

import (
	"encoding/json"
	"testing"

	"dwcexport/internal/observation"
)

func TestIsRestricted(t *testing.T) {
	cases := []struct {
		name   string
		rights *observation.VocabularyValue
		want   bool
	}{
		{"no rights", nil, false},
		{"free usage", &observation.VocabularyValue{ID: observation.AccessFreeUsage}, false},
		{"not for public usage", &observation.VocabularyValue{ID: observation.AccessNotForPublicUsage}, true},
	}
	for _, tc := range cases {
		obs := observation.Observation{AccessRights: tc.rights}
		if got := obs.IsRestricted(); got != tc.want {
			t.Fatalf("%s: IsRestricted = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMeasurementRowsKeysAndEventFacts(t *testing.T) {
	obs := observation.Observation{
		Occurrence: observation.Occurrence{OccurrenceID: "O1"},
		Event: &observation.Event{
			EventID:      "E1",
			Measurements: []observation.MeasurementOrFact{{MeasurementType: "water temperature"}},
		},
		Measurements: []observation.MeasurementOrFact{{MeasurementType: "length"}},
	}

	withoutEvent := obs.MeasurementRows(false)
	if len(withoutEvent) != 1 || withoutEvent[0].Key() != "E1|O1|length" {
		t.Fatalf("unexpected rows %+v", withoutEvent)
	}

	withEvent := obs.MeasurementRows(true)
	if len(withEvent) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(withEvent))
	}
	if withEvent[0].Key() != "E1||water temperature" {
		t.Fatalf("unexpected event fact key %q", withEvent[0].Key())
	}
}

func TestObservationDecodesFromJSON(t *testing.T) {
	payload := `{
		"dataProviderId": 3,
		"accessRights": {"id": 1, "value": "not for public usage"},
		"occurrence": {"occurrenceId": "urn:occ:1", "individualCount": 4},
		"event": {"eventId": "urn:ev:1", "startDate": "2024-05-01T06:30:00Z"},
		"location": {"decimalLatitude": 57.5, "coordinateUncertaintyInMeters": 0},
		"taxon": {"scientificName": "Parus major"}
	}`
	var obs observation.Observation
	if err := json.Unmarshal([]byte(payload), &obs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if obs.OccurrenceID() != "urn:occ:1" || obs.EventID() != "urn:ev:1" {
		t.Fatalf("unexpected ids %q %q", obs.OccurrenceID(), obs.EventID())
	}
	if !obs.IsRestricted() {
		t.Fatal("expected restricted record")
	}
	if obs.Location.CoordinateUncertaintyInMeters == nil || *obs.Location.CoordinateUncertaintyInMeters != 0 {
		t.Fatalf("expected explicit zero uncertainty, got %v", obs.Location.CoordinateUncertaintyInMeters)
	}
	if obs.Event.StartDate == nil || obs.Event.StartDate.Hour() != 6 {
		t.Fatalf("unexpected start date %v", obs.Event.StartDate)
	}
}
