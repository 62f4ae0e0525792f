package fields_test

import (
	"strings"
	"testing"

	"dwcexport/internal/fields"
)

func TestCatalogsAreAscendingAndLedByIdentifier(t *testing.T) {
	cases := []struct {
		catalog    *fields.Catalog
		identifier string
	}{
		{fields.Occurrence, "occurrenceID"},
		{fields.Event, "eventID"},
	}
	for _, tc := range cases {
		all := tc.catalog.Fields()
		if len(all) == 0 {
			t.Fatalf("%s: empty catalog", tc.catalog.Name())
		}
		if all[0].Name != tc.identifier {
			t.Fatalf("%s: first field = %q, want %q", tc.catalog.Name(), all[0].Name, tc.identifier)
		}
		seen := map[string]bool{}
		for i, f := range all {
			if i > 0 && f.ID <= all[i-1].ID {
				t.Fatalf("%s: id %d not ascending after %d", tc.catalog.Name(), f.ID, all[i-1].ID)
			}
			if seen[f.Name] {
				t.Fatalf("%s: duplicate name %s", tc.catalog.Name(), f.Name)
			}
			seen[f.Name] = true
			if !strings.HasSuffix(f.Term, "/"+f.Name) {
				t.Fatalf("%s: term %q does not end with name %q", tc.catalog.Name(), f.Term, f.Name)
			}
		}
	}
}

func TestSelectForcesIdentifierAndKeepsCatalogOrder(t *testing.T) {
	sel, err := fields.Occurrence.Select([]string{"scientificName", "decimalLatitude", "eventID"})
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	got := names(sel.Fields())
	want := []string{"occurrenceID", "eventID", "decimalLatitude", "scientificName"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("selected = %v, want %v", got, want)
	}
	if sel.Count() != len(want) {
		t.Fatalf("Count = %d, want %d", sel.Count(), len(want))
	}
}

func TestSelectEmptyMeansAll(t *testing.T) {
	sel, err := fields.Event.Select(nil)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Count() != fields.Event.Len() {
		t.Fatalf("Count = %d, want %d", sel.Count(), fields.Event.Len())
	}
}

func TestSelectRejectsUnknownTerms(t *testing.T) {
	_, err := fields.Occurrence.Select([]string{"scientificName", "notATerm"})
	if err == nil || !strings.Contains(err.Error(), "notATerm") {
		t.Fatalf("expected unknown term error, got %v", err)
	}
}

func TestWithoutClearsOnlyNamedField(t *testing.T) {
	sel := fields.Occurrence.All()
	trimmed := sel.Without("eventID")
	eventID, _ := fields.Occurrence.Lookup("eventID")
	if trimmed.Has(eventID.ID) {
		t.Fatal("expected eventID cleared")
	}
	if !sel.Has(eventID.ID) {
		t.Fatal("Without must not mutate the receiver")
	}
	if trimmed.Count() != sel.Count()-1 {
		t.Fatalf("Count = %d, want %d", trimmed.Count(), sel.Count()-1)
	}
}

func names(fs []fields.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}
