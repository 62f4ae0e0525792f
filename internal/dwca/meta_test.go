package dwca_test

import (
	"errors"
	"strings"
	"testing"

	"dwcexport/internal/dwca"
	"dwcexport/internal/fields"
)

func TestMetadataIndicesMatchEncoderColumns(t *testing.T) {
	selections := [][]string{
		nil,
		{"scientificName"},
		{"decimalLongitude", "eventID", "recordedBy", "taxonRemarks", "year"},
	}
	for _, names := range selections {
		sel, err := fields.Occurrence.Select(names)
		if err != nil {
			t.Fatalf("select %v: %v", names, err)
		}
		enc, err := dwca.NewCoreEncoder(dwca.VariantOccurrence, sel)
		if err != nil {
			t.Fatalf("encoder: %v", err)
		}
		emof := dwca.NewMeasurementEncoder(dwca.VariantOccurrence)
		media := dwca.NewMultimediaEncoder()
		data, err := dwca.BuildMetadata(dwca.MetadataRequest{
			Variant:    dwca.VariantOccurrence,
			Core:       enc.Columns(),
			Extensions: []dwca.ExtensionMetadata{emof.ExtensionMetadata(), media.ExtensionMetadata()},
			WithEml:    true,
		})
		if err != nil {
			t.Fatalf("BuildMetadata: %v", err)
		}
		meta, err := dwca.ParseMetadata(data)
		if err != nil {
			t.Fatalf("ParseMetadata: %v", err)
		}
		assertTableMatches(t, meta.Core, enc.Columns())
		if len(meta.Extensions) != 2 {
			t.Fatalf("expected 2 extensions, got %d", len(meta.Extensions))
		}
		assertTableMatches(t, meta.Extensions[0], emof.Columns())
		assertTableMatches(t, meta.Extensions[1], media.Columns())
		header := strings.Split(strings.TrimSuffix(string(enc.Header()), "\n"), "\t")
		if len(header) != len(meta.Core.Fields) {
			t.Fatalf("header has %d columns, meta has %d", len(header), len(meta.Core.Fields))
		}
	}
}

func assertTableMatches(t *testing.T, table dwca.MetaTable, cols []fields.Field) {
	t.Helper()
	if len(table.Fields) != len(cols) {
		t.Fatalf("%s: meta has %d fields, encoder has %d", table.Location, len(table.Fields), len(cols))
	}
	for i, f := range table.Fields {
		if f.Index != i {
			t.Fatalf("%s: field %d has index %d", table.Location, i, f.Index)
		}
		if f.Term != cols[i].Term {
			t.Fatalf("%s: index %d term %s, encoder column %s", table.Location, i, f.Term, cols[i].Term)
		}
	}
}

func TestEventCoreMetadataDeclaresOccurrenceExtension(t *testing.T) {
	core, err := dwca.NewCoreEncoder(dwca.VariantEvent, fields.Event.All())
	if err != nil {
		t.Fatalf("core encoder: %v", err)
	}
	occ, err := dwca.NewEventOccurrenceEncoder(fields.Occurrence.All())
	if err != nil {
		t.Fatalf("occurrence encoder: %v", err)
	}
	occMeta, err := dwca.OccurrenceExtensionMetadata(fields.Occurrence.All())
	if err != nil {
		t.Fatalf("OccurrenceExtensionMetadata: %v", err)
	}
	data, err := dwca.BuildMetadata(dwca.MetadataRequest{
		Variant:    dwca.VariantEvent,
		Core:       core.Columns(),
		Extensions: []dwca.ExtensionMetadata{occMeta, dwca.EmofMetadata(dwca.VariantEvent)},
	})
	if err != nil {
		t.Fatalf("BuildMetadata: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`xmlns="http://rs.tdwg.org/dwc/text/"`,
		`rowType="http://rs.tdwg.org/dwc/terms/Event"`,
		`rowType="http://rs.tdwg.org/dwc/terms/Occurrence"`,
		`fieldsTerminatedBy="\t"`,
		`linesTerminatedBy="\n"`,
		`fieldsEnclosedBy=""`,
		`ignoreHeaderLines="1"`,
		`<location>event.csv</location>`,
		`<location>occurrence.csv</location>`,
		`<location>extendedMeasurementOrFact.csv</location>`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("meta.xml missing %s:\n%s", want, text)
		}
	}
	meta, err := dwca.ParseMetadata(data)
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	ext := meta.Extensions[0]
	if ext.CoreID == nil || ext.CoreID.Index != 0 {
		t.Fatalf("expected coreid index 0, got %+v", ext.CoreID)
	}
	if occ.Columns()[ext.CoreID.Index].Name != "eventID" {
		t.Fatalf("coreid points at %s, want eventID", occ.Columns()[ext.CoreID.Index].Name)
	}
	assertTableMatches(t, ext, occ.Columns())
	if meta.Core.ID == nil || meta.Core.ID.Index != 0 {
		t.Fatalf("expected core id index 0, got %+v", meta.Core.ID)
	}
}

func TestBuildMetadataValidation(t *testing.T) {
	if _, err := dwca.BuildMetadata(dwca.MetadataRequest{Variant: dwca.VariantOccurrence}); !errors.Is(err, dwca.ErrNoColumns) {
		t.Fatalf("expected ErrNoColumns, got %v", err)
	}
	name, _ := fields.Occurrence.Lookup("scientificName")
	_, err := dwca.BuildMetadata(dwca.MetadataRequest{Variant: dwca.VariantOccurrence, Core: []fields.Field{name}})
	if !errors.Is(err, dwca.ErrIdentifierNotFirst) {
		t.Fatalf("expected ErrIdentifierNotFirst, got %v", err)
	}
	id := fields.Occurrence.Identifier()
	_, err = dwca.BuildMetadata(dwca.MetadataRequest{
		Variant:    dwca.VariantOccurrence,
		Core:       []fields.Field{id},
		Extensions: []dwca.ExtensionMetadata{{FileName: "x.csv"}},
	})
	if !errors.Is(err, dwca.ErrNoColumns) {
		t.Fatalf("expected ErrNoColumns for empty extension, got %v", err)
	}
}

func TestVariantNames(t *testing.T) {
	if got := dwca.VariantOccurrence.ArchiveFileName("ProvA"); got != "ProvA.dwca.zip" {
		t.Fatalf("occurrence archive name %q", got)
	}
	if got := dwca.VariantEvent.ArchiveFileName("sos"); got != "sos-event.dwca.zip" {
		t.Fatalf("event archive name %q", got)
	}
	if _, err := dwca.ParseVariant("taxon"); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}
