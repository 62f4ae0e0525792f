package dwca

import (
	"dwcexport/internal/fields"
	"dwcexport/internal/observation"
)

// ExtensionMetadata is the static schema of one extension table.
// Fields are in row order; a field's index is its position.
type ExtensionMetadata struct {
	Kind        TableKind
	RowType     string
	FileName    string
	CoreIDIndex int
	Fields      []fields.Field
}

func extField(namespace, name string) fields.Field {
	return fields.Field{Name: name, Term: namespace + name}
}

type mof = observation.MeasurementRow

var measurementColumns = []column[mof]{
	{field: extField(fields.DwcNamespace, "measurementID"), value: func(m mof) string { return m.Fact.MeasurementID }, freeText: true},
	{field: extField(fields.DwcNamespace, "measurementType"), value: func(m mof) string { return m.Fact.MeasurementType }, freeText: true},
	{field: extField(fields.ObisNamespace, "measurementTypeID"), value: func(m mof) string { return m.Fact.MeasurementTypeID }, freeText: true},
	{field: extField(fields.DwcNamespace, "measurementValue"), value: func(m mof) string { return m.Fact.MeasurementValue }, freeText: true},
	{field: extField(fields.ObisNamespace, "measurementValueID"), value: func(m mof) string { return m.Fact.MeasurementValueID }, freeText: true},
	{field: extField(fields.DwcNamespace, "measurementAccuracy"), value: func(m mof) string { return m.Fact.MeasurementAccuracy }, freeText: true},
	{field: extField(fields.DwcNamespace, "measurementUnit"), value: func(m mof) string { return m.Fact.MeasurementUnit }, freeText: true},
	{field: extField(fields.ObisNamespace, "measurementUnitID"), value: func(m mof) string { return m.Fact.MeasurementUnitID }, freeText: true},
	{field: extField(fields.DwcNamespace, "measurementDeterminedDate"), value: func(m mof) string { return FormatTime(m.Fact.MeasurementDeterminedDate) }},
	{field: extField(fields.DwcNamespace, "measurementDeterminedBy"), value: func(m mof) string { return m.Fact.MeasurementDeterminedBy }, freeText: true},
	{field: extField(fields.DwcNamespace, "measurementMethod"), value: func(m mof) string { return m.Fact.MeasurementMethod }, freeText: true},
	{field: extField(fields.DwcNamespace, "measurementRemarks"), value: func(m mof) string { return m.Fact.MeasurementRemarks }, freeText: true},
}

// NewMeasurementEncoder builds the extended measurement or fact encoder. In
// event-core archives eventID leads and occurrenceID follows; otherwise
// occurrenceID leads.
func NewMeasurementEncoder(variant Variant) *MeasurementEncoder {
	occurrenceID := column[mof]{
		field:    extField(fields.DwcNamespace, "occurrenceID"),
		value:    func(m mof) string { return m.OccurrenceID },
		freeText: true,
	}
	cols := make([]column[mof], 0, len(measurementColumns)+2)
	if variant == VariantEvent {
		cols = append(cols, column[mof]{
			field:    extField(fields.DwcNamespace, "eventID"),
			value:    func(m mof) string { return m.EventID },
			freeText: true,
		})
	}
	cols = append(cols, occurrenceID)
	cols = append(cols, measurementColumns...)
	return &MeasurementEncoder{kind: TableEmof, columns: cols}
}

var multimediaColumns = []column[MediaRow]{
	{field: extField(fields.DwcNamespace, "occurrenceID"), value: func(m MediaRow) string { return m.OccurrenceID }, freeText: true},
	{field: extField(fields.DcNamespace, "type"), value: func(m MediaRow) string { return m.Media.Type }, freeText: true},
	{field: extField(fields.DcNamespace, "format"), value: func(m MediaRow) string { return m.Media.Format }, freeText: true},
	{field: extField(fields.DcNamespace, "identifier"), value: func(m MediaRow) string { return m.Media.Identifier }, freeText: true},
	{field: extField(fields.DcNamespace, "references"), value: func(m MediaRow) string { return m.Media.References }, freeText: true},
	{field: extField(fields.DcNamespace, "title"), value: func(m MediaRow) string { return m.Media.Title }, freeText: true},
	{field: extField(fields.DcNamespace, "description"), value: func(m MediaRow) string { return m.Media.Description }, freeText: true},
	{field: extField(fields.DcNamespace, "created"), value: func(m MediaRow) string { return FormatTime(m.Media.Created) }},
	{field: extField(fields.DcNamespace, "creator"), value: func(m MediaRow) string { return m.Media.Creator }, freeText: true},
	{field: extField(fields.DcNamespace, "contributor"), value: func(m MediaRow) string { return m.Media.Contributor }, freeText: true},
	{field: extField(fields.DcNamespace, "publisher"), value: func(m MediaRow) string { return m.Media.Publisher }, freeText: true},
	{field: extField(fields.DcNamespace, "source"), value: func(m MediaRow) string { return m.Media.Source }, freeText: true},
	{field: extField(fields.DcNamespace, "license"), value: func(m MediaRow) string { return m.Media.License }, freeText: true},
	{field: extField(fields.DcNamespace, "rightsHolder"), value: func(m MediaRow) string { return m.Media.RightsHolder }, freeText: true},
}

// NewMultimediaEncoder builds the simple multimedia encoder.
func NewMultimediaEncoder() *MultimediaEncoder {
	return &MultimediaEncoder{kind: TableMultimedia, columns: multimediaColumns}
}

// MediaRows binds each media item of the observation to its occurrence id.
func MediaRows(o *observation.Observation) []MediaRow {
	if len(o.Media) == 0 {
		return nil
	}
	rows := make([]MediaRow, len(o.Media))
	for i, m := range o.Media {
		rows[i] = MediaRow{OccurrenceID: o.OccurrenceID(), Media: m}
	}
	return rows
}

// EmofMetadata is the extended measurement or fact extension for the variant.
func EmofMetadata(variant Variant) ExtensionMetadata {
	return NewMeasurementEncoder(variant).ExtensionMetadata()
}

// MultimediaMetadata is the simple multimedia extension.
func MultimediaMetadata() ExtensionMetadata {
	return NewMultimediaEncoder().ExtensionMetadata()
}

// OccurrenceExtensionMetadata is the occurrence-as-extension table of an
// event-core archive for the given occurrence selection.
func OccurrenceExtensionMetadata(sel fields.Selection) (ExtensionMetadata, error) {
	enc, err := NewEventOccurrenceEncoder(sel)
	if err != nil {
		return ExtensionMetadata{}, err
	}
	return enc.ExtensionMetadata(), nil
}
