package dwca

import (
	"fmt"
	"io"

	"dwcexport/internal/fields"
	"dwcexport/internal/observation"
)

// column is one output cell: the field it fills and how to read it from a record.
type column[T any] struct {
	field    fields.Field
	value    func(T) string
	freeText bool
}

// Encoder turns records into tab-delimited rows. Its column list is fixed at
// construction; the header, every row, and the meta.xml field list all come
// from that same list.
type Encoder[T any] struct {
	kind    TableKind
	columns []column[T]
}

// ObservationEncoder encodes occurrence and event rows.
type ObservationEncoder = Encoder[*observation.Observation]

// MeasurementEncoder encodes extended measurement or fact rows.
type MeasurementEncoder = Encoder[observation.MeasurementRow]

// MultimediaEncoder encodes simple multimedia rows.
type MultimediaEncoder = Encoder[MediaRow]

// MediaRow binds a multimedia item to its occurrence.
type MediaRow struct {
	OccurrenceID string
	Media        observation.Multimedia
}

// Kind returns the table the encoder writes.
func (e *Encoder[T]) Kind() TableKind { return e.kind }

// Columns returns the encoded fields in row order.
func (e *Encoder[T]) Columns() []fields.Field {
	out := make([]fields.Field, len(e.columns))
	for i, c := range e.columns {
		out[i] = c.field
	}
	return out
}

// Header returns the header line, terminated by a newline.
func (e *Encoder[T]) Header() []byte {
	buf := make([]byte, 0, len(e.columns)*16)
	for i, c := range e.columns {
		if i > 0 {
			buf = append(buf, '\t')
		}
		buf = append(buf, c.field.Name...)
	}
	return append(buf, '\n')
}

// WriteHeader writes the header line.
func (e *Encoder[T]) WriteHeader(w io.Writer) error {
	_, err := w.Write(e.Header())
	return err
}

// AppendRow appends one encoded row, newline-terminated, to dst.
func (e *Encoder[T]) AppendRow(dst []byte, rec T) []byte {
	for i, c := range e.columns {
		if i > 0 {
			dst = append(dst, '\t')
		}
		v := c.value(rec)
		if c.freeText {
			v = Sanitize(v)
		}
		dst = append(dst, v...)
	}
	return append(dst, '\n')
}

// Values returns the cells of one row without the separators.
func (e *Encoder[T]) Values(rec T) []string {
	out := make([]string, len(e.columns))
	for i, c := range e.columns {
		v := c.value(rec)
		if c.freeText {
			v = Sanitize(v)
		}
		out[i] = v
	}
	return out
}

// WriteRow writes one encoded row.
func (e *Encoder[T]) WriteRow(w io.Writer, rec T) error {
	_, err := w.Write(e.AppendRow(nil, rec))
	return err
}

// ExtensionMetadata describes the table as a meta.xml extension. The core id
// is always the lead column.
func (e *Encoder[T]) ExtensionMetadata() ExtensionMetadata {
	return ExtensionMetadata{
		Kind:        e.kind,
		RowType:     e.kind.RowType(),
		FileName:    e.kind.FileName(),
		CoreIDIndex: 0,
		Fields:      e.Columns(),
	}
}

func observationColumns(selected []fields.Field) ([]column[obs], error) {
	cols := make([]column[obs], 0, len(selected))
	for _, f := range selected {
		g, ok := getters[f.Name]
		if !ok {
			return nil, fmt.Errorf("no extractor for field %q", f.Name)
		}
		cols = append(cols, column[obs]{field: f, value: g.value, freeText: g.freeText})
	}
	return cols, nil
}

// NewCoreEncoder builds the core table encoder for the variant. The selection
// must come from the variant's catalog.
func NewCoreEncoder(variant Variant, sel fields.Selection) (*ObservationEncoder, error) {
	if sel.Catalog() != variant.Catalog() {
		return nil, fmt.Errorf("%s core: selection is from the %s catalog", variant, catalogName(sel))
	}
	selected := sel.Fields()
	if len(selected) == 0 {
		return nil, ErrNoColumns
	}
	if selected[0].Name != variant.Catalog().Identifier().Name {
		return nil, ErrIdentifierNotFirst
	}
	cols, err := observationColumns(selected)
	if err != nil {
		return nil, err
	}
	return &ObservationEncoder{kind: variant.CoreKind(), columns: cols}, nil
}

// NewEventOccurrenceEncoder builds the occurrence-as-extension encoder used in
// event-core archives. eventID leads the row and is dropped from its catalog
// position so it appears once.
func NewEventOccurrenceEncoder(sel fields.Selection) (*ObservationEncoder, error) {
	if sel.Catalog() != fields.Occurrence {
		return nil, fmt.Errorf("occurrence extension: selection is from the %s catalog", catalogName(sel))
	}
	eventField, _ := fields.Occurrence.Lookup("eventID")
	selected := append([]fields.Field{eventField}, sel.Without("eventID").Fields()...)
	cols, err := observationColumns(selected)
	if err != nil {
		return nil, err
	}
	return &ObservationEncoder{kind: TableOccurrence, columns: cols}, nil
}

func catalogName(sel fields.Selection) string {
	if sel.Catalog() == nil {
		return "empty"
	}
	return sel.Catalog().Name()
}
