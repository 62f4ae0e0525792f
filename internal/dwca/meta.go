package dwca

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	"dwcexport/internal/fields"
)

// TextNamespace is the Darwin Core text guide namespace of meta.xml.
const TextNamespace = "http://rs.tdwg.org/dwc/text/"

var (
	// ErrNoColumns reports an empty core or extension column list.
	ErrNoColumns = errors.New("dwca: no columns selected")
	// ErrIdentifierNotFirst reports a core table not led by its identifier field.
	ErrIdentifierNotFirst = errors.New("dwca: identifier field must be the first core column")
)

// Meta is the meta.xml document.
type Meta struct {
	XMLName    xml.Name    `xml:"archive"`
	Xmlns      string      `xml:"xmlns,attr,omitempty"`
	Metadata   string      `xml:"metadata,attr,omitempty"`
	Core       MetaTable   `xml:"core"`
	Extensions []MetaTable `xml:"extension"`
}

// MetaTable describes one table file.
type MetaTable struct {
	Encoding           string      `xml:"encoding,attr"`
	FieldsTerminatedBy string      `xml:"fieldsTerminatedBy,attr"`
	LinesTerminatedBy  string      `xml:"linesTerminatedBy,attr"`
	FieldsEnclosedBy   string      `xml:"fieldsEnclosedBy,attr"`
	IgnoreHeaderLines  int         `xml:"ignoreHeaderLines,attr"`
	RowType            string      `xml:"rowType,attr"`
	Location           string      `xml:"files>location"`
	ID                 *MetaIndex  `xml:"id"`
	CoreID             *MetaIndex  `xml:"coreid"`
	Fields             []MetaField `xml:"field"`
}

// MetaIndex points at a column by position.
type MetaIndex struct {
	Index int `xml:"index,attr"`
}

// MetaField maps a column position to a schema term.
type MetaField struct {
	Index int    `xml:"index,attr"`
	Term  string `xml:"term,attr"`
}

// MetadataRequest is the input to BuildMetadata.
type MetadataRequest struct {
	Variant    Variant
	Core       []fields.Field
	Extensions []ExtensionMetadata
	// WithEml references eml.xml from the archive element.
	WithEml bool
}

func newMetaTable(rowType, location string, cols []fields.Field) MetaTable {
	t := MetaTable{
		Encoding:           "UTF-8",
		FieldsTerminatedBy: `\t`,
		LinesTerminatedBy:  `\n`,
		FieldsEnclosedBy:   "",
		IgnoreHeaderLines:  1,
		RowType:            rowType,
		Location:           location,
		Fields:             make([]MetaField, len(cols)),
	}
	for i, f := range cols {
		t.Fields[i] = MetaField{Index: i, Term: f.Term}
	}
	return t
}

// BuildMetadata renders meta.xml. Field indices are the column positions, so
// passing an encoder's Columns() keeps meta.xml and the rows in agreement.
func BuildMetadata(req MetadataRequest) ([]byte, error) {
	if len(req.Core) == 0 {
		return nil, ErrNoColumns
	}
	if req.Core[0].Name != req.Variant.Catalog().Identifier().Name {
		return nil, ErrIdentifierNotFirst
	}
	coreKind := req.Variant.CoreKind()
	doc := Meta{
		Xmlns: TextNamespace,
		Core:  newMetaTable(coreKind.RowType(), coreKind.FileName(), req.Core),
	}
	doc.Core.ID = &MetaIndex{Index: 0}
	if req.WithEml {
		doc.Metadata = "eml.xml"
	}
	for _, ext := range req.Extensions {
		if len(ext.Fields) == 0 {
			return nil, fmt.Errorf("extension %s: %w", ext.FileName, ErrNoColumns)
		}
		table := newMetaTable(ext.RowType, ext.FileName, ext.Fields)
		table.CoreID = &MetaIndex{Index: ext.CoreIDIndex}
		doc.Extensions = append(doc.Extensions, table)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode meta.xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ParseMetadata decodes a meta.xml document.
func ParseMetadata(data []byte) (*Meta, error) {
	var doc Meta
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode meta.xml: %w", err)
	}
	return &doc, nil
}

// Tables returns the core followed by the extensions.
func (m *Meta) Tables() []MetaTable {
	out := make([]MetaTable, 0, 1+len(m.Extensions))
	out = append(out, m.Core)
	return append(out, m.Extensions...)
}
