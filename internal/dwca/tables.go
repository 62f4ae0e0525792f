package dwca

import (
	"fmt"
	"strings"

	"dwcexport/internal/fields"
)

// TableKind identifies one table of an archive.
type TableKind int

const (
	TableOccurrence TableKind = iota
	TableEvent
	TableEmof
	TableMultimedia
)

// TableKinds lists every kind in archive entry order after the core.
var TableKinds = []TableKind{TableOccurrence, TableEvent, TableEmof, TableMultimedia}

func (k TableKind) String() string {
	switch k {
	case TableOccurrence:
		return "occurrence"
	case TableEvent:
		return "event"
	case TableEmof:
		return "emof"
	case TableMultimedia:
		return "multimedia"
	default:
		return fmt.Sprintf("table(%d)", int(k))
	}
}

// FileName is the archive entry name for the table.
func (k TableKind) FileName() string {
	switch k {
	case TableOccurrence:
		return "occurrence.csv"
	case TableEvent:
		return "event.csv"
	case TableEmof:
		return "extendedMeasurementOrFact.csv"
	case TableMultimedia:
		return "multimedia.csv"
	default:
		return k.String() + ".csv"
	}
}

// RowType is the schema row type URI declared in meta.xml.
func (k TableKind) RowType() string {
	switch k {
	case TableOccurrence:
		return fields.DwcNamespace + "Occurrence"
	case TableEvent:
		return fields.DwcNamespace + "Event"
	case TableEmof:
		return fields.ObisNamespace + "ExtendedMeasurementOrFact"
	case TableMultimedia:
		return fields.GbifNamespace + "Multimedia"
	default:
		return ""
	}
}

// Variant selects the archive core.
type Variant int

const (
	VariantOccurrence Variant = iota
	VariantEvent
)

// ParseVariant accepts "occurrence" or "event".
func ParseVariant(value string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "occurrence", "":
		return VariantOccurrence, nil
	case "event":
		return VariantEvent, nil
	default:
		return 0, fmt.Errorf("unknown archive variant %q", value)
	}
}

func (v Variant) String() string {
	if v == VariantEvent {
		return "event"
	}
	return "occurrence"
}

// CoreKind is the table kind of the archive core.
func (v Variant) CoreKind() TableKind {
	if v == VariantEvent {
		return TableEvent
	}
	return TableOccurrence
}

// Catalog is the field catalog of the archive core.
func (v Variant) Catalog() *fields.Catalog {
	if v == VariantEvent {
		return fields.Event
	}
	return fields.Occurrence
}

// ExtensionKinds lists the extension tables the variant may carry, in entry order.
func (v Variant) ExtensionKinds() []TableKind {
	if v == VariantEvent {
		return []TableKind{TableOccurrence, TableEmof}
	}
	return []TableKind{TableEmof, TableMultimedia}
}

// ArchiveFileName is the delivered container name for a provider identifier.
func (v Variant) ArchiveFileName(identifier string) string {
	if v == VariantEvent {
		return identifier + "-event.dwca.zip"
	}
	return identifier + ".dwca.zip"
}
