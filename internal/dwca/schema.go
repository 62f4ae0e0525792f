package dwca

import (
	"fmt"

	"dwcexport/internal/fields"
)

// Schema is the full table layout of one export job. It owns every encoder,
// so staging, assembly, and meta.xml all see the same columns.
type Schema struct {
	Variant    Variant
	Core       *ObservationEncoder
	Occurrence *ObservationEncoder
	Emof       *MeasurementEncoder
	Multimedia *MultimediaEncoder
}

// SchemaOptions configures NewSchema.
type SchemaOptions struct {
	Variant           Variant
	CoreFields        []string
	OccurrenceFields  []string
	IncludeEmof       bool
	IncludeMultimedia bool
}

// NewSchema resolves the column selections and builds the encoders. Multimedia
// is only carried by occurrence-core archives.
func NewSchema(opts SchemaOptions) (*Schema, error) {
	coreSel, err := opts.Variant.Catalog().Select(opts.CoreFields)
	if err != nil {
		return nil, err
	}
	core, err := NewCoreEncoder(opts.Variant, coreSel)
	if err != nil {
		return nil, err
	}
	s := &Schema{Variant: opts.Variant, Core: core}
	if opts.Variant == VariantEvent {
		occSel, err := fields.Occurrence.Select(opts.OccurrenceFields)
		if err != nil {
			return nil, err
		}
		if s.Occurrence, err = NewEventOccurrenceEncoder(occSel); err != nil {
			return nil, err
		}
	}
	if opts.IncludeEmof {
		s.Emof = NewMeasurementEncoder(opts.Variant)
	}
	if opts.IncludeMultimedia && opts.Variant == VariantOccurrence {
		s.Multimedia = NewMultimediaEncoder()
	}
	return s, nil
}

// Kinds lists the core followed by every extension this schema can write.
func (s *Schema) Kinds() []TableKind {
	kinds := []TableKind{s.Variant.CoreKind()}
	for _, k := range s.Variant.ExtensionKinds() {
		if s.has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s *Schema) has(kind TableKind) bool {
	switch kind {
	case s.Variant.CoreKind():
		return true
	case TableOccurrence:
		return s.Occurrence != nil
	case TableEmof:
		return s.Emof != nil
	case TableMultimedia:
		return s.Multimedia != nil
	default:
		return false
	}
}

// Header returns the header line of the table kind.
func (s *Schema) Header(kind TableKind) ([]byte, error) {
	switch {
	case kind == s.Variant.CoreKind():
		return s.Core.Header(), nil
	case kind == TableOccurrence && s.Occurrence != nil:
		return s.Occurrence.Header(), nil
	case kind == TableEmof && s.Emof != nil:
		return s.Emof.Header(), nil
	case kind == TableMultimedia && s.Multimedia != nil:
		return s.Multimedia.Header(), nil
	default:
		return nil, fmt.Errorf("%s archive has no %s table", s.Variant, kind)
	}
}

func (s *Schema) extension(kind TableKind) (ExtensionMetadata, error) {
	switch {
	case kind == TableOccurrence && s.Occurrence != nil:
		return s.Occurrence.ExtensionMetadata(), nil
	case kind == TableEmof && s.Emof != nil:
		return s.Emof.ExtensionMetadata(), nil
	case kind == TableMultimedia && s.Multimedia != nil:
		return s.Multimedia.ExtensionMetadata(), nil
	default:
		return ExtensionMetadata{}, fmt.Errorf("%s archive has no %s table", s.Variant, kind)
	}
}

// Metadata renders meta.xml declaring the core and the given extension kinds.
func (s *Schema) Metadata(extensions []TableKind, withEml bool) ([]byte, error) {
	req := MetadataRequest{Variant: s.Variant, Core: s.Core.Columns(), WithEml: withEml}
	for _, kind := range extensions {
		if kind == s.Variant.CoreKind() {
			continue
		}
		ext, err := s.extension(kind)
		if err != nil {
			return nil, err
		}
		req.Extensions = append(req.Extensions, ext)
	}
	return BuildMetadata(req)
}
