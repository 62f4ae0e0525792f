package config

import (
	"errors"
	"fmt"
	"strings"

	"dwcexport/internal/fields"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateFields(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateProvenance(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExport() error {
	switch c.Export.Variant {
	case VariantOccurrence, VariantEvent:
	default:
		return fmt.Errorf("export.variant must be %q or %q, got %q", VariantOccurrence, VariantEvent, c.Export.Variant)
	}
	if err := ensurePositiveMap(map[string]int{
		"export.workers":             c.Export.Workers,
		"export.assembly_workers":    c.Export.AssemblyWorkers,
		"export.batch_size":          c.Export.BatchSize,
		"export.stale_staging_hours": c.Export.StaleStagingHours,
	}); err != nil {
		return err
	}
	if c.Export.MinObservationCount < 0 {
		return errors.New("export.min_observation_count must be >= 0")
	}
	if strings.ContainsAny(c.Export.CombinedIdentifier, `/\`) {
		return errors.New("export.combined_identifier must not contain path separators")
	}
	return nil
}

func (c *Config) validateFields() error {
	core := fields.Occurrence
	if c.Export.Variant == VariantEvent {
		core = fields.Event
	}
	if _, err := core.Select(c.Export.CoreFields); err != nil {
		return fmt.Errorf("export.core_fields: %w", err)
	}
	if len(c.Export.OccurrenceFields) > 0 {
		if c.Export.Variant != VariantEvent {
			return errors.New("export.occurrence_fields only applies to the event variant")
		}
		if _, err := fields.Occurrence.Select(c.Export.OccurrenceFields); err != nil {
			return fmt.Errorf("export.occurrence_fields: %w", err)
		}
	}
	return nil
}

func (c *Config) validateProviders() error {
	ids := make(map[int]struct{}, len(c.Providers))
	identifiers := make(map[string]struct{}, len(c.Providers))
	for i, p := range c.Providers {
		if p.Identifier == "" {
			return fmt.Errorf("providers[%d].identifier must be set", i)
		}
		if strings.ContainsAny(p.Identifier, `/\`) {
			return fmt.Errorf("providers[%d].identifier must not contain path separators", i)
		}
		if p.Identifier == c.Export.CombinedIdentifier {
			return fmt.Errorf("providers[%d].identifier %q collides with export.combined_identifier", i, p.Identifier)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("providers[%d].id %d is duplicated", i, p.ID)
		}
		ids[p.ID] = struct{}{}
		if _, dup := identifiers[p.Identifier]; dup {
			return fmt.Errorf("providers[%d].identifier %q is duplicated", i, p.Identifier)
		}
		identifiers[p.Identifier] = struct{}{}
	}
	return nil
}

func (c *Config) validateSource() error {
	switch c.Source.Kind {
	case SourceElasticsearch:
		if c.Elasticsearch.URL == "" {
			return errors.New("elasticsearch.url must be set when source.kind is elasticsearch")
		}
		if c.Elasticsearch.Index == "" {
			return errors.New("elasticsearch.index must be set when source.kind is elasticsearch")
		}
	case SourceNDJSON:
		if c.Source.NDJSONDir == "" {
			return errors.New("source.ndjson_dir must be set when source.kind is ndjson")
		}
	default:
		return fmt.Errorf("source.kind must be %q or %q, got %q", SourceElasticsearch, SourceNDJSON, c.Source.Kind)
	}
	return nil
}

func (c *Config) validateProvenance() error {
	switch c.Provenance.Kind {
	case ProvenanceDirectory:
		if c.Paths.ProvenanceDir == "" {
			return errors.New("paths.provenance_dir must be set when provenance.kind is directory")
		}
	case ProvenanceMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri must be set when provenance.kind is mongo (or set DWCEXPORT_MONGO_URI)")
		}
	default:
		return fmt.Errorf("provenance.kind must be %q or %q, got %q", ProvenanceDirectory, ProvenanceMongo, c.Provenance.Kind)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
