package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeProviders()
	c.normalizeElasticsearch()
	c.normalizeMongo()
	if err := c.normalizeSource(); err != nil {
		return err
	}
	if err := c.normalizeTelemetry(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ProvenanceDir, err = expandPath(c.Paths.ProvenanceDir); err != nil {
		return fmt.Errorf("paths.provenance_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DeliveriesDB) == "" {
		c.Paths.DeliveriesDB = defaultDeliveriesDB
	}
	if c.Paths.DeliveriesDB, err = expandPath(c.Paths.DeliveriesDB); err != nil {
		return fmt.Errorf("paths.deliveries_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	c.Export.Variant = strings.ToLower(strings.TrimSpace(c.Export.Variant))
	if c.Export.Variant == "" {
		c.Export.Variant = defaultVariant
	}
	c.Export.CombinedIdentifier = strings.TrimSpace(c.Export.CombinedIdentifier)
	if c.Export.CombinedIdentifier == "" {
		c.Export.CombinedIdentifier = defaultCombinedIdentifier
	}
	c.Export.CoreFields = trimList(c.Export.CoreFields)
	c.Export.OccurrenceFields = trimList(c.Export.OccurrenceFields)
}

func (c *Config) normalizeProviders() {
	for i := range c.Providers {
		p := &c.Providers[i]
		p.Identifier = strings.TrimSpace(p.Identifier)
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			p.Name = p.Identifier
		}
		if v := strings.TrimSpace(p.VerbatimSource); v != "" {
			if expanded, err := expandPath(v); err == nil {
				v = expanded
			}
			p.VerbatimSource = v
		}
	}
}

func (c *Config) normalizeElasticsearch() {
	c.Elasticsearch.URL = strings.TrimRight(strings.TrimSpace(c.Elasticsearch.URL), "/")
	c.Elasticsearch.Index = strings.TrimSpace(c.Elasticsearch.Index)
	c.Elasticsearch.Username = strings.TrimSpace(c.Elasticsearch.Username)
	if c.Elasticsearch.Password == "" {
		if value, ok := os.LookupEnv("DWCEXPORT_ES_PASSWORD"); ok {
			c.Elasticsearch.Password = value
		}
	}
	c.Elasticsearch.APIKey = strings.TrimSpace(c.Elasticsearch.APIKey)
	if c.Elasticsearch.APIKey == "" {
		if value, ok := os.LookupEnv("DWCEXPORT_ES_API_KEY"); ok {
			c.Elasticsearch.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Elasticsearch.TimeoutSeconds <= 0 {
		c.Elasticsearch.TimeoutSeconds = defaultESTimeoutSeconds
	}
}

func (c *Config) normalizeMongo() {
	c.Mongo.URI = strings.TrimSpace(c.Mongo.URI)
	if c.Mongo.URI == "" {
		if value, ok := os.LookupEnv("DWCEXPORT_MONGO_URI"); ok {
			c.Mongo.URI = strings.TrimSpace(value)
		}
	}
	c.Mongo.Database = strings.TrimSpace(c.Mongo.Database)
	if c.Mongo.Database == "" {
		c.Mongo.Database = defaultMongoDatabase
	}
	c.Mongo.Collection = strings.TrimSpace(c.Mongo.Collection)
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = defaultMongoCollection
	}
	c.Provenance.Kind = strings.ToLower(strings.TrimSpace(c.Provenance.Kind))
	if c.Provenance.Kind == "" {
		c.Provenance.Kind = defaultProvenanceKind
	}
}

func (c *Config) normalizeSource() error {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	if c.Source.Kind == "" {
		c.Source.Kind = defaultSourceKind
	}
	if strings.TrimSpace(c.Source.NDJSONDir) != "" {
		dir, err := expandPath(strings.TrimSpace(c.Source.NDJSONDir))
		if err != nil {
			return fmt.Errorf("source.ndjson_dir: %w", err)
		}
		c.Source.NDJSONDir = dir
	}
	return nil
}

func (c *Config) normalizeTelemetry() error {
	if strings.TrimSpace(c.Telemetry.TextfilePath) == "" {
		c.Telemetry.TextfilePath = ""
		return nil
	}
	path, err := expandPath(strings.TrimSpace(c.Telemetry.TextfilePath))
	if err != nil {
		return fmt.Errorf("telemetry.textfile_path: %w", err)
	}
	c.Telemetry.TextfilePath = path
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
