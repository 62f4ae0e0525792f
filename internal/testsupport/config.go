package testsupport

import (
	"path/filepath"
	"testing"

	"dwcexport/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Records come from an NDJSON directory and eml documents from a directory, so
// no network service is needed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ProvenanceDir = filepath.Join(base, "eml")
	cfgVal.Paths.DeliveriesDB = filepath.Join(base, "deliveries.db")
	cfgVal.Source.Kind = config.SourceNDJSON
	cfgVal.Source.NDJSONDir = filepath.Join(base, "records")
	cfgVal.Provenance.Kind = config.ProvenanceDirectory
	cfgVal.Export.Workers = 2
	cfgVal.Export.AssemblyWorkers = 2
	cfgVal.Export.BatchSize = 100

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithVariant sets the archive variant.
func WithVariant(variant string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.Variant = variant
	}
}

// WithProvider appends a provider to the configuration.
func WithProvider(id int, identifier string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Providers = append(b.cfg.Providers, config.Provider{ID: id, Identifier: identifier, Name: identifier})
	}
}

// WithVerbatimProvider appends a provider exported from a pre-built archive.
func WithVerbatimProvider(id int, identifier, source string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Providers = append(b.cfg.Providers, config.Provider{
			ID:             id,
			Identifier:     identifier,
			Name:           identifier,
			VerbatimSource: source,
		})
	}
}

// WithBatchSize overrides the source batch size.
func WithBatchSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.BatchSize = n
	}
}

// WithMinObservations sets the low-volume floor.
func WithMinObservations(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.MinObservationCount = n
	}
}

// WithTelemetry writes run metrics to a textfile below the base directory.
func WithTelemetry() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Telemetry.TextfilePath = filepath.Join(b.baseDir, "metrics", "dwcexport.prom")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
