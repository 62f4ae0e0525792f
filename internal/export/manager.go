package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"dwcexport/internal/config"
	"dwcexport/internal/deliveries"
	"dwcexport/internal/dwca"
	"dwcexport/internal/logging"
	"dwcexport/internal/observation"
	"dwcexport/internal/provenance"
	"dwcexport/internal/source"
	"dwcexport/internal/source/elastic"
	"dwcexport/internal/telemetry"
	"dwcexport/internal/textutil"
)

// Deps are the collaborators a Manager talks to.
type Deps struct {
	Source     source.Source
	Provenance provenance.Source
	Deliveries *deliveries.Store
	Logger     *slog.Logger
	// Metrics defaults to a fresh registry per manager.
	Metrics *telemetry.Metrics
	// Now defaults to time.Now; it stamps eml pubDate and processinfo.
	Now func() time.Time
}

// Manager coordinates export runs for one configuration.
type Manager struct {
	cfg        *config.Config
	schema     *dwca.Schema
	source     source.Source
	provenance provenance.Source
	ledger     *deliveries.Store
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	now        func() time.Time
}

// NewManager validates the column selection for cfg and wires deps.
func NewManager(cfg *config.Config, deps Deps) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("export manager requires config")
	}
	if deps.Source == nil || deps.Provenance == nil || deps.Deliveries == nil {
		return nil, errors.New("export manager requires source, provenance, and deliveries store")
	}
	variant, err := dwca.ParseVariant(cfg.Export.Variant)
	if err != nil {
		return nil, err
	}
	schema, err := dwca.NewSchema(dwca.SchemaOptions{
		Variant:           variant,
		CoreFields:        cfg.Export.CoreFields,
		OccurrenceFields:  cfg.Export.OccurrenceFields,
		IncludeEmof:       cfg.Export.IncludeEmof,
		IncludeMultimedia: cfg.Export.IncludeMultimedia,
	})
	if err != nil {
		return nil, fmt.Errorf("build archive schema: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.New()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		cfg:        cfg,
		schema:     schema,
		source:     deps.Source,
		provenance: deps.Provenance,
		ledger:     deps.Deliveries,
		logger:     logging.NewComponentLogger(logger, "export"),
		metrics:    metrics,
		now:        now,
	}, nil
}

// Metrics exposes the run metrics.
func (m *Manager) Metrics() *telemetry.Metrics { return m.metrics }

// Schema exposes the archive layout used by the manager.
func (m *Manager) Schema() *dwca.Schema { return m.schema }

// ArchivePath is where the archive for identifier is delivered.
func (m *Manager) ArchivePath(identifier string) string {
	return filepath.Join(m.cfg.Paths.ExportDir, m.schema.Variant.ArchiveFileName(textutil.SanitizeFileName(identifier)))
}

func (m *Manager) providers() []observation.DataProvider {
	enabled := m.cfg.EnabledProviders()
	out := make([]observation.DataProvider, 0, len(enabled))
	for _, p := range enabled {
		out = append(out, observation.DataProvider{
			ID:             p.ID,
			Identifier:     p.Identifier,
			Name:           p.Name,
			VerbatimSource: p.VerbatimSource,
		})
	}
	return out
}

// OpenDeps opens the collaborators named by cfg. The returned close function
// releases them.
func OpenDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Deps, func() error, error) {
	var src source.Source
	switch cfg.Source.Kind {
	case config.SourceNDJSON:
		src = source.NewNDJSON(cfg.Source.NDJSONDir)
	case config.SourceElasticsearch:
		es, err := elastic.New(cfg.Elasticsearch, logger)
		if err != nil {
			return Deps{}, nil, err
		}
		src = es
	default:
		return Deps{}, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	prov, err := provenance.Open(ctx, cfg, logger)
	if err != nil {
		return Deps{}, nil, err
	}
	store, err := deliveries.Open(cfg)
	if err != nil {
		_ = prov.Close(context.Background())
		return Deps{}, nil, err
	}
	closeFn := func() error {
		return errors.Join(prov.Close(context.Background()), store.Close())
	}
	return Deps{
		Source:     src,
		Provenance: prov,
		Deliveries: store,
		Logger:     logger,
		Metrics:    telemetry.New(),
	}, closeFn, nil
}
