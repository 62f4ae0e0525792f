// Package provenance supplies the eml dataset documents that accompany each
// archive. An absent document is not an error: Document returns nil and the
// archive is built without eml.xml unless the caller requires one.
package provenance

import (
	"context"
	"fmt"
	"log/slog"

	"dwcexport/internal/config"
)

// Source looks up eml documents by provider identifier.
type Source interface {
	Document(ctx context.Context, identifier string) ([]byte, error)
	Close(ctx context.Context) error
}

// Open returns the source selected by cfg.Provenance.Kind.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Source, error) {
	switch cfg.Provenance.Kind {
	case config.ProvenanceDirectory, "":
		return NewDirectory(cfg.Paths.ProvenanceDir), nil
	case config.ProvenanceMongo:
		return NewMongo(ctx, cfg.Mongo, logger)
	default:
		return nil, fmt.Errorf("unknown provenance kind %q", cfg.Provenance.Kind)
	}
}
