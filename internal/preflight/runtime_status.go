package preflight

import (
	"context"
	"strings"

	"dwcexport/internal/config"
)

// CheckElasticsearchFromConfig evaluates the observation cluster when it is the configured source.
func CheckElasticsearchFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Elasticsearch"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if cfg.Source.Kind != config.SourceElasticsearch {
		return Result{Name: name, Passed: true, Detail: "Skipped (source is " + cfg.Source.Kind + ")"}
	}
	if strings.TrimSpace(cfg.Elasticsearch.URL) == "" {
		return Result{Name: name, Detail: "Missing URL"}
	}
	return CheckElasticsearch(ctx, cfg.Elasticsearch)
}

// CheckMongoFromConfig evaluates the provenance database when it is the configured provenance store.
func CheckMongoFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "MongoDB"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if cfg.Provenance.Kind != config.ProvenanceMongo {
		return Result{Name: name, Passed: true, Detail: "Skipped (provenance is " + cfg.Provenance.Kind + ")"}
	}
	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		return Result{Name: name, Detail: "Missing URI"}
	}
	return CheckMongo(ctx, cfg.Mongo)
}
