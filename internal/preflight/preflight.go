package preflight

import (
	"context"
	"fmt"

	"dwcexport/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Working directories (always checked)
	results = append(results,
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir),
	)

	if cfg.Source.Kind == config.SourceNDJSON {
		results = append(results, CheckDirectoryReadable("NDJSON directory", cfg.Source.NDJSONDir))
	}
	if cfg.Provenance.Kind == config.ProvenanceDirectory {
		results = append(results, CheckDirectoryReadable("Provenance directory", cfg.Paths.ProvenanceDir))
	}

	for _, p := range cfg.EnabledProviders() {
		if p.VerbatimSource != "" {
			results = append(results, CheckVerbatimSource(fmt.Sprintf("Verbatim archive (%s)", p.Identifier), p.VerbatimSource))
		}
	}

	results = append(results, CheckElasticsearchFromConfig(ctx, cfg))
	results = append(results, CheckMongoFromConfig(ctx, cfg))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
