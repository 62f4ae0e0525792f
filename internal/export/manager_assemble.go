package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"dwcexport/internal/archive"
	"dwcexport/internal/deliveries"
	"dwcexport/internal/dwca"
	"dwcexport/internal/fileutil"
	"dwcexport/internal/logging"
	"dwcexport/internal/observation"
	"dwcexport/internal/staging"
)

// assemble builds every provider archive using up to
// cfg.Export.AssemblyWorkers workers. Outcomes keep provider order.
func (m *Manager) assemble(ctx context.Context, coord *staging.Coordinator, providers []observation.DataProvider, runID string, logger *slog.Logger) []Outcome {
	outcomes := make([]Outcome, len(providers))
	if len(providers) == 0 {
		return outcomes
	}

	workers := max(1, min(m.cfg.Export.AssemblyWorkers, len(providers)))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out := m.assembleProvider(ctx, coord, providers[i], runID, logger)
				m.metrics.Archives.WithLabelValues(out.Kind.String()).Inc()
				outcomes[i] = out
			}
		}()
	}
	for i := range providers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

func (m *Manager) assembleProvider(ctx context.Context, coord *staging.Coordinator, p observation.DataProvider, runID string, logger *slog.Logger) Outcome {
	logger = logger.With(logging.String(logging.FieldProvider, p.Identifier))
	if ctx.Err() != nil {
		return cancelled(p.Identifier)
	}
	if p.VerbatimSource != "" {
		return m.deliverVerbatim(ctx, p, runID, logger)
	}

	man, ok := coord.Manifest(p)
	if !ok {
		return failed(p.Identifier, errors.New("provider was not staged"))
	}
	if n := man.FailedBatches(); n > 0 {
		err := fmt.Errorf("%d batches failed during staging", n)
		logging.ErrorWithContext(logger, "provider archive not built", "archive_skipped_failed_batches",
			logging.Int64("failed_batches", n),
			logging.String(logging.FieldErrorHint, "see the batch_failed warnings for this provider"),
		)
		return failed(p.Identifier, err)
	}

	observations := man.ObservationCount()
	if floor := int64(m.cfg.Export.MinObservationCount); observations < floor {
		logger.Info("provider archive skipped",
			logging.Args(append(logging.DecisionAttrs("low_volume", "skipped",
				fmt.Sprintf("%d observations below minimum %d", observations, floor)),
				logging.Int64("observations", observations))...)...,
		)
		return skipped(p.Identifier, SkippedLowVolume, observations)
	}

	eml, err := m.provenance.Document(ctx, p.Identifier)
	if err != nil {
		return m.assemblyFailed(ctx, p.Identifier, fmt.Errorf("fetch eml: %w", err), logger)
	}
	previous, err := m.previousFingerprint(ctx, p.Identifier)
	if err != nil {
		return m.assemblyFailed(ctx, p.Identifier, err, logger)
	}
	man.SetPreviousFingerprint(previous)

	started := time.Now()
	path := m.ArchivePath(p.Identifier)
	res, err := archive.Build(ctx, archive.Request{
		Path:   path,
		Schema: m.schema,
		Tables: manifestTables(m.schema, man),
		Eml:    eml,
		// Event archives are delivered to aggregators that reject archives without dataset metadata.
		RequireEml: m.schema.Variant == dwca.VariantEvent,
		ProcessInfo: &archive.ProcessInfo{
			RunID:                    runID,
			Variant:                  m.schema.Variant.String(),
			Provider:                 p.Identifier,
			ProviderName:             p.Name,
			ObservationsBeforeFilter: man.ObservationCountBeforeFilter(),
			Observations:             observations,
		},
		Now:  m.now(),
		Keep: archive.ChangedSince(previous),
	}, logger)
	if err != nil {
		return m.assemblyFailed(ctx, p.Identifier, err, logger)
	}
	m.metrics.ObserveAssembly(m.schema.Variant.String(), time.Since(started))
	return m.settle(ctx, p.Identifier, res, observations, runID, logger)
}

// settle turns a finished build into an outcome and records deliveries.
func (m *Manager) settle(ctx context.Context, identifier string, res archive.Result, observations int64, runID string, logger *slog.Logger) Outcome {
	if res.Discarded {
		logger.Info("archive unchanged since last delivery",
			logging.Args(append(logging.DecisionAttrs("redelivery", "skipped", "fingerprint unchanged"),
				logging.Int64("fingerprint", res.Fingerprint))...)...,
		)
		out := skipped(identifier, SkippedUnchanged, observations)
		out.Fingerprint = res.Fingerprint
		return out
	}
	m.recordDelivery(ctx, identifier, res.Path, res.Fingerprint, observations, runID, logger)
	logger.Info("archive delivered",
		logging.String("path", res.Path),
		logging.Int64("fingerprint", res.Fingerprint),
		logging.Int64("observations", observations),
		logging.String("size", logging.FormatBytes(res.Size)),
		logging.String(logging.FieldEventType, "archive_delivered"),
	)
	return delivered(identifier, res.Path, res.Fingerprint, observations)
}

func (m *Manager) assemblyFailed(ctx context.Context, identifier string, err error, logger *slog.Logger) Outcome {
	if isCancellation(ctx, err) {
		logger.Info("archive assembly cancelled", logging.String(logging.FieldEventType, "assembly_cancelled"))
		return cancelled(identifier)
	}
	hint := "check export_dir permissions and free space"
	if errors.Is(err, archive.ErrProvenanceMissing) {
		hint = "add an eml document for the provider to the provenance store"
	}
	logging.ErrorWithContext(logger, "archive assembly failed", "assembly_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
	)
	return failed(identifier, err)
}

// previousFingerprint returns the last delivered fingerprint, or -1.
func (m *Manager) previousFingerprint(ctx context.Context, identifier string) (int64, error) {
	fp, ok, err := m.ledger.Fingerprint(ctx, identifier, m.schema.Variant.String())
	if err != nil {
		return 0, fmt.Errorf("read delivery ledger: %w", err)
	}
	if !ok {
		return -1, nil
	}
	return fp, nil
}

func (m *Manager) recordDelivery(ctx context.Context, identifier, path string, fingerprint, observations int64, runID string, logger *slog.Logger) {
	err := m.ledger.Record(ctx, deliveries.Delivery{
		Provider:         identifier,
		Variant:          m.schema.Variant.String(),
		Fingerprint:      fingerprint,
		ObservationCount: observations,
		ArchivePath:      path,
		RunID:            runID,
		DeliveredAt:      m.now(),
	})
	if err != nil {
		logging.WarnWithContext(logger, "failed to record delivery", "ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check deliveries_db permissions"),
			logging.String(logging.FieldImpact, "archive will be delivered again next run"),
		)
	}
}

// deliverVerbatim copies a pre-built archive through unchanged.
func (m *Manager) deliverVerbatim(ctx context.Context, p observation.DataProvider, runID string, logger *slog.Logger) Outcome {
	src := p.VerbatimSource
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		logger.Info("verbatim archive skipped",
			logging.Args(append(logging.DecisionAttrs("verbatim", "skipped", "source archive missing"),
				logging.String("source", src))...)...,
		)
		return skipped(p.Identifier, SkippedMissingSource, 0)
	}

	fingerprint, err := archive.Fingerprint(src)
	if err != nil {
		return m.assemblyFailed(ctx, p.Identifier, fmt.Errorf("read verbatim archive: %w", err), logger)
	}
	previous, err := m.previousFingerprint(ctx, p.Identifier)
	if err != nil {
		return m.assemblyFailed(ctx, p.Identifier, err, logger)
	}
	if !archive.ChangedSince(previous)(fingerprint) {
		return m.settle(ctx, p.Identifier, archive.Result{Fingerprint: fingerprint, Discarded: true}, 0, runID, logger)
	}

	dst := m.ArchivePath(p.Identifier)
	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		return m.assemblyFailed(ctx, p.Identifier, fmt.Errorf("copy verbatim archive: %w", err), logger)
	}
	var size int64
	if info, err := os.Stat(dst); err == nil {
		size = info.Size()
	}
	return m.settle(ctx, p.Identifier, archive.Result{Path: dst, Fingerprint: fingerprint, Size: size}, 0, runID, logger)
}

// assembleCombined builds the all-providers archive from every encoded
// provider that staged cleanly, low-volume ones and ones whose own archive
// failed to assemble included. It is discarded when no provider archive was
// delivered this run.
func (m *Manager) assembleCombined(ctx context.Context, coord *staging.Coordinator, providers []observation.DataProvider, outcomes []Outcome, runID string, logger *slog.Logger) (out Outcome) {
	id := m.cfg.Export.CombinedIdentifier
	logger = logger.With(logging.String(logging.FieldProvider, id))
	defer func() { m.metrics.Archives.WithLabelValues(out.Kind.String()).Inc() }()
	if ctx.Err() != nil {
		return cancelled(id)
	}

	changed := false
	for _, o := range outcomes {
		if o.Kind == Delivered {
			changed = true
		}
	}

	tables := make(map[dwca.TableKind][]string)
	var before, observations int64
	included := 0
	for i, p := range providers {
		if p.VerbatimSource != "" || outcomes[i].Kind == Cancelled {
			continue
		}
		man, ok := coord.Manifest(p)
		if !ok || man.FailedBatches() > 0 {
			continue
		}
		for kind, files := range manifestTables(m.schema, man) {
			tables[kind] = append(tables[kind], files...)
		}
		before += man.ObservationCountBeforeFilter()
		observations += man.ObservationCount()
		included++
	}
	if included == 0 {
		logger.Info("combined archive skipped",
			logging.Args(logging.DecisionAttrs("combined", "skipped", "no provider staged cleanly")...)...)
		return skipped(id, SkippedNoInput, 0)
	}

	eml, err := m.provenance.Document(ctx, id)
	if err != nil {
		return m.assemblyFailed(ctx, id, fmt.Errorf("fetch eml: %w", err), logger)
	}

	started := time.Now()
	res, err := archive.Build(ctx, archive.Request{
		Path:   m.ArchivePath(id),
		Schema: m.schema,
		Tables: tables,
		Eml:    eml,
		ProcessInfo: &archive.ProcessInfo{
			RunID:                    runID,
			Variant:                  m.schema.Variant.String(),
			Provider:                 id,
			ObservationsBeforeFilter: before,
			Observations:             observations,
		},
		Now:  m.now(),
		Keep: func(int64) bool { return changed },
	}, logger)
	if err != nil {
		return m.assemblyFailed(ctx, id, err, logger)
	}
	m.metrics.ObserveAssembly(m.schema.Variant.String(), time.Since(started))
	return m.settle(ctx, id, res, observations, runID, logger)
}

// manifestTables maps each table kind of schema to the provider's staging files.
func manifestTables(schema *dwca.Schema, man *staging.Manifest) map[dwca.TableKind][]string {
	tables := make(map[dwca.TableKind][]string)
	for _, kind := range schema.Kinds() {
		if files := man.Files(kind); len(files) > 0 {
			tables[kind] = files
		}
	}
	return tables
}
