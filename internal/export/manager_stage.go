package export

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"dwcexport/internal/logging"
	"dwcexport/internal/observation"
	"dwcexport/internal/source"
	"dwcexport/internal/staging"
)

// stage feeds every encoded provider through the coordinator using up to
// cfg.Export.Workers workers. Verbatim providers are skipped.
func (m *Manager) stage(ctx context.Context, coord *staging.Coordinator, providers []observation.DataProvider, logger *slog.Logger) {
	var encoded []observation.DataProvider
	for _, p := range providers {
		if p.VerbatimSource == "" {
			encoded = append(encoded, p)
		}
	}
	if len(encoded) == 0 {
		return
	}

	workers := max(1, min(m.cfg.Export.Workers, len(encoded)))
	jobs := make(chan observation.DataProvider)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				m.stageProvider(ctx, coord, p, logger)
			}
		}()
	}

feed:
	for _, p := range encoded {
		select {
		case jobs <- p:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
}

func (m *Manager) stageProvider(ctx context.Context, coord *staging.Coordinator, p observation.DataProvider, logger *slog.Logger) {
	logger = logger.With(logging.String(logging.FieldProvider, p.Identifier))
	if _, err := coord.EnsureManifest(p); err != nil {
		logging.ErrorWithContext(logger, "failed to prepare provider staging", "staging_prepare_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
		)
		return
	}

	err := m.source.Batches(ctx, p, m.cfg.Export.BatchSize, func(b source.Batch) error {
		res, err := coord.WriteBatch(ctx, p, b.ID, b.Records)
		m.metrics.RecordsReceived.WithLabelValues(p.Identifier).Add(float64(res.Received))
		if err != nil {
			if isCancellation(ctx, err) {
				return ctx.Err()
			}
			// Write failures were already counted and rolled back by the coordinator.
			if errors.Is(err, staging.ErrDuplicateBatch) {
				_ = coord.RecordFailure(p)
			}
			m.metrics.BatchesFailed.WithLabelValues(p.Identifier).Inc()
			logging.WarnWithContext(logger, "batch not staged", "batch_failed",
				logging.String(logging.FieldBatchID, b.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "rerun the export once the cause is fixed"),
				logging.String(logging.FieldImpact, "provider archive will not be delivered this run"),
			)
			return nil
		}
		m.metrics.RecordsFiltered.WithLabelValues(p.Identifier).Add(float64(res.Filtered))
		for kind, n := range res.Rows {
			m.metrics.RowsStaged.WithLabelValues(kind.String()).Add(float64(n))
		}
		return nil
	})
	if err != nil {
		if isCancellation(ctx, err) {
			logger.Info("provider staging cancelled", logging.String(logging.FieldEventType, "staging_cancelled"))
			return
		}
		_ = coord.RecordFailure(p)
		m.metrics.BatchesFailed.WithLabelValues(p.Identifier).Inc()
		logging.ErrorWithContext(logger, "reading provider records failed", "source_read_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the observation source configuration and availability"),
		)
		return
	}

	if man, ok := coord.Manifest(p); ok {
		logger.Info("provider staged",
			logging.Int64("received", man.ObservationCountBeforeFilter()),
			logging.Int64("observations", man.ObservationCount()),
			logging.Int64("failed_batches", man.FailedBatches()),
			logging.String(logging.FieldEventType, "provider_staged"),
		)
	}
}
