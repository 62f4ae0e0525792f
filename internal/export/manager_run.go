package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dwcexport/internal/logging"
	"dwcexport/internal/preflight"
	"dwcexport/internal/staging"
)

// Run executes one export. It returns ErrRunLocked when another run holds the
// export directory and ErrCancelled, together with the partial report, when
// ctx ends before the run completes.
func (m *Manager) Run(ctx context.Context) (*Report, error) {
	lock := flock.New(m.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	if err := m.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	if err := m.runPreflightChecks(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, m.logger)
	report := &Report{RunID: runID, Variant: m.schema.Variant.String(), Started: m.now()}
	logger.Info("export run started",
		logging.String("variant", report.Variant),
		logging.Int("providers", len(m.cfg.EnabledProviders())),
	)

	if hours := m.cfg.Export.StaleStagingHours; hours > 0 {
		staging.CleanStale(ctx, m.cfg.Paths.StagingDir, time.Duration(hours)*time.Hour, logger)
	}

	coord, err := staging.New(staging.Options{Root: m.cfg.Paths.StagingDir, Schema: m.schema, Logger: logger})
	if err != nil {
		return nil, err
	}
	if err := coord.BeginRun(runID); err != nil {
		return nil, err
	}
	defer func() {
		if err := coord.Cleanup(); err != nil {
			logging.WarnWithContext(logger, "failed to remove run staging files", "staging_cleanup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the run directory under staging_dir manually"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
	}()

	providers := m.providers()
	m.stage(ctx, coord, providers, logger)

	if ctx.Err() != nil {
		for _, p := range providers {
			report.Providers = append(report.Providers, cancelled(p.Identifier))
		}
		report.Combined = cancelled(m.cfg.Export.CombinedIdentifier)
	} else {
		report.Providers = m.assemble(ctx, coord, providers, runID, logger)
		report.Combined = m.assembleCombined(ctx, coord, providers, report.Providers, runID, logger)
	}

	m.finish(report, logger)
	if ctx.Err() != nil {
		logger.Info("export run cancelled", logging.String(logging.FieldEventType, "run_cancelled"))
		return report, ErrCancelled
	}
	return report, nil
}

// runPreflightChecks verifies the directories the run writes into.
func (m *Manager) runPreflightChecks() error {
	results := []preflight.Result{
		preflight.CheckDirectoryAccess("Staging directory", m.cfg.Paths.StagingDir),
		preflight.CheckDirectoryAccess("Export directory", m.cfg.Paths.ExportDir),
	}
	var failures []string
	for _, r := range preflight.Failed(results) {
		m.logger.Error("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun the export"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	if len(failures) > 0 {
		return fmt.Errorf("preflight checks failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

func (m *Manager) finish(report *Report, logger *slog.Logger) {
	report.Finished = m.now()
	m.metrics.Finish(report.Started, report.Finished)
	if err := m.metrics.WriteTextfile(m.cfg.Telemetry.TextfilePath); err != nil {
		logging.WarnWithContext(logger, "failed to write metrics textfile", "metrics_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check telemetry.textfile_path"),
			logging.String(logging.FieldImpact, "run metrics not exported"),
		)
	}
	logger.Info("export run finished",
		logging.Int("delivered", report.Count(Delivered)),
		logging.Int("unchanged", report.Count(SkippedUnchanged)),
		logging.Int("low_volume", report.Count(SkippedLowVolume)),
		logging.Int("missing_source", report.Count(SkippedMissingSource)),
		logging.Int("failed", report.Count(Failed)),
		logging.String("combined", report.Combined.Kind.String()),
		logging.Duration("elapsed", report.Finished.Sub(report.Started).Round(time.Millisecond)),
	)
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
