package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dwcexport/internal/export"
	"dwcexport/internal/logging"
)

type outcomeJSON struct {
	Provider     string `json:"provider"`
	Outcome      string `json:"outcome"`
	Path         string `json:"path,omitempty"`
	Fingerprint  int64  `json:"fingerprint,omitempty"`
	Observations int64  `json:"observations"`
	Error        string `json:"error,omitempty"`
}

type reportJSON struct {
	RunID     string        `json:"run_id"`
	Variant   string        `json:"variant"`
	Started   time.Time     `json:"started"`
	Finished  time.Time     `json:"finished"`
	Providers []outcomeJSON `json:"providers"`
	Combined  outcomeJSON   `json:"combined"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Stage provider records and assemble Darwin Core Archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			deps, closeDeps, err := export.OpenDeps(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeDeps(); err != nil {
					logger.Warn("close export dependencies", logging.Error(err))
				}
			}()

			mgr, err := export.NewManager(cfg, deps)
			if err != nil {
				return err
			}
			report, runErr := mgr.Run(cmd.Context())
			if report != nil {
				if ctx.JSONMode() {
					if err := writeJSON(cmd, toReportJSON(report)); err != nil {
						return err
					}
				} else {
					printReport(cmd, report)
				}
			}
			switch {
			case runErr == nil:
				if report.Count(export.Failed) > 0 || report.Combined.Kind == export.Failed {
					return errors.New("export finished with failed archives")
				}
				return nil
			case errors.Is(runErr, export.ErrRunLocked):
				return fmt.Errorf("%w (lock %s)", runErr, cfg.LockPath())
			default:
				return runErr
			}
		},
	}
}

func printReport(cmd *cobra.Command, report *export.Report) {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(report.Providers)+1)
	for _, o := range append(append([]export.Outcome{}, report.Providers...), report.Combined) {
		if o.Provider == "" {
			continue
		}
		detail := o.Path
		if o.Kind == export.Failed && o.Err != nil {
			detail = o.Err.Error()
		}
		fingerprint := ""
		if o.Fingerprint > 0 {
			fingerprint = strconv.FormatInt(o.Fingerprint, 10)
		}
		rows = append(rows, []string{o.Provider, o.Kind.String(), strconv.FormatInt(o.Observations, 10), fingerprint, detail})
	}
	fmt.Fprintf(out, "Run %s (%s)\n", report.RunID, report.Variant)
	fmt.Fprint(out, renderTable(
		[]string{"Provider", "Outcome", "Observations", "Fingerprint", "Archive"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	colorize := shouldColorize(out)
	kind, message := statusOK, fmt.Sprintf("%d archive(s) delivered", len(report.DeliveredPaths()))
	if report.Count(export.Failed) > 0 {
		kind, message = statusError, fmt.Sprintf("%d provider(s) failed", report.Count(export.Failed))
	}
	fmt.Fprintln(out, renderStatusLine("Summary", kind, message, colorize))
	fmt.Fprintf(out, "Duration: %s\n", report.Finished.Sub(report.Started).Round(time.Millisecond))
}

func toOutcomeJSON(o export.Outcome) outcomeJSON {
	out := outcomeJSON{
		Provider:     o.Provider,
		Outcome:      o.Kind.String(),
		Path:         o.Path,
		Fingerprint:  o.Fingerprint,
		Observations: o.Observations,
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return out
}

func toReportJSON(r *export.Report) reportJSON {
	out := reportJSON{
		RunID:     r.RunID,
		Variant:   r.Variant,
		Started:   r.Started,
		Finished:  r.Finished,
		Providers: make([]outcomeJSON, 0, len(r.Providers)),
		Combined:  toOutcomeJSON(r.Combined),
	}
	for _, o := range r.Providers {
		out.Providers = append(out.Providers, toOutcomeJSON(o))
	}
	return out
}
