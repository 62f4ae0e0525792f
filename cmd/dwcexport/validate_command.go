package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dwcexport/internal/validate"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var skip, take int
	var outPath string

	cmd := &cobra.Command{
		Use:   "validate <archive>",
		Short: "Extract a sample of an archive and report malformed rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			src := args[0]
			target := strings.TrimSpace(outPath)
			if target == "" {
				base := strings.TrimSuffix(filepath.Base(src), ".zip")
				target = filepath.Join(filepath.Dir(src), base+"-sample.zip")
			}

			report, err := validate.Extract(cmd.Context(), src, validate.Options{
				Skip:   skip,
				Take:   take,
				Out:    target,
				Logger: logger,
			})
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(report.Tables))
			for _, t := range report.Tables {
				rows = append(rows, []string{
					t.Name,
					strconv.Itoa(t.RowsRead),
					strconv.Itoa(t.RowsKept),
					strconv.Itoa(len(t.ErrorRows)),
					strings.Join(t.ErrorColumns, ", "),
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Table", "Read", "Sampled", "Error rows", "Error columns"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			kind, message := statusOK, "no findings"
			if report.HasFindings() {
				kind = statusWarn
				message = fmt.Sprintf("%d duplicate id(s), %d error row(s)", len(report.Duplicates), report.ErrorRowCount())
			}
			fmt.Fprintln(out, renderStatusLine("Validation", kind, message, shouldColorize(out)))
			fmt.Fprintf(out, "Sample written to %s\n", target)
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Core rows to pass over before sampling")
	cmd.Flags().IntVar(&take, "take", validate.DefaultTake, "Core rows to sample")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Sample archive path (default <archive>-sample.zip)")
	return cmd
}
