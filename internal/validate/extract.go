package validate

import (
	"archive/zip"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dwcexport/internal/dwca"
	"dwcexport/internal/fileutil"
	"dwcexport/internal/logging"
)

// ReportEntry is the name of the report inside the sample archive.
const ReportEntry = "validation.txt"

// DefaultTake is the number of core rows sampled when Options.Take is unset.
const DefaultTake = 1000

var (
	// ErrMissingMeta reports an archive without meta.xml.
	ErrMissingMeta = errors.New("archive has no meta.xml")
	// ErrMissingCore reports an archive whose core table entry is absent.
	ErrMissingCore = errors.New("archive has no core table")
)

// passthrough entries are copied into the sample unchanged.
var passthrough = []string{"meta.xml", "eml.xml", "processinfo.xml"}

// Options configures Extract.
type Options struct {
	// Skip is the number of core data rows passed over before sampling.
	Skip int
	// Take is the maximum number of core data rows sampled.
	Take int
	// Out is the sample archive path.
	Out    string
	Logger *slog.Logger
}

// Extract writes a sample of the archive at src to opts.Out together with a
// validation report, and returns the report.
func Extract(ctx context.Context, src string, opts Options) (*Report, error) {
	if opts.Skip < 0 {
		return nil, fmt.Errorf("skip must not be negative, got %d", opts.Skip)
	}
	if opts.Take <= 0 {
		opts.Take = DefaultTake
	}
	if strings.TrimSpace(opts.Out) == "" {
		return nil, errors.New("output path is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "validate")

	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}
	metaFile, ok := entries["meta.xml"]
	if !ok {
		return nil, ErrMissingMeta
	}
	metaData, err := readEntry(metaFile)
	if err != nil {
		return nil, err
	}
	meta, err := dwca.ParseMetadata(metaData)
	if err != nil {
		return nil, err
	}
	coreFile, ok := entries[meta.Core.Location]
	if !ok || meta.Core.Location == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingCore, meta.Core.Location)
	}

	tmp, err := fileutil.CreateTemp(opts.Out)
	if err != nil {
		return nil, fmt.Errorf("create sample archive: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()
	zw := zip.NewWriter(tmp)

	report := &Report{
		Source:   filepath.Base(src),
		CoreFile: meta.Core.Location,
		Skip:     opts.Skip,
		Take:     opts.Take,
	}

	ids := make(map[string]int)
	var order []string
	coreReport, err := copyTable(ctx, zw, coreFile, func(line int, id string) bool {
		if line <= opts.Skip {
			return false
		}
		if ids[id] == 0 {
			order = append(order, id)
		}
		ids[id]++
		return true
	}, func(line int) bool { return line > opts.Skip+opts.Take }, 0, true)
	if err != nil {
		return nil, err
	}
	report.CoreRows = coreReport.RowsKept
	report.Tables = append(report.Tables, coreReport)
	for _, id := range order {
		if ids[id] > 1 {
			report.Duplicates = append(report.Duplicates, Duplicate{ID: id, Count: ids[id]})
		}
	}

	for _, ext := range meta.Extensions {
		f, ok := entries[ext.Location]
		if !ok {
			logging.WarnWithContext(logger, "extension declared in meta.xml is missing", "extension_missing",
				logging.String(logging.FieldTable, ext.Location),
				logging.String(logging.FieldImpact, "extension not sampled"),
			)
			continue
		}
		coreID := 0
		if ext.CoreID != nil {
			coreID = ext.CoreID.Index
		}
		tr, err := copyTable(ctx, zw, f, func(_ int, id string) bool {
			return ids[id] > 0
		}, nil, coreID, false)
		if err != nil {
			return nil, err
		}
		report.Tables = append(report.Tables, tr)
	}

	for _, name := range passthrough {
		f, ok := entries[name]
		if !ok {
			continue
		}
		if err := copyEntry(zw, f); err != nil {
			return nil, err
		}
	}

	w, err := zw.Create(ReportEntry)
	if err != nil {
		return nil, err
	}
	if err := report.WriteText(w); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish sample archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close sample archive: %w", err)
	}
	if err := fileutil.Replace(tmpPath, opts.Out); err != nil {
		return nil, err
	}
	committed = true

	logger.Info("archive sample extracted",
		logging.String("source", src),
		logging.String("output", opts.Out),
		logging.Int("core_rows", report.CoreRows),
		logging.Int("duplicates", len(report.Duplicates)),
		logging.Int("error_rows", report.ErrorRowCount()),
	)
	return report, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

func copyEntry(zw *zip.Writer, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	w, err := zw.Create(f.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copy %s: %w", f.Name, err)
	}
	return nil
}

// copyTable streams one table entry into the sample. keep decides per data
// row (1-based line, identifier at idIndex) whether it is copied; stop ends
// the stream early. Cells of every row read are checked, unless windowed is
// set, in which case only kept rows are checked.
func copyTable(ctx context.Context, zw *zip.Writer, f *zip.File, keep func(int, string) bool, stop func(int) bool, idIndex int, windowed bool) (TableReport, error) {
	tr := TableReport{Name: f.Name}
	rc, err := f.Open()
	if err != nil {
		return tr, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	w, err := zw.Create(f.Name)
	if err != nil {
		return tr, err
	}

	br := bufio.NewReaderSize(rc, 64*1024)
	header, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return tr, fmt.Errorf("read %s header: %w", f.Name, err)
	}
	if _, err := io.WriteString(w, header); err != nil {
		return tr, err
	}
	columns := strings.Split(strings.TrimRight(header, "\r\n"), "\t")
	badColumns := make(map[string]bool)

	for line := 1; ; line++ {
		if stop != nil && stop(line) {
			break
		}
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return tr, err
			}
		}
		raw, err := br.ReadString('\n')
		if raw == "" && errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return tr, fmt.Errorf("read %s: %w", f.Name, err)
		}
		tr.RowsRead++
		row := strings.TrimSuffix(raw, "\n")
		cells := strings.Split(row, "\t")
		id := ""
		if idIndex < len(cells) {
			id = cells[idIndex]
		}
		kept := keep(line, id)
		if kept {
			tr.RowsKept++
			if !strings.HasSuffix(raw, "\n") {
				raw += "\n"
			}
			if _, err := io.WriteString(w, raw); err != nil {
				return tr, err
			}
		}
		if windowed && !kept {
			continue
		}
		if er, ok := inspectRow(line, row, cells, columns); ok {
			tr.ErrorRows = append(tr.ErrorRows, er)
			for _, c := range er.Cells {
				if !badColumns[c.Column] {
					badColumns[c.Column] = true
					tr.ErrorColumns = append(tr.ErrorColumns, c.Column)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return tr, nil
}

func inspectRow(line int, row string, cells, columns []string) (ErrorRow, bool) {
	var bad []ErrorCell
	for i, cell := range cells {
		if !badCell(cell) {
			continue
		}
		name := fmt.Sprintf("column %d", i)
		if i < len(columns) {
			name = columns[i]
		}
		bad = append(bad, ErrorCell{Column: name, Value: cell})
	}
	if len(bad) == 0 {
		return ErrorRow{}, false
	}
	return ErrorRow{Line: line, Row: row, Cells: bad}, true
}
