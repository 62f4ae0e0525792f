package archive

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"dwcexport/internal/dwca"
	"dwcexport/internal/fileutil"
	"dwcexport/internal/logging"
)

// Entry names besides the tables.
const (
	MetaEntry        = "meta.xml"
	EmlEntry         = "eml.xml"
	ProcessInfoEntry = "processinfo.xml"
)

// ErrProvenanceMissing is returned when an eml document is required but absent.
var ErrProvenanceMissing = errors.New("provenance document missing")

// Request describes one archive to build.
type Request struct {
	// Path is the final archive location.
	Path   string
	Schema *dwca.Schema
	// Tables maps each table kind to its staging files in concatenation order.
	// The core table is always written, extensions only when they have files.
	Tables map[dwca.TableKind][]string
	// Eml is the provenance document, nil when the collaborator had none.
	Eml        []byte
	RequireEml bool
	// ProcessInfo adds processinfo.xml when set.
	ProcessInfo *ProcessInfo
	Now         time.Time
	// Keep decides from the fingerprint whether the archive replaces the
	// destination. A nil Keep always replaces it.
	Keep func(fingerprint int64) bool
}

// EntryInfo records the uncompressed size of one archive entry.
type EntryInfo struct {
	Name string
	Size int64
}

// Result describes a built archive.
type Result struct {
	Path        string
	Fingerprint int64
	Entries     []EntryInfo
	Size        int64
	// Discarded is set when Keep rejected the archive; Path was left untouched.
	Discarded bool
}

// ProcessInfo is the content of processinfo.xml.
type ProcessInfo struct {
	XMLName                  xml.Name `xml:"processinfo"`
	RunID                    string   `xml:"runId"`
	Variant                  string   `xml:"variant"`
	Provider                 string   `xml:"provider"`
	ProviderName             string   `xml:"providerName,omitempty"`
	ObservationsBeforeFilter int64    `xml:"observationCountBeforeFilter"`
	Observations             int64    `xml:"observationCount"`
	// Built is always UTC with a fixed width, so it never changes the fingerprint.
	Built string `xml:"built"`
}

// BuiltLayout formats ProcessInfo.Built.
const BuiltLayout = "2006-01-02T15:04:05Z"

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Build assembles the archive described by req. The destination is replaced
// only on success; on failure the temporary file is removed.
func Build(ctx context.Context, req Request, logger *slog.Logger) (Result, error) {
	if req.Schema == nil {
		return Result{}, errors.New("archive schema is required")
	}
	if req.Eml == nil && req.RequireEml {
		return Result{}, ErrProvenanceMissing
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	tmp, err := fileutil.CreateTemp(req.Path)
	if err != nil {
		return Result{}, fmt.Errorf("create temporary archive: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	res := Result{Path: req.Path}
	zw := zip.NewWriter(tmp)
	add := func(name string, write func(io.Writer) error) (int64, error) {
		w, err := zw.Create(name)
		if err != nil {
			return 0, err
		}
		cw := &countingWriter{w: w}
		if err := write(cw); err != nil {
			return cw.n, fmt.Errorf("write %s: %w", name, err)
		}
		res.Entries = append(res.Entries, EntryInfo{Name: name, Size: cw.n})
		return cw.n, nil
	}

	core := req.Schema.Variant.CoreKind()
	var extensions []dwca.TableKind
	for _, kind := range req.Schema.Kinds() {
		files := req.Tables[kind]
		if kind != core && len(files) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		header, err := req.Schema.Header(kind)
		if err != nil {
			return Result{}, err
		}
		n, err := add(kind.FileName(), func(w io.Writer) error {
			if _, err := w.Write(header); err != nil {
				return err
			}
			_, err := fileutil.Concat(w, files...)
			return err
		})
		if err != nil {
			return Result{}, err
		}
		res.Fingerprint += n
		if kind != core {
			extensions = append(extensions, kind)
		}
	}

	meta, err := req.Schema.Metadata(extensions, req.Eml != nil)
	if err != nil {
		return Result{}, err
	}
	n, err := add(MetaEntry, writeBytes(meta))
	if err != nil {
		return Result{}, err
	}
	res.Fingerprint += n

	if req.Eml != nil {
		eml, dateLen := RewritePubDate(req.Eml, req.Now)
		n, err := add(EmlEntry, writeBytes(eml))
		if err != nil {
			return Result{}, err
		}
		res.Fingerprint += n - int64(dateLen)
	} else {
		logging.WarnWithContext(logger, "archive built without eml document", "eml_missing",
			logging.String("path", req.Path),
			logging.String(logging.FieldErrorHint, "add an eml document for the provider to the provenance store"),
			logging.String(logging.FieldImpact, "archive has no dataset metadata"),
		)
	}

	if req.ProcessInfo != nil {
		info := *req.ProcessInfo
		if info.Built == "" {
			info.Built = req.Now.UTC().Format(BuiltLayout)
		}
		data, err := xml.MarshalIndent(info, "", "  ")
		if err != nil {
			return Result{}, fmt.Errorf("encode processinfo: %w", err)
		}
		n, err := add(ProcessInfoEntry, writeBytes(append([]byte(xml.Header), data...)))
		if err != nil {
			return Result{}, err
		}
		res.Fingerprint += n
	}

	if err := zw.Close(); err != nil {
		return Result{}, fmt.Errorf("finish archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("close archive: %w", err)
	}
	if info, err := os.Stat(tmpPath); err == nil {
		res.Size = info.Size()
	}
	if req.Keep != nil && !req.Keep(res.Fingerprint) {
		res.Discarded = true
		logger.Debug("archive discarded",
			logging.String("path", req.Path),
			logging.Int64("fingerprint", res.Fingerprint),
		)
		return res, nil
	}
	if err := fileutil.Replace(tmpPath, req.Path); err != nil {
		return Result{}, err
	}
	committed = true

	logger.Debug("archive written",
		logging.String("path", req.Path),
		logging.Int64("fingerprint", res.Fingerprint),
		logging.String("size", logging.FormatBytes(res.Size)),
	)
	return res, nil
}

func writeBytes(data []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}

// Fingerprint computes the fingerprint of an existing archive the same way
// Build does.
func Fingerprint(path string) (int64, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	var total int64
	for _, f := range zr.File {
		total += int64(f.UncompressedSize64)
		if f.Name != EmlEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return 0, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", EmlEntry, err)
		}
		total -= int64(pubDateLength(data))
	}
	return total, nil
}

// ChangedSince keeps an archive only when its fingerprint differs from
// previous. A previous value <= 0 means nothing was delivered before.
func ChangedSince(previous int64) func(int64) bool {
	return func(fp int64) bool { return previous <= 0 || fp != previous }
}
