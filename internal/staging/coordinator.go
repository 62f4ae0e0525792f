package staging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dwcexport/internal/dwca"
	"dwcexport/internal/logging"
	"dwcexport/internal/observation"
	"dwcexport/internal/textutil"
)

// RunDirPrefix prefixes every run directory under the staging root.
const RunDirPrefix = "run-"

var (
	// ErrRunNotStarted is returned by WriteBatch before BeginRun.
	ErrRunNotStarted = errors.New("staging run not started")
	// ErrDuplicateBatch is returned when a batch id is written twice for one provider.
	ErrDuplicateBatch = errors.New("batch already staged")
)

// Options configures a Coordinator.
type Options struct {
	Root   string
	Schema *dwca.Schema
	Logger *slog.Logger
}

// BatchResult summarises one WriteBatch call.
type BatchResult struct {
	Received int
	Filtered int
	Written  int
	Rows     map[dwca.TableKind]int
}

// Coordinator appends deduplicated rows for many providers to per-batch
// staging files. One coordinator serves one run at a time.
type Coordinator struct {
	root   string
	schema *dwca.Schema
	logger *slog.Logger

	mu           sync.Mutex
	runID        string
	runDir       string
	manifests    map[string]*Manifest
	events       *KeySet
	measurements *KeySet
}

// New creates a coordinator writing below opts.Root.
func New(opts Options) (*Coordinator, error) {
	root := strings.TrimSpace(opts.Root)
	if root == "" {
		return nil, errors.New("staging root is required")
	}
	if opts.Schema == nil {
		return nil, errors.New("schema is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		root:   root,
		schema: opts.Schema,
		logger: logging.NewComponentLogger(logger, "staging"),
	}, nil
}

// BeginRun discards all per-run state and creates a fresh run directory.
// An empty runID gets a random one.
func (c *Coordinator) BeginRun(runID string) error {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		runID = uuid.NewString()
	}
	dir := filepath.Join(c.root, RunDirPrefix+textutil.SanitizeToken(runID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.runID = runID
	c.runDir = dir
	c.manifests = make(map[string]*Manifest)
	c.events = NewKeySet()
	c.measurements = NewKeySet()
	c.logger.Debug("staging run started",
		logging.String(logging.FieldRunID, runID),
		logging.String("path", dir),
	)
	return nil
}

// RunID returns the id of the current run.
func (c *Coordinator) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// RunDir returns the directory of the current run.
func (c *Coordinator) RunDir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runDir
}

// Schema returns the table layout rows are encoded with.
func (c *Coordinator) Schema() *dwca.Schema { return c.schema }

// Manifest returns the manifest of provider, if it has been seen this run.
func (c *Coordinator) Manifest(provider observation.DataProvider) (*Manifest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.manifests[provider.Key()]
	return m, ok
}

// Manifests returns every provider manifest of the run, sorted by identifier.
func (c *Coordinator) Manifests() []*Manifest {
	c.mu.Lock()
	out := make([]*Manifest, 0, len(c.manifests))
	for _, m := range c.manifests {
		out = append(out, m)
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Provider.Identifier < out[j].Provider.Identifier })
	return out
}

// EnsureManifest returns the provider manifest, creating it and its staging
// directory on first use.
func (c *Coordinator) EnsureManifest(provider observation.DataProvider) (*Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.manifests == nil {
		return nil, ErrRunNotStarted
	}
	if m, ok := c.manifests[provider.Key()]; ok {
		return m, nil
	}
	dir := filepath.Join(c.runDir, strconv.Itoa(provider.ID)+"-"+textutil.SanitizeToken(provider.Identifier))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create provider staging directory: %w", err)
	}
	m := newManifest(provider, dir)
	c.manifests[provider.Key()] = m
	return m, nil
}

// EventKeys counts distinct events staged this run.
func (c *Coordinator) EventKeys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.events == nil {
		return 0
	}
	return c.events.Len()
}

// WriteBatch encodes records and appends the rows not yet written this run to
// the provider's staging files for batchID. Restricted records are dropped.
// On failure nothing of the batch remains staged and its claimed keys are
// released.
func (c *Coordinator) WriteBatch(ctx context.Context, provider observation.DataProvider, batchID string, records []*observation.Observation) (BatchResult, error) {
	res := BatchResult{Received: len(records), Rows: make(map[dwca.TableKind]int)}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	m, err := c.EnsureManifest(provider)
	if err != nil {
		return res, err
	}
	c.mu.Lock()
	events, measurements := c.events, c.measurements
	c.mu.Unlock()

	token := textutil.SanitizeToken(batchID)
	if !m.reserve(token) {
		return res, fmt.Errorf("%w: %s/%s", ErrDuplicateBatch, provider.Identifier, batchID)
	}

	var claimedEvents, claimedMeasurements []string
	rollback := func() {
		events.Remove(claimedEvents...)
		measurements.Remove(claimedMeasurements...)
		m.dropTargets(token)
	}

	bufs := make(map[dwca.TableKind][]byte)
	s := c.schema
	for _, rec := range records {
		if rec == nil || rec.IsRestricted() {
			res.Filtered++
			continue
		}
		if s.Variant == dwca.VariantEvent {
			eventID := rec.EventID()
			if eventID == "" {
				res.Filtered++
				continue
			}
			if events.AddIfAbsent(eventID) {
				claimedEvents = append(claimedEvents, eventID)
				bufs[dwca.TableEvent] = s.Core.AppendRow(bufs[dwca.TableEvent], rec)
				res.Rows[dwca.TableEvent]++
			}
			bufs[dwca.TableOccurrence] = s.Occurrence.AppendRow(bufs[dwca.TableOccurrence], rec)
			res.Rows[dwca.TableOccurrence]++
			if s.Emof != nil {
				for _, row := range rec.MeasurementRows(true) {
					key := row.Key()
					if !measurements.AddIfAbsent(key) {
						continue
					}
					claimedMeasurements = append(claimedMeasurements, key)
					bufs[dwca.TableEmof] = s.Emof.AppendRow(bufs[dwca.TableEmof], row)
					res.Rows[dwca.TableEmof]++
				}
			}
		} else {
			bufs[dwca.TableOccurrence] = s.Core.AppendRow(bufs[dwca.TableOccurrence], rec)
			res.Rows[dwca.TableOccurrence]++
			if s.Emof != nil {
				for _, row := range rec.MeasurementRows(false) {
					bufs[dwca.TableEmof] = s.Emof.AppendRow(bufs[dwca.TableEmof], row)
					res.Rows[dwca.TableEmof]++
				}
			}
			if s.Multimedia != nil {
				for _, row := range dwca.MediaRows(rec) {
					bufs[dwca.TableMultimedia] = s.Multimedia.AppendRow(bufs[dwca.TableMultimedia], row)
					res.Rows[dwca.TableMultimedia]++
				}
			}
		}
		res.Written++
	}

	// The batch is the unit of work: stop before touching disk if cancelled.
	if err := ctx.Err(); err != nil {
		rollback()
		return res, err
	}

	var targets []Target
	for _, kind := range s.Kinds() {
		buf := bufs[kind]
		if len(buf) == 0 {
			continue
		}
		path := filepath.Join(m.Dir, token+"-"+kind.String()+".csv")
		targets = append(targets, Target{Provider: provider, Kind: kind, BatchID: batchID, Path: path})
		if err := appendFile(path, buf); err != nil {
			for _, t := range targets {
				_ = os.Remove(t.Path)
			}
			rollback()
			m.failedBatches.Add(1)
			logging.WarnWithContext(c.logger, "staging batch write failed", "staging_write_failed",
				logging.String(logging.FieldProvider, provider.Identifier),
				logging.String(logging.FieldBatchID, batchID),
				logging.String(logging.FieldTable, kind.String()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check free space and permissions of staging_dir"),
				logging.String(logging.FieldImpact, "batch rows discarded"),
			)
			return res, fmt.Errorf("stage %s rows for %s batch %s: %w", kind, provider.Identifier, batchID, err)
		}
	}

	m.addTargets(token, targets)
	m.beforeFilter.Add(int64(res.Received))
	m.observations.Add(int64(res.Written))
	for kind, n := range res.Rows {
		m.addRows(kind, n)
	}
	c.logger.Debug("staged batch",
		logging.String(logging.FieldProvider, provider.Identifier),
		logging.String(logging.FieldBatchID, batchID),
		logging.Int("received", res.Received),
		logging.Int("filtered", res.Filtered),
		logging.Int("written", res.Written),
	)
	return res, nil
}

// RecordFailure counts a batch the caller could not hand to WriteBatch, such
// as one whose fetch failed upstream.
func (c *Coordinator) RecordFailure(provider observation.DataProvider) error {
	m, err := c.EnsureManifest(provider)
	if err != nil {
		return err
	}
	m.failedBatches.Add(1)
	return nil
}

// Cleanup removes the run directory and forgets all run state.
func (c *Coordinator) Cleanup() error {
	c.mu.Lock()
	dir := c.runDir
	c.runDir = ""
	c.manifests = nil
	c.events = nil
	c.measurements = nil
	c.mu.Unlock()
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove run directory: %w", err)
	}
	return nil
}

func appendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
