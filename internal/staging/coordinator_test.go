package staging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"dwcexport/internal/dwca"
	"dwcexport/internal/observation"
	"dwcexport/internal/testsupport"
)

func newCoordinator(t *testing.T, variant dwca.Variant) *Coordinator {
	t.Helper()
	schema, err := dwca.NewSchema(dwca.SchemaOptions{Variant: variant, IncludeEmof: true, IncludeMultimedia: true})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	c, err := New(Options{Root: t.TempDir(), Schema: schema})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.BeginRun("test-run"); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	return c
}

func stagedRows(t *testing.T, m *Manifest, kind dwca.TableKind) []string {
	t.Helper()
	var rows []string
	for _, path := range m.Files(kind) {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
			if line != "" {
				rows = append(rows, line)
			}
		}
	}
	return rows
}

func leadIDs(rows []string) map[string]int {
	ids := make(map[string]int)
	for _, row := range rows {
		id, _, _ := strings.Cut(row, "\t")
		ids[id]++
	}
	return ids
}

func TestWriteBatchWritesEachEventOnce(t *testing.T) {
	c := newCoordinator(t, dwca.VariantEvent)
	provider := testsupport.Provider(7, "ProvX")
	ctx := context.Background()

	batchA := []*observation.Observation{
		testsupport.Occurrence(7, "O1", "E1"),
		testsupport.Occurrence(7, "O2", "E1"),
	}
	batchB := []*observation.Observation{
		testsupport.Occurrence(7, "O3", "E1"),
		testsupport.Occurrence(7, "O4", "E2"),
	}
	if _, err := c.WriteBatch(ctx, provider, "a", batchA); err != nil {
		t.Fatalf("WriteBatch a: %v", err)
	}
	res, err := c.WriteBatch(ctx, provider, "b", batchB)
	if err != nil {
		t.Fatalf("WriteBatch b: %v", err)
	}
	if res.Rows[dwca.TableEvent] != 1 {
		t.Fatalf("batch b wrote %d event rows, want 1", res.Rows[dwca.TableEvent])
	}

	m, ok := c.Manifest(provider)
	if !ok {
		t.Fatal("manifest missing")
	}
	events := leadIDs(stagedRows(t, m, dwca.TableEvent))
	if len(events) != 2 || events["E1"] != 1 || events["E2"] != 1 {
		t.Fatalf("unexpected event rows: %v", events)
	}
	if got := len(stagedRows(t, m, dwca.TableOccurrence)); got != 4 {
		t.Fatalf("occurrence rows = %d, want 4", got)
	}
	if m.ObservationCount() != 4 || m.ObservationCountBeforeFilter() != 4 {
		t.Fatalf("counts = %d/%d", m.ObservationCount(), m.ObservationCountBeforeFilter())
	}
	if m.Rows(dwca.TableEvent) != 2 {
		t.Fatalf("event row counter = %d", m.Rows(dwca.TableEvent))
	}
}

func TestWriteBatchFiltersRestrictedRecords(t *testing.T) {
	c := newCoordinator(t, dwca.VariantOccurrence)
	provider := testsupport.Provider(1, "ProvA")
	records := []*observation.Observation{
		testsupport.Occurrence(1, "O1", ""),
		testsupport.Restricted(testsupport.Occurrence(1, "O2", "")),
		nil,
	}
	res, err := c.WriteBatch(context.Background(), provider, "1", records)
	if err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if res.Written != 1 || res.Filtered != 2 {
		t.Fatalf("written=%d filtered=%d", res.Written, res.Filtered)
	}
	m, _ := c.Manifest(provider)
	rows := stagedRows(t, m, dwca.TableOccurrence)
	if len(rows) != 1 || !strings.HasPrefix(rows[0], "O1\t") {
		t.Fatalf("unexpected rows %v", rows)
	}
	if m.ObservationCountBeforeFilter() != 3 || m.ObservationCount() != 1 {
		t.Fatalf("counts = %d/%d", m.ObservationCount(), m.ObservationCountBeforeFilter())
	}
}

func TestWriteBatchEventVariantSkipsRecordsWithoutEvent(t *testing.T) {
	c := newCoordinator(t, dwca.VariantEvent)
	res, err := c.WriteBatch(context.Background(), testsupport.Provider(1, "p"), "1", []*observation.Observation{
		testsupport.Occurrence(1, "O1", ""),
	})
	if err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if res.Filtered != 1 || res.Written != 0 {
		t.Fatalf("written=%d filtered=%d", res.Written, res.Filtered)
	}
}

func TestWriteBatchDeduplicatesEventMeasurements(t *testing.T) {
	c := newCoordinator(t, dwca.VariantEvent)
	provider := testsupport.Provider(1, "p")
	ctx := context.Background()
	first := testsupport.WithEventFact(testsupport.Occurrence(1, "O1", "E1"), "waterTemperature", "12")
	testsupport.WithFact(first, "wingLength", "70")
	second := testsupport.WithEventFact(testsupport.Occurrence(1, "O2", "E1"), "waterTemperature", "12")
	if _, err := c.WriteBatch(ctx, provider, "1", []*observation.Observation{first}); err != nil {
		t.Fatalf("WriteBatch 1: %v", err)
	}
	if _, err := c.WriteBatch(ctx, provider, "2", []*observation.Observation{second}); err != nil {
		t.Fatalf("WriteBatch 2: %v", err)
	}
	m, _ := c.Manifest(provider)
	rows := stagedRows(t, m, dwca.TableEmof)
	if len(rows) != 2 {
		t.Fatalf("emof rows = %d, want 2: %v", len(rows), rows)
	}
}

func TestWriteBatchOccurrenceVariantWritesExtensions(t *testing.T) {
	c := newCoordinator(t, dwca.VariantOccurrence)
	provider := testsupport.Provider(1, "p")
	rec := testsupport.WithFact(testsupport.Occurrence(1, "O1", "E1"), "wingLength", "70")
	rec.Media = []observation.Multimedia{{Type: "StillImage", Identifier: "https://img/1.jpg"}}
	dup := testsupport.WithFact(testsupport.Occurrence(1, "O2", "E1"), "wingLength", "70")
	if _, err := c.WriteBatch(context.Background(), provider, "1", []*observation.Observation{rec, dup}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	m, _ := c.Manifest(provider)
	if got := len(stagedRows(t, m, dwca.TableEmof)); got != 2 {
		t.Fatalf("emof rows = %d, want 2", got)
	}
	if got := len(stagedRows(t, m, dwca.TableMultimedia)); got != 1 {
		t.Fatalf("multimedia rows = %d, want 1", got)
	}
	if files := m.Files(dwca.TableEvent); len(files) != 0 {
		t.Fatalf("occurrence archives have no event table, got %v", files)
	}
}

func TestWriteBatchRollsBackOnFailure(t *testing.T) {
	c := newCoordinator(t, dwca.VariantEvent)
	provider := testsupport.Provider(3, "ProvC")
	ctx := context.Background()
	m, err := c.EnsureManifest(provider)
	if err != nil {
		t.Fatalf("EnsureManifest: %v", err)
	}
	// A directory where the occurrence file belongs makes the append fail
	// after the event file has been written.
	blocker := filepath.Join(m.Dir, "bad-occurrence.csv")
	if err := os.Mkdir(blocker, 0o755); err != nil {
		t.Fatalf("mkdir blocker: %v", err)
	}

	_, err = c.WriteBatch(ctx, provider, "bad", []*observation.Observation{testsupport.Occurrence(3, "O1", "E1")})
	if err == nil {
		t.Fatal("expected write failure")
	}
	if _, statErr := os.Stat(filepath.Join(m.Dir, "bad-event.csv")); !os.IsNotExist(statErr) {
		t.Fatalf("event file of failed batch should be removed, stat err %v", statErr)
	}
	if m.FailedBatches() != 1 {
		t.Fatalf("failed batches = %d", m.FailedBatches())
	}
	if c.EventKeys() != 0 {
		t.Fatalf("claimed event keys should be released, have %d", c.EventKeys())
	}

	res, err := c.WriteBatch(ctx, provider, "good", []*observation.Observation{testsupport.Occurrence(3, "O1", "E1")})
	if err != nil {
		t.Fatalf("retry batch: %v", err)
	}
	if res.Rows[dwca.TableEvent] != 1 {
		t.Fatalf("event should be written by the later batch, got %d rows", res.Rows[dwca.TableEvent])
	}
	if m.ObservationCount() != 1 {
		t.Fatalf("failed batch must not be counted, observation count %d", m.ObservationCount())
	}
}

func TestWriteBatchRejectsDuplicateBatchID(t *testing.T) {
	c := newCoordinator(t, dwca.VariantOccurrence)
	provider := testsupport.Provider(1, "p")
	records := []*observation.Observation{testsupport.Occurrence(1, "O1", "")}
	if _, err := c.WriteBatch(context.Background(), provider, "same", records); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := c.WriteBatch(context.Background(), provider, "same", records); !errors.Is(err, ErrDuplicateBatch) {
		t.Fatalf("expected ErrDuplicateBatch, got %v", err)
	}
}

func TestWriteBatchRequiresBeginRun(t *testing.T) {
	schema, err := dwca.NewSchema(dwca.SchemaOptions{Variant: dwca.VariantOccurrence})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	c, err := New(Options{Root: t.TempDir(), Schema: schema})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.WriteBatch(context.Background(), testsupport.Provider(1, "p"), "1", nil); !errors.Is(err, ErrRunNotStarted) {
		t.Fatalf("expected ErrRunNotStarted, got %v", err)
	}
}

func TestWriteBatchHonoursCancellation(t *testing.T) {
	c := newCoordinator(t, dwca.VariantEvent)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider := testsupport.Provider(1, "p")
	_, err := c.WriteBatch(ctx, provider, "1", []*observation.Observation{testsupport.Occurrence(1, "O1", "E1")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.EventKeys() != 0 {
		t.Fatalf("cancelled batch claimed %d keys", c.EventKeys())
	}
}

func TestConcurrentWritersStageEachEventOnce(t *testing.T) {
	c := newCoordinator(t, dwca.VariantEvent)
	providers := []observation.DataProvider{testsupport.Provider(1, "a"), testsupport.Provider(2, "b")}
	const writers = 8
	const events = 10

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			provider := providers[w%len(providers)]
			var batch []*observation.Observation
			for e := 0; e < events; e++ {
				batch = append(batch, testsupport.Occurrence(provider.ID, fmt.Sprintf("O%d-%d", w, e), fmt.Sprintf("E%d", e)))
			}
			if _, err := c.WriteBatch(context.Background(), provider, fmt.Sprintf("batch-%d", w), batch); err != nil {
				errs <- err
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("WriteBatch: %v", err)
	}

	total := make(map[string]int)
	occurrences := 0
	for _, m := range c.Manifests() {
		for id, n := range leadIDs(stagedRows(t, m, dwca.TableEvent)) {
			total[id] += n
		}
		occurrences += len(stagedRows(t, m, dwca.TableOccurrence))
	}
	if len(total) != events {
		t.Fatalf("distinct events = %d, want %d", len(total), events)
	}
	for id, n := range total {
		if n != 1 {
			t.Fatalf("event %s staged %d times", id, n)
		}
	}
	if occurrences != writers*events {
		t.Fatalf("occurrence rows = %d, want %d", occurrences, writers*events)
	}
}

func TestBeginRunResetsStateAndCleanupRemovesRunDir(t *testing.T) {
	c := newCoordinator(t, dwca.VariantEvent)
	provider := testsupport.Provider(1, "p")
	if _, err := c.WriteBatch(context.Background(), provider, "1", []*observation.Observation{testsupport.Occurrence(1, "O1", "E1")}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	runDir := c.RunDir()
	if err := c.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(runDir); !os.IsNotExist(err) {
		t.Fatalf("run dir should be removed, stat err %v", err)
	}

	if err := c.BeginRun(""); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if len(c.Manifests()) != 0 || c.EventKeys() != 0 {
		t.Fatal("BeginRun must clear manifests and keys")
	}
	res, err := c.WriteBatch(context.Background(), provider, "1", []*observation.Observation{testsupport.Occurrence(1, "O1", "E1")})
	if err != nil {
		t.Fatalf("WriteBatch after reset: %v", err)
	}
	if res.Rows[dwca.TableEvent] != 1 {
		t.Fatal("event keys must not survive a new run")
	}
}

func TestKeySet(t *testing.T) {
	s := NewKeySet()
	if !s.AddIfAbsent("E1") || s.AddIfAbsent("E1") {
		t.Fatal("AddIfAbsent must succeed exactly once per key")
	}
	s.AddIfAbsent("E2")
	if s.Len() != 2 || !s.Contains("E2") {
		t.Fatalf("unexpected set state, len %d", s.Len())
	}
	s.Remove("E1", "missing")
	if s.Contains("E1") || s.Len() != 1 {
		t.Fatal("Remove did not release key")
	}
}
