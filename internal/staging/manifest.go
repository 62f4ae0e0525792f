package staging

import (
	"sort"
	"sync"
	"sync/atomic"

	"dwcexport/internal/dwca"
	"dwcexport/internal/observation"
)

// Target is one staging file: the rows of one table kind written by one batch.
type Target struct {
	Provider observation.DataProvider
	Kind     dwca.TableKind
	BatchID  string
	Path     string
}

// Manifest tracks what a run has staged for one provider.
type Manifest struct {
	Provider observation.DataProvider
	Dir      string

	mu      sync.Mutex
	targets map[string][]Target

	beforeFilter  atomic.Int64
	observations  atomic.Int64
	failedBatches atomic.Int64
	rows          [len(tableKindSlots)]atomic.Int64

	previousFingerprint atomic.Int64
}

var tableKindSlots = [...]dwca.TableKind{dwca.TableOccurrence, dwca.TableEvent, dwca.TableEmof, dwca.TableMultimedia}

func newManifest(provider observation.DataProvider, dir string) *Manifest {
	m := &Manifest{Provider: provider, Dir: dir, targets: make(map[string][]Target)}
	m.previousFingerprint.Store(-1)
	return m
}

// reserve claims a batch token; false means the batch was already staged.
func (m *Manifest) reserve(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.targets[token]; ok {
		return false
	}
	m.targets[token] = nil
	return true
}

func (m *Manifest) addTargets(token string, targets []Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[token] = targets
}

func (m *Manifest) dropTargets(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.targets, token)
}

// Targets returns every staging file of the provider, sorted by path.
func (m *Manifest) Targets() []Target {
	m.mu.Lock()
	var out []Target
	for _, ts := range m.targets {
		out = append(out, ts...)
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Files returns the staging file paths holding rows of kind, in discovery order.
func (m *Manifest) Files(kind dwca.TableKind) []string {
	var paths []string
	for _, t := range m.Targets() {
		if t.Kind == kind {
			paths = append(paths, t.Path)
		}
	}
	return paths
}

// ObservationCountBeforeFilter counts records received, restricted ones included.
func (m *Manifest) ObservationCountBeforeFilter() int64 { return m.beforeFilter.Load() }

// ObservationCount counts records that reached the staging files.
func (m *Manifest) ObservationCount() int64 { return m.observations.Load() }

// FailedBatches counts batches whose write failed and was rolled back.
func (m *Manifest) FailedBatches() int64 { return m.failedBatches.Load() }

// Rows counts data rows staged for kind.
func (m *Manifest) Rows(kind dwca.TableKind) int64 {
	for i, k := range tableKindSlots {
		if k == kind {
			return m.rows[i].Load()
		}
	}
	return 0
}

func (m *Manifest) addRows(kind dwca.TableKind, n int) {
	for i, k := range tableKindSlots {
		if k == kind {
			m.rows[i].Add(int64(n))
			return
		}
	}
}

// PreviousFingerprint is the last delivered fingerprint, or -1 when the
// provider has never been delivered.
func (m *Manifest) PreviousFingerprint() int64 { return m.previousFingerprint.Load() }

// SetPreviousFingerprint records the last delivered fingerprint.
func (m *Manifest) SetPreviousFingerprint(v int64) { m.previousFingerprint.Store(v) }
