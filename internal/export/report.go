package export

import "time"

// Report summarises one run.
type Report struct {
	RunID    string
	Variant  string
	Started  time.Time
	Finished time.Time
	// Providers holds one outcome per enabled provider, in configuration order.
	Providers []Outcome
	Combined  Outcome
}

// DeliveredPaths lists every archive the run delivered, combined last.
func (r *Report) DeliveredPaths() []string {
	var paths []string
	for _, o := range r.Providers {
		if o.Kind == Delivered {
			paths = append(paths, o.Path)
		}
	}
	if r.Combined.Kind == Delivered && r.Combined.Path != "" {
		paths = append(paths, r.Combined.Path)
	}
	return paths
}

// Count returns how many provider outcomes have kind.
func (r *Report) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range r.Providers {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Outcome returns the outcome of provider, looked up by identifier.
func (r *Report) Outcome(identifier string) (Outcome, bool) {
	for _, o := range r.Providers {
		if o.Provider == identifier {
			return o, true
		}
	}
	return Outcome{}, false
}
