// Package source defines how observation batches reach an export run and
// provides a newline-delimited JSON implementation.
//
// Records handed out by a Source are already processed: taxonomy, vocabulary
// values and coordinates are resolved upstream. The upstream pipeline also
// guarantees that occurrence ids are unique within one provider and run;
// nothing downstream deduplicates occurrences.
package source

import (
	"context"
	"fmt"

	"dwcexport/internal/observation"
)

// Batch is one bounded page of records for a provider.
type Batch struct {
	ID      string
	Records []*observation.Observation
}

// Source streams the records of a provider in batches of at most size
// records. fn is called once per batch, in order; an error from fn stops the
// stream and is returned. Implementations must observe ctx between batches.
type Source interface {
	Batches(ctx context.Context, provider observation.DataProvider, size int, fn func(Batch) error) error
}

// BatchID names the n-th batch (0-based) of a provider.
func BatchID(provider observation.DataProvider, n int) string {
	return fmt.Sprintf("%d-%06d", provider.ID, n)
}
