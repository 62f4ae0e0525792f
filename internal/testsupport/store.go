package testsupport

import (
	"testing"

	"dwcexport/internal/config"
	"dwcexport/internal/deliveries"
)

// MustOpenStore opens the delivery ledger for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *deliveries.Store {
	t.Helper()

	store, err := deliveries.Open(cfg)
	if err != nil {
		t.Fatalf("deliveries.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
