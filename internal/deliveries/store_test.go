package deliveries_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dwcexport/internal/deliveries"
	"dwcexport/internal/testsupport"
)

func TestRecordAndFingerprint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, ok, err := store.Fingerprint(ctx, "ProvA", "occurrence"); err != nil || ok {
		t.Fatalf("expected no fingerprint yet, ok=%v err=%v", ok, err)
	}

	first := deliveries.Delivery{
		Provider:         "ProvA",
		Variant:          "occurrence",
		Fingerprint:      1234,
		ObservationCount: 10,
		ArchivePath:      "/exports/ProvA.dwca.zip",
		RunID:            "run-1",
		DeliveredAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second := first
	second.Fingerprint = 5678
	second.RunID = "run-2"
	second.DeliveredAt = first.DeliveredAt.Add(24 * time.Hour)
	if err := store.Record(ctx, second); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	fp, ok, err := store.Fingerprint(ctx, "ProvA", "occurrence")
	if err != nil || !ok || fp != 5678 {
		t.Fatalf("Fingerprint = %d ok=%v err=%v", fp, ok, err)
	}
	if _, ok, _ := store.Fingerprint(ctx, "ProvA", "event"); ok {
		t.Fatal("variants are tracked separately")
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].RunID != "run-2" || !list[0].DeliveredAt.Equal(second.DeliveredAt) {
		t.Fatalf("unexpected list %+v", list)
	}

	history, err := store.History(ctx, "ProvA", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].Fingerprint != 5678 || history[1].Fingerprint != 1234 {
		t.Fatalf("unexpected history %+v", history)
	}
	limited, err := store.History(ctx, "ProvA", 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("History limit: %v %d", err, len(limited))
	}
}

func TestForget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	if err := store.Record(ctx, deliveries.Delivery{Provider: "p", Variant: "event", Fingerprint: 1, ArchivePath: "x"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	removed, err := store.Forget(ctx, "p", "event")
	if err != nil || !removed {
		t.Fatalf("Forget = %v, %v", removed, err)
	}
	if _, ok, _ := store.Fingerprint(ctx, "p", "event"); ok {
		t.Fatal("fingerprint should be gone")
	}
	removed, err = store.Forget(ctx, "p", "event")
	if err != nil || removed {
		t.Fatalf("second Forget = %v, %v", removed, err)
	}
}

func TestRecordRequiresKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Record(context.Background(), deliveries.Delivery{Variant: "event"}); err == nil {
		t.Fatal("expected error without provider")
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := deliveries.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Record(context.Background(), deliveries.Delivery{Provider: "p", Variant: "occurrence", Fingerprint: 42, ArchivePath: "x"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	store.Close()

	reopened := testsupport.MustOpenStore(t, cfg)
	fp, ok, err := reopened.Fingerprint(context.Background(), "p", "occurrence")
	if err != nil || !ok || fp != 42 {
		t.Fatalf("after reopen fingerprint = %d ok=%v err=%v", fp, ok, err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.Paths.DeliveriesDB)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	_, err = deliveries.Open(cfg)
	if !errors.Is(err, deliveries.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "version 99") {
		t.Fatalf("error should name the found version: %v", err)
	}
}

func TestOpenStampsLedgerVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.Paths.DeliveriesDB)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != 1 {
		t.Fatalf("user_version = %d, want 1", version)
	}
	var tables int
	if err := db.QueryRow("SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name IN ('deliveries','delivery_history')").Scan(&tables); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if tables != 2 {
		t.Fatalf("expected both ledger tables, found %d", tables)
	}
}
