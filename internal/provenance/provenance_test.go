package provenance

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dwcexport/internal/config"
	"dwcexport/internal/testsupport"
)

func TestDirectoryDocument(t *testing.T) {
	dir := t.TempDir()
	src := NewDirectory(dir)
	doc := testsupport.EmlDocument("Birds")
	if err := src.Put("ProvA", []byte(doc)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := src.Document(context.Background(), "ProvA")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if string(got) != doc {
		t.Fatalf("document mismatch: %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "ProvA.xml")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestDirectoryMissingDocumentIsNil(t *testing.T) {
	got, err := NewDirectory(t.TempDir()).Document(context.Background(), "nobody")
	if err != nil || got != nil {
		t.Fatalf("expected nil document, got %q err=%v", got, err)
	}
}

func TestDirectoryRejectsPathIdentifiers(t *testing.T) {
	if _, err := NewDirectory(t.TempDir()).Document(context.Background(), "../etc/passwd"); err == nil {
		t.Fatal("expected error for identifier with separator")
	}
}

func TestOpenSelectsKind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	src, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d, ok := src.(*Directory); !ok || d.Dir != cfg.Paths.ProvenanceDir {
		t.Fatalf("unexpected source %#v", src)
	}

	cfg.Provenance.Kind = config.ProvenanceMongo
	cfg.Mongo.URI = ""
	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for mongo without uri")
	}

	cfg.Provenance.Kind = "ftp"
	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
