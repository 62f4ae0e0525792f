package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dwcexport/internal/logging"
)

func mkRunDir(t *testing.T, root, name string, age time.Duration) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	if age > 0 {
		ts := time.Now().Add(-age)
		if err := os.Chtimes(dir, ts, ts); err != nil {
			t.Fatalf("set time: %v", err)
		}
	}
	return dir
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldRunDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir := mkRunDir(t, tmpDir, "run-old", 2*time.Hour)
	recentDir := mkRunDir(t, tmpDir, "run-recent", 0)
	foreign := mkRunDir(t, tmpDir, "keep-me", 2*time.Hour)

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("expected only %s removed, got %v", oldDir, result.Removed)
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Error("recent run directory should still exist")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("directories without the run prefix must be left alone")
	}
}

func TestCleanStaleZeroAgeRemovesAllRuns(t *testing.T) {
	tmpDir := t.TempDir()
	mkRunDir(t, tmpDir, "run-a", 0)
	mkRunDir(t, tmpDir, "run-b", 0)

	result := CleanStale(context.Background(), tmpDir, 0, logging.NewNop())
	if len(result.Removed) != 2 {
		t.Fatalf("expected 2 removed, got %v", result.Removed)
	}
}

func TestCleanStaleIgnoresFiles(t *testing.T) {
	tmpDir := t.TempDir()
	oldFile := filepath.Join(tmpDir, "run-file.txt")
	if err := os.WriteFile(oldFile, []byte("test"), 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Errorf("expected no removals for files, got %d", len(result.Removed))
	}
	if _, err := os.Stat(oldFile); err != nil {
		t.Error("file should not have been removed")
	}
}

func TestCleanOrphanedKeepsActiveRuns(t *testing.T) {
	tmpDir := t.TempDir()
	active := mkRunDir(t, tmpDir, "run-abc123", 0)
	orphan := mkRunDir(t, tmpDir, "run-xyz789", 0)

	result := CleanOrphaned(context.Background(), tmpDir, map[string]struct{}{"ABC123": {}}, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != orphan {
		t.Fatalf("expected %s removed, got %v", orphan, result.Removed)
	}
	if _, err := os.Stat(active); err != nil {
		t.Error("active run directory should still exist")
	}
}

func TestListDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	dir1 := mkRunDir(t, tmpDir, "run-1", 0)
	mkRunDir(t, tmpDir, "run-2", 0)
	mkRunDir(t, tmpDir, "other", 0)
	if err := os.WriteFile(filepath.Join(tmpDir, "not-a-dir.txt"), []byte("test"), 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir1, "1-prov"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir1, "1-prov", "a-occurrence.csv"), []byte("12345"), 0o644); err != nil {
		t.Fatalf("create inner file: %v", err)
	}

	dirs, err := ListDirectories(tmpDir)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 run directories, got %d", len(dirs))
	}
	for _, d := range dirs {
		if d.Name == "run-1" {
			if d.Size != 5 || d.Files != 1 || d.RunID != "1" {
				t.Errorf("run-1 = %+v", d)
			}
		}
	}
}

func TestListDirectoriesInvalidPaths(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/path/12345"} {
		dirs, err := ListDirectories(path)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", path, err)
		}
		if dirs != nil {
			t.Errorf("expected nil for path %q, got %v", path, dirs)
		}
	}
}
