// ABOUTME: Tests for the file-backed key-value backend
// ABOUTME: Reopen persistence and delete-path error reporting

package persist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackendReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.json")

	fb := &FileBackend{Path: path}
	if err := fb.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := fb.Set("annotation_doc1_page_1", `[]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := fb.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := &FileBackend{Path: path}
	if err := reopened.Open(); err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	if v, ok := reopened.Get("annotation_doc1_page_1"); !ok || v != `[]` {
		t.Errorf("Expected persisted value after reopen, got %q (ok=%v)", v, ok)
	}
}

func TestFileBackendDeleteRemovesKey(t *testing.T) {
	fb := &FileBackend{Path: filepath.Join(t.TempDir(), "annotations.json")}
	if err := fb.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer fb.Close()

	fb.Set("k", "v")
	if err := fb.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := fb.Get("k"); ok {
		t.Error("Expected key removed")
	}
}

func TestFileBackendDeleteReportsFlushFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	fb := &FileBackend{Path: filepath.Join(dir, "annotations.json")}
	if err := fb.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := fb.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// With the directory gone the flush cannot land; Delete must say so.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if err := fb.Delete("k"); err == nil {
		t.Error("Expected Delete to surface the flush failure")
	}
}

func TestFileBackendClosedDelete(t *testing.T) {
	fb := &FileBackend{Path: filepath.Join(t.TempDir(), "annotations.json")}
	if err := fb.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	fb.Close()

	if err := fb.Delete("k"); err != ErrStoreClosed {
		t.Errorf("Expected ErrStoreClosed, got %v", err)
	}
}
