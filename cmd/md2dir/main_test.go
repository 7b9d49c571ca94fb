package main

import (
	"os"
	"path/filepath"
	"testing"

	"dir2md"
)

func TestPlanSummary(t *testing.T) {
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "existing.py"), []byte("old\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	files := []dir2md.File{
		{Path: "existing.py", Content: "new\n"},
		{Path: "pkg/fresh.py", Content: "x\n"},
	}
	newDirs, newFiles, existing := planSummary(files, out)

	if len(newDirs) != 1 || newDirs[0] != filepath.Join(out, "pkg") {
		t.Fatalf("newDirs = %v", newDirs)
	}
	if len(newFiles) != 1 || newFiles[0] != filepath.Join(out, "pkg", "fresh.py") {
		t.Fatalf("newFiles = %v", newFiles)
	}
	if len(existing) != 1 || existing[0] != filepath.Join(out, "existing.py") {
		t.Fatalf("existing = %v", existing)
	}
}
