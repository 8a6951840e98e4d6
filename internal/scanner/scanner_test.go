package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScanFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "sf", "strugatsky", "picnic.fb2")
	touch(t, path)

	rec, err := ScanFile(path, root)
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}

	if rec.OriginalFilename != "picnic.fb2" {
		t.Errorf("filename = %q", rec.OriginalFilename)
	}
	if rec.Extension != "fb2" {
		t.Errorf("extension = %q", rec.Extension)
	}
	if len(rec.Directories) != 2 || rec.Directories[0] != "sf" || rec.Directories[1] != "strugatsky" {
		t.Errorf("directories = %v", rec.Directories)
	}
	if rec.Source != "file" {
		t.Errorf("source = %q", rec.Source)
	}
}

func TestScanFileAtRoot(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "book.epub")
	touch(t, path)

	rec, err := ScanFile(path, root)
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	if len(rec.Directories) != 0 {
		t.Errorf("directories = %v, want none for a root-level file", rec.Directories)
	}
}

func TestScanFileOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "book.fb2")
	touch(t, outside)

	if _, err := ScanFile(outside, root); err == nil {
		t.Errorf("file outside root should be rejected")
	}
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.fb2"))
	touch(t, filepath.Join(root, "sub", "b.epub"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "cover.jpg"))

	records, err := ScanDirectory(root)
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (unsupported types skipped)", len(records))
	}

	names := map[string]bool{}
	for _, r := range records {
		names[r.OriginalFilename] = true
	}
	if !names["a.fb2"] || !names["b.epub"] {
		t.Errorf("records = %+v", records)
	}
}
