package fsx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("old"), FileMode); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := WriteFileAtomic(path, []byte("new"), FileMode); err != nil {
		t.Fatalf("write atomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("content: want new got %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteFileCreatingDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "c.txt")
	if err := WriteFileCreatingDirs(path, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !IsFile(path) {
		t.Fatalf("expected %s to exist", path)
	}
	if !IsDir(filepath.Dir(path)) {
		t.Fatalf("expected parent directory to exist")
	}
}

func TestReadIfExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	data, ok, err := ReadIfExists(filepath.Join(dir, "missing"))
	if err != nil || ok || data != nil {
		t.Fatalf("missing file: want (nil,false,nil) got (%q,%v,%v)", data, ok, err)
	}

	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, []byte("hello"), FileMode); err != nil {
		t.Fatalf("seed: %v", err)
	}
	data, ok, err = ReadIfExists(path)
	if err != nil || !ok || string(data) != "hello" {
		t.Fatalf("present file: got (%q,%v,%v)", data, ok, err)
	}
}
