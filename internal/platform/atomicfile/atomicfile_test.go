package atomicfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"journel/internal/platform/atomicfile"
)

func TestWriteCreatesFileAndParents(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "record.yaml")

	if err := atomicfile.Write(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "a: 1\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestWriteReplacesExistingContentWholesale(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "record.yaml")

	if err := atomicfile.Write(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := atomicfile.Write(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Fatalf("expected replacement, got %q", got)
	}
}

func TestWriteLeavesNoTempFilesBehind(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "record.yaml")

	if err := atomicfile.Write(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}
