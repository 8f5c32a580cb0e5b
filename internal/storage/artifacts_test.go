package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArtifactWriter_WriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	w := NewArtifactWriter(dir)

	paths, err := w.WriteFiles(map[string]string{
		"styles.css": "body {}",
		"index.html": "<!DOCTYPE html>",
	})
	if err != nil {
		t.Fatalf("WriteFiles() error: %v", err)
	}

	want := []string{filepath.Join(dir, "index.html"), filepath.Join(dir, "styles.css")}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d", len(paths), len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	got, err := os.ReadFile(filepath.Join(dir, "styles.css"))
	if err != nil {
		t.Fatalf("reading styles.css: %v", err)
	}
	if string(got) != "body {}" {
		t.Errorf("styles.css = %q", got)
	}
}

func TestArtifactWriter_Overwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir)
	if _, err := w.WriteFiles(map[string]string{"README.md": "old"}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteFiles(map[string]string{"README.md": "new"}); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "README.md"))
	if string(got) != "new" {
		t.Errorf("expected last write to win, got %q", got)
	}
}

func TestArtifactWriter_RejectsEscapingNames(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir)

	for _, name := range []string{"../evil.txt", "sub/file.txt", "", ".."} {
		if _, err := w.WriteFiles(map[string]string{name: "x"}); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected nothing written, found %d entries", len(entries))
	}
}
