package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ArtifactWriter flushes a run's generated files to a target directory.
type ArtifactWriter interface {
	// WriteFiles writes every file and returns the written paths in name order.
	WriteFiles(files map[string]string) ([]string, error)
}

type dirArtifactWriter struct {
	dir string
}

// NewArtifactWriter creates an ArtifactWriter rooted at dir. The directory
// is created on first write.
func NewArtifactWriter(dir string) ArtifactWriter {
	return &dirArtifactWriter{dir: dir}
}

// validArtifactName rejects names that would escape the output directory.
func validArtifactName(name string) error {
	if name == "" {
		return fmt.Errorf("artifact name must not be empty")
	}
	if filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("artifact name %q must be a plain file name", name)
	}
	return nil
}

func (w *dirArtifactWriter) WriteFiles(files map[string]string) ([]string, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		if err := validArtifactName(name); err != nil {
			return nil, fmt.Errorf("writing artifacts: %w", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return nil, fmt.Errorf("writing artifacts: creating %s: %w", w.dir, err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(w.dir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0o600); err != nil {
			return paths, fmt.Errorf("writing artifact %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
