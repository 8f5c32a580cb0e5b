package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
	"gopkg.in/yaml.v3"
)

// ErrNoSummary is returned by Load when no run has been saved yet.
var ErrNoSummary = errors.New("no project summary found")

// summaryFile is the top-level structure of the summary YAML file.
type summaryFile struct {
	Version string            `yaml:"version"`
	Summary models.RunSummary `yaml:"summary"`
}

// SummaryStore persists the summary of the most recent run.
type SummaryStore interface {
	Save(summary models.RunSummary) error
	Load() (*models.RunSummary, error)
	Path() string
}

type fileSummaryStore struct {
	path string
}

// NewSummaryStore creates a SummaryStore backed by dir/filename.
func NewSummaryStore(dir, filename string) SummaryStore {
	return &fileSummaryStore{path: filepath.Join(dir, filename)}
}

func (s *fileSummaryStore) Path() string {
	return s.path
}

func (s *fileSummaryStore) Load() (*models.RunSummary, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSummary
		}
		return nil, fmt.Errorf("loading summary: %w", err)
	}

	var f summaryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("loading summary: parsing yaml: %w", err)
	}
	return &f.Summary, nil
}

func (s *fileSummaryStore) Save(summary models.RunSummary) error {
	data, err := yaml.Marshal(summaryFile{Version: "1.0", Summary: summary})
	if err != nil {
		return fmt.Errorf("saving summary: marshaling yaml: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("saving summary: creating directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("saving summary: writing file: %w", err)
	}
	return nil
}
