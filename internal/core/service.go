package core

import (
	"fmt"

	"go.uber.org/zap"
)

// RunArchive persists the output of a finished run. Defining it here keeps
// core free of the storage package.
type RunArchive interface {
	// Archive writes the run's files and records into dir, or into the
	// configured output directory when dir is empty. It returns the paths written.
	Archive(run *Run, dir string) ([]string, error)
}

// DevelopOptions adjusts a single development run.
type DevelopOptions struct {
	// OutputDir overrides the configured output directory.
	OutputDir string
	// SkipArchive leaves the run in memory only.
	SkipArchive bool
}

// ProjectService runs the team on a set of requirements and persists the result.
type ProjectService interface {
	Develop(requirements string, opts DevelopOptions) (*Run, error)
}

type projectService struct {
	orchestrator Orchestrator
	archive      RunArchive
	logger       *zap.Logger
}

// NewProjectService creates a ProjectService. A nil archive behaves like
// SkipArchive on every call.
func NewProjectService(orchestrator Orchestrator, archive RunArchive, logger *zap.Logger) ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &projectService{orchestrator: orchestrator, archive: archive, logger: logger}
}

func (s *projectService) Develop(requirements string, opts DevelopOptions) (*Run, error) {
	run, err := s.orchestrator.DevelopProject(requirements)
	if err != nil {
		return nil, err
	}
	if opts.SkipArchive || s.archive == nil {
		return run, nil
	}

	written, err := s.archive.Archive(run, opts.OutputDir)
	if err != nil {
		return run, fmt.Errorf("archiving run %s: %w", run.Summary.RunID, err)
	}
	run.Written = written
	s.logger.Info("run archived",
		zap.String("run_id", run.Summary.RunID),
		zap.Int("paths", len(written)))
	return run, nil
}
