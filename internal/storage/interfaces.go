package storage

import (
	"context"
	"time"
)

// Run is one recorded launcher run.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	ExitCode    int
	Interpreter string
	Script      string
	// LogBytes is the number of bytes the run appended to the run log.
	LogBytes int64
}

// Duration returns the wall-clock duration of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ListRunsOptions controls ListRuns output.
type ListRunsOptions struct {
	// Limit caps the number of runs returned; 0 means no cap.
	Limit int
	// AscendingOrder lists oldest runs first. Default is newest first.
	AscendingOrder bool
}

// RunRecorder persists completed runs.
type RunRecorder interface {
	// SaveRun stores the run and returns its assigned ID. The ID field of
	// the input is ignored; the implementation assigns a unique one.
	SaveRun(ctx context.Context, run Run) (string, error)
}

// RunLister reads recorded runs.
type RunLister interface {
	// ListRuns returns runs ordered by start time.
	ListRuns(ctx context.Context, opts ListRunsOptions) ([]Run, error)
	// GetRun returns the run with the given ID. It returns ErrRunNotFound
	// when no such run exists.
	GetRun(ctx context.Context, id string) (Run, error)
}

// RunDeleter removes recorded runs.
type RunDeleter interface {
	// DeleteRun removes the run with the given ID. It returns ErrRunNotFound
	// when no such run exists.
	DeleteRun(ctx context.Context, id string) error
}
