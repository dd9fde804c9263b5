package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Launcher runs the scanner script once, with its merged stdout and stderr
// appended to the run log beneath the root directory. It performs no retries:
// setup and spawn failures are returned to the caller, and the child's exit
// code is reported verbatim in the Result.
type Launcher struct {
	// Root is the absolute directory containing the launcher binary. All
	// relative paths below resolve against it, and the child process runs
	// with it as its working directory.
	Root string

	// Interpreter is the Python interpreter to invoke. It may be a bare
	// command name (resolved from PATH at spawn time) or an absolute path.
	Interpreter string

	// Script is the scanner entry point, relative to Root.
	Script string

	// LogDir is the log directory, relative to Root. Created on Setup if
	// missing, never removed.
	LogDir string

	// LogFile is the log file name inside LogDir. Opened in append mode;
	// existing content is never truncated.
	LogFile string
}

// Result describes a completed run.
type Result struct {
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
	// LogBytes is the number of bytes the run appended to the log file.
	LogBytes int64
	// LogPath is the absolute path of the log file written to.
	LogPath string
}

// Duration returns the wall-clock duration of the run.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Root resolves the absolute directory containing the running binary. Symlinks
// are resolved so that a symlinked install still anchors paths at the real
// location.
func Root() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate launcher binary: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve launcher binary path: %w", err)
	}
	return filepath.Dir(resolved), nil
}

// LogPath returns the absolute path of the run log file.
func (l *Launcher) LogPath() string {
	return filepath.Join(l.Root, l.LogDir, l.LogFile)
}

// ScriptPath returns the absolute path of the scanner script.
func (l *Launcher) ScriptPath() string {
	return filepath.Join(l.Root, l.Script)
}

// Setup ensures the log directory exists. It is idempotent: an existing
// directory is left untouched. If the path is occupied by a non-directory
// file, or creation fails, the error is returned and the caller must not
// proceed to Run.
func (l *Launcher) Setup() error {
	dir := filepath.Join(l.Root, l.LogDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	return nil
}

// Run performs Setup and then invokes the interpreter on the script, with the
// child's working directory set to Root and its merged stdout and stderr
// appended to the log file. It blocks until the child exits.
//
// A non-zero child exit is not an error: it is reported in Result.ExitCode
// with a nil error, since interpreting the child's outcome is not the
// launcher's job. Setup and spawn failures return a non-nil error and the
// child is considered not to have run.
func (l *Launcher) Run(ctx context.Context) (Result, error) {
	if err := l.Setup(); err != nil {
		return Result{}, err
	}

	logPath := l.LogPath()
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open run log %s: %w", logPath, err)
	}
	defer logFile.Close()

	startOffset, err := logFile.Seek(0, io.SeekEnd)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat run log %s: %w", logPath, err)
	}

	cmd := exec.CommandContext(ctx, l.Interpreter, l.ScriptPath())
	cmd.Dir = l.Root
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	result := Result{
		StartedAt: time.Now(),
		LogPath:   logPath,
	}

	runErr := cmd.Run()
	result.FinishedAt = time.Now()

	if end, serr := logFile.Seek(0, io.SeekEnd); serr == nil {
		result.LogBytes = end - startOffset
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Interpreter or script missing, permissions, etc. The child
			// never ran.
			return Result{}, fmt.Errorf("failed to spawn %s %s: %w", l.Interpreter, l.ScriptPath(), runErr)
		}
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 {
			// Killed by a signal; there is no child status to pass through.
			result.ExitCode = 1
		}
	}

	return result, nil
}
