// Package tail follows the run log as it grows. It only ever reads the log;
// the file is never written to, truncated, or rotated from here.
package tail

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultInterval is the polling interval used when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Follower polls a file and reports appended content.
type Follower struct {
	Path     string
	Interval time.Duration

	offset int64
}

// NewFollower returns a Follower over path. When fromStart is false, only
// content appended after the first poll is reported.
func NewFollower(path string, fromStart bool) (*Follower, error) {
	f := &Follower{Path: path, Interval: DefaultInterval}
	if !fromStart {
		if info, err := os.Stat(path); err == nil {
			f.offset = info.Size()
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return f, nil
}

// Next returns the bytes appended since the previous call. A missing file is
// not an error: it simply yields no content until the launcher creates it.
// If the file shrank (replaced externally), reading restarts from the top.
func (f *Follower) Next() ([]byte, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			f.offset = 0
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", f.Path, err)
	}

	if info.Size() < f.offset {
		f.offset = 0
	}
	if info.Size() == f.offset {
		return nil, nil
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer file.Close()

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek %s: %w", f.Path, err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	f.offset += int64(len(data))
	return data, nil
}

// Follow streams appended content to w until ctx is canceled. It is the
// plain, non-interactive fallback used when stdout is not a terminal.
func (f *Follower) Follow(ctx context.Context, w io.Writer) error {
	interval := f.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		data, err := f.Next()
		if err != nil {
			return err
		}
		if len(data) > 0 {
			if _, err := w.Write(data); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
