package tail

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func appendTo(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestNextReportsAppendedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	appendTo(t, path, "first\n")

	f, err := NewFollower(path, true)
	if err != nil {
		t.Fatalf("NewFollower: %v", err)
	}

	data, err := f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(data) != "first\n" {
		t.Errorf("data = %q", data)
	}

	// Nothing new yet.
	data, err = f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected no new content, got %q", data)
	}

	appendTo(t, path, "second\n")
	data, err = f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(data) != "second\n" {
		t.Errorf("data = %q", data)
	}
}

func TestNewFollowerSkipsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	appendTo(t, path, "old content\n")

	f, err := NewFollower(path, false)
	if err != nil {
		t.Fatalf("NewFollower: %v", err)
	}

	data, err := f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected old content skipped, got %q", data)
	}

	appendTo(t, path, "new\n")
	data, err = f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(data) != "new\n" {
		t.Errorf("data = %q", data)
	}
}

func TestNextToleratesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	f, err := NewFollower(path, true)
	if err != nil {
		t.Fatalf("NewFollower: %v", err)
	}
	data, err := f.Next()
	if err != nil {
		t.Fatalf("Next on missing file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("data = %q", data)
	}

	appendTo(t, path, "appeared\n")
	data, err = f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(data) != "appeared\n" {
		t.Errorf("data = %q", data)
	}
}

func TestNextRestartsAfterShrink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	appendTo(t, path, "a longer first line\n")

	f, err := NewFollower(path, true)
	if err != nil {
		t.Fatalf("NewFollower: %v", err)
	}
	if _, err := f.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	// Replace the file with something shorter.
	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	data, err := f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(data) != "new\n" {
		t.Errorf("data = %q, want restart from top", data)
	}
}

func TestFollowStreamsUntilCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	appendTo(t, path, "hello\n")

	f, err := NewFollower(path, true)
	if err != nil {
		t.Fatalf("NewFollower: %v", err)
	}
	f.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	if err := f.Follow(ctx, &buf); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Follow err = %v, want deadline exceeded", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("streamed = %q", buf.String())
	}
}
