package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *Sqlite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewSqlite(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSqlite: %v", err)
	}
	return s
}

func makeRun(exitCode int, startedAt time.Time) Run {
	return Run{
		StartedAt:   startedAt,
		FinishedAt:  startedAt.Add(90 * time.Second),
		ExitCode:    exitCode,
		Interpreter: "/usr/bin/python3",
		Script:      "main.py",
		LogBytes:    4096,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 28, 16, 5, 0, 0, time.UTC)
	id, err := s.SaveRun(ctx, makeRun(0, started))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty run ID")
	}

	run, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.ID != id || run.ExitCode != 0 || run.Script != "main.py" || run.LogBytes != 4096 {
		t.Errorf("unexpected run: %+v", run)
	}
	if !run.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", run.StartedAt, started)
	}
	if run.Duration() != 90*time.Second {
		t.Errorf("Duration = %v, want 90s", run.Duration())
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestDB(t)
	if _, err := s.GetRun(context.Background(), "nope99"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestListRunsOrderAndLimit(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.SaveRun(ctx, makeRun(i, base.Add(time.Duration(i)*time.Hour)))
		if err != nil {
			t.Fatalf("SaveRun %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	newest, err := s.ListRuns(ctx, ListRunsOptions{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(newest) != 3 || newest[0].ID != ids[2] || newest[2].ID != ids[0] {
		t.Errorf("default order wrong: %+v", newest)
	}

	oldest, err := s.ListRuns(ctx, ListRunsOptions{AscendingOrder: true})
	if err != nil {
		t.Fatalf("ListRuns ascending: %v", err)
	}
	if oldest[0].ID != ids[0] {
		t.Errorf("ascending order wrong: %+v", oldest)
	}

	limited, err := s.ListRuns(ctx, ListRunsOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored, got %d runs", len(limited))
	}
}

func TestDeleteRun(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, makeRun(1, time.Now().UTC()))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if err := s.DeleteRun(ctx, id); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := s.GetRun(ctx, id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("run still present after delete: %v", err)
	}
	if err := s.DeleteRun(ctx, id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("second delete err = %v, want ErrRunNotFound", err)
	}
}

func TestIDCollisionRetry(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	// Force the first generated ID to collide with an existing run.
	fixed := "fixed1"
	calls := 0
	s.idGenerator = func() string {
		calls++
		if calls <= 1 {
			return fixed
		}
		return generateID()
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, exit_code, interpreter, script, log_bytes)
		VALUES (?, ?, ?, 0, 'p', 's', 0)`, fixed, time.Now(), time.Now()); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	id, err := s.SaveRun(ctx, makeRun(0, time.Now().UTC()))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == fixed {
		t.Error("collision was not retried")
	}
	if calls < 2 {
		t.Errorf("idGenerator called %d times, want at least 2", calls)
	}
}
