package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"audiosort/internal/history"
	"audiosort/internal/testsupport"
)

func TestOpenCreatesJournalUnderStateDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if store.Path() != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected journal path %q", store.Path())
	}
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty journal, got %d runs", len(runs))
	}
}

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, cfg.Paths.InputDir, cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if run.ID == "" || run.Status != history.RunRunning {
		t.Fatalf("unexpected run: %+v", run)
	}

	entries := []history.Move{
		{RunID: run.ID, Source: "/in/a.mp3", Destination: "/out/music/a.mp3", Category: "album", Outcome: history.OutcomeMoved},
		{RunID: run.ID, Source: "/in/b.mp3", Outcome: history.OutcomeSkipped, Error: "year lacks"},
		{RunID: run.ID, Source: "/in/c.mp3", Destination: "/out/music/a.mp3", Category: "album", Outcome: history.OutcomeConflict, Error: "duplicate destination"},
		{RunID: run.ID, Source: "/in/d.mp3", Destination: "/out/music/d.mp3", Category: "single", Outcome: history.OutcomeMoved},
	}
	for _, entry := range entries {
		if err := store.RecordMove(ctx, entry); err != nil {
			t.Fatalf("RecordMove failed: %v", err)
		}
	}
	if err := store.FinishRun(ctx, run.ID, history.RunCompleted); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected run to be found")
	}
	if got.Status != history.RunCompleted || got.FinishedAt == nil {
		t.Fatalf("run not finished: %+v", got)
	}
	if got.MovedCount != 2 || got.FailedCount != 2 {
		t.Fatalf("counts = %d moved / %d failed, want 2/2", got.MovedCount, got.FailedCount)
	}

	moves, err := store.ListMoves(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListMoves failed: %v", err)
	}
	if len(moves) != len(entries) {
		t.Fatalf("expected %d moves, got %d", len(entries), len(moves))
	}
	for i, move := range moves {
		want := entries[i]
		if move.Source != want.Source || move.Destination != want.Destination || move.Outcome != want.Outcome || move.Error != want.Error {
			t.Errorf("move %d = %+v, want %+v", i, move, want)
		}
		if move.RecordedAt.IsZero() {
			t.Errorf("move %d missing timestamp", i)
		}
	}
}

func TestListRunsNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	var ids []string
	for range 3 {
		run, err := store.BeginRun(ctx, "/in", "/out")
		if err != nil {
			t.Fatalf("BeginRun failed: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestGetRunByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/in", "/out")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("GetRun by prefix failed: %v", err)
	}
	if got == nil || got.ID != run.ID {
		t.Fatalf("expected prefix to resolve to %s, got %+v", run.ID, got)
	}

	missing, err := store.GetRun(ctx, "zzzz")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v, %v", missing, err)
	}
}

func TestGetRunAmbiguousPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	// 17 runs over 16 hex digits guarantee a shared first character.
	seen := map[string]int{}
	var shared string
	for range 17 {
		run, err := store.BeginRun(ctx, "/in", "/out")
		if err != nil {
			t.Fatalf("BeginRun failed: %v", err)
		}
		first := run.ID[:1]
		seen[first]++
		if seen[first] > 1 {
			shared = first
		}
	}

	if _, err := store.GetRun(ctx, shared); !errors.Is(err, history.ErrAmbiguousRunID) {
		t.Fatalf("GetRun(%q) error = %v, want ErrAmbiguousRunID", shared, err)
	}
}

func TestRecordMoveRequiresRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if err := store.RecordMove(context.Background(), history.Move{Source: "/in/a.mp3", Outcome: history.OutcomeMoved}); err == nil {
		t.Fatal("expected error without run id")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	run, err := first.BeginRun(ctx, "/in", "/out")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenJournal(t, cfg)
	got, err := second.GetRun(ctx, run.ID)
	if err != nil || got == nil {
		t.Fatalf("expected run after reopen, got %+v, %v", got, err)
	}
}
